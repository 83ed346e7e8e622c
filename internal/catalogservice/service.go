// Package catalogservice manages business logic layer of the service catalog.
package catalogservice

import (
	"context"
	"strings"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/store"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service facilitates catalog service layer logic.
type Service struct {
	repo store.ServiceRepo
}

// New returns catalog service struct to manage catalog business logic.
func New(repo store.ServiceRepo) *Service {
	return &Service{repo: repo}
}

// Add validates and stores a new catalog service.
func (s *Service) Add(ctx context.Context, name string, price decimal.Decimal, kind domain.ServiceKind) (domain.Service, error) {
	name = strings.TrimSpace(name)

	switch {
	case name == "":
		return domain.Service{}, domain.ErrInvalidServiceName
	case !price.IsPositive():
		return domain.Service{}, domain.ErrInvalidAmount
	case !kind.Valid():
		return domain.Service{}, domain.ErrInvalidServiceKind
	}

	svc, err := s.repo.Create(ctx, domain.CreateServiceParams{Name: name, Price: price, Kind: kind})
	if err != nil {
		return domain.Service{}, err
	}

	zerolog.Ctx(ctx).Info().Int64("service", svc.ID).Str("kind", string(kind)).Msg("service added")

	return svc, nil
}

// List returns services of the given kind, or the whole catalog for an empty kind.
func (s *Service) List(ctx context.Context, kind domain.ServiceKind) ([]domain.Service, error) {
	if kind != "" && !kind.Valid() {
		return nil, domain.ErrInvalidServiceKind
	}

	return s.repo.List(ctx, kind)
}

// Get returns the catalog service with the given id.
func (s *Service) Get(ctx context.Context, id int64) (domain.Service, error) {
	return s.repo.Get(ctx, id)
}

// Remove deletes the catalog service. Pending escrows keep their copy of the name and price.
func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
