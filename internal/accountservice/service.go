// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/identity"
	"github.com/go-petr/pet-economy/internal/store"
	"github.com/go-petr/pet-economy/pkg/moneypkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Service facilitates account service layer logic.
type Service struct {
	repo  store.AccountRepo
	names identity.Resolver
}

// New returns account service struct to manage account business logic.
func New(repo store.AccountRepo, names identity.Resolver) *Service {
	return &Service{
		repo:  repo,
		names: names,
	}
}

// Register creates the participant account with a zero balance. Registering twice returns
// the existing account.
func (s *Service) Register(ctx context.Context, id int64) (domain.NamedAccount, error) {
	if id == domain.BankID {
		return domain.NamedAccount{}, domain.ErrBankAccount
	}

	account, err := s.repo.Ensure(ctx, id, decimal.Zero)
	if err != nil {
		return domain.NamedAccount{}, err
	}

	return s.named(ctx, account), nil
}

// Balance returns the account of the participant, creating it when it is first seen.
func (s *Service) Balance(ctx context.Context, id int64) (domain.NamedAccount, error) {
	account, err := s.repo.Ensure(ctx, id, decimal.Zero)
	if err != nil {
		return domain.NamedAccount{}, err
	}

	return s.named(ctx, account), nil
}

// List returns every account with its display name, Bank first.
func (s *Service) List(ctx context.Context) ([]domain.NamedAccount, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	named := make([]domain.NamedAccount, 0, len(accounts))
	for _, a := range accounts {
		named = append(named, s.named(ctx, a))
	}

	return named, nil
}

// EnsureBank creates the Bank account with the seed balance unless it already exists.
// An existing Bank keeps its balance.
func (s *Service) EnsureBank(ctx context.Context, seed string) (domain.Account, error) {
	balance := decimal.Zero

	if d, err := decimal.NewFromString(seed); seed != "" && (err != nil || !d.IsZero()) {
		balance, err = moneypkg.Parse(seed)
		if err != nil {
			return domain.Account{}, err
		}
	}

	bank, err := s.repo.Ensure(ctx, domain.BankID, balance)
	if err != nil {
		return domain.Account{}, err
	}

	zerolog.Ctx(ctx).Info().Str("balance", bank.Balance.String()).Msg("bank account ready")

	return bank, nil
}

func (s *Service) named(ctx context.Context, a domain.Account) domain.NamedAccount {
	return domain.NamedAccount{Account: a, Name: identity.Label(ctx, s.names, a.ID)}
}
