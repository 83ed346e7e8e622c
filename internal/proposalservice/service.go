// Package proposalservice implements two-step sends: a proposal is stored first and the
// transfer runs only when its author confirms it.
package proposalservice

import (
	"context"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultTTL is how long a proposal waits for confirmation when no TTL is configured.
const DefaultTTL = 10 * time.Minute

// Repo provides data access layer interface needed by proposal service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package proposalservice
type Repo interface {
	Save(ctx context.Context, p domain.Proposal) error
	Take(ctx context.Context, id uuid.UUID) (domain.Proposal, error)
}

// Sender executes a confirmed send.
type Sender interface {
	Send(ctx context.Context, from, to int64, amount decimal.Decimal) (domain.SendResult, error)
}

// Service facilitates proposal service layer logic.
type Service struct {
	repo   Repo
	sender Sender
	ttl    time.Duration
	now    func() time.Time
}

// New returns proposal service.
func New(repo Repo, sender Sender, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Service{
		repo:   repo,
		sender: sender,
		ttl:    ttl,
		now:    time.Now,
	}
}

// ProposeSend validates a send and stores it as a proposal. The ledger is not touched.
func (s *Service) ProposeSend(ctx context.Context, from, to int64, amount decimal.Decimal) (domain.Proposal, error) {
	switch {
	case !amount.IsPositive():
		return domain.Proposal{}, domain.ErrInvalidAmount
	case from == to:
		return domain.Proposal{}, domain.ErrSameAccount
	}

	now := s.now().UTC()

	p := domain.Proposal{
		ID:        uuid.New(),
		Kind:      domain.ProposalKindSend,
		From:      from,
		To:        to,
		Amount:    amount,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.repo.Save(ctx, p); err != nil {
		return domain.Proposal{}, err
	}

	zerolog.Ctx(ctx).Debug().Str("proposal", p.ID.String()).Int64("from", from).Int64("to", to).Msg("send proposed")

	return p, nil
}

// Confirm executes the proposal on behalf of requester, who must be its author.
// A proposal is consumed by the first confirmation attempt of its author.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID, requester int64) (domain.SendResult, error) {
	p, err := s.repo.Take(ctx, id)
	if err != nil {
		return domain.SendResult{}, err
	}

	if p.From != requester {
		// Put it back so a stranger cannot cancel someone else's proposal.
		if err := s.repo.Save(ctx, p); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("proposal", id.String()).Msg("proposal not restored")
		}

		return domain.SendResult{}, domain.ErrProposalOwnerMismatch
	}

	return s.sender.Send(ctx, p.From, p.To, p.Amount)
}
