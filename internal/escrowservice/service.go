// Package escrowservice manages business logic layer of service settlements.
package escrowservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/metrics"
	"github.com/go-petr/pet-economy/internal/notify"
	"github.com/go-petr/pet-economy/internal/store"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Log page bounds.
const (
	DefaultLogLimit = 20
	MaxLogLimit     = 100
)

// Service facilitates escrow service layer logic.
type Service struct {
	uow      store.UnitOfWork
	notifier notify.Notifier
	now      func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithClock replaces the time source used to stamp settlements.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New returns escrow service struct to manage settlement business logic.
func New(uow store.UnitOfWork, notifier notify.Notifier, opts ...Option) *Service {
	s := &Service{
		uow:      uow,
		notifier: notifier,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ClaimSell opens a pending sell escrow for the performer. No money moves until the claim is
// confirmed by someone else.
func (s *Service) ClaimSell(ctx context.Context, performer, serviceID int64, evidence string) (escrow domain.Escrow, err error) {
	l := zerolog.Ctx(ctx)

	defer func() { metrics.RecordOperation("claim_sell", err) }()

	if performer == domain.BankID {
		return escrow, domain.ErrBankAccount
	}

	err = s.uow.ExecTx(ctx, func(q store.Queries) error {
		svc, err := q.Services().Get(ctx, serviceID)
		if err != nil {
			return err
		}

		if svc.Kind != domain.ServiceKindSell {
			return domain.ErrServiceNotFound
		}

		if _, err := q.Accounts().Ensure(ctx, performer, decimal.Zero); err != nil {
			return err
		}

		escrow, err = q.Escrows().Create(ctx, domain.CreateEscrowParams{
			Beneficiary: performer,
			ServiceName: svc.Name,
			Price:       svc.Price,
			Kind:        domain.ServiceKindSell,
			Evidence:    strings.TrimSpace(evidence),
		})

		return err
	})
	if err != nil {
		l.Info().Err(err).Int64("performer", performer).Int64("service", serviceID).Msg("claim failed")
		return domain.Escrow{}, err
	}

	s.notifier.Notify(ctx, notify.Notification{
		Recipient: performer,
		Kind:      notify.KindSellClaimed,
		Message:   fmt.Sprintf("%q is waiting for confirmation", escrow.ServiceName),
		Amount:    escrow.Price,
		EscrowID:  escrow.ID,
	})

	return escrow, nil
}

// Confirm settles a pending escrow on behalf of confirmer.
//
// A sell escrow pays the price from the Bank to the beneficiary; a buy escrow was paid at
// purchase time and only changes state. The settlement is appended to the transaction log.
func (s *Service) Confirm(ctx context.Context, escrowID, confirmer int64) (result domain.SettlementResult, err error) {
	l := zerolog.Ctx(ctx)

	defer func() { metrics.RecordOperation("confirm_escrow", err) }()

	err = s.uow.ExecTx(ctx, func(q store.Queries) error {
		escrow, err := q.Escrows().GetForUpdate(ctx, escrowID)
		if err != nil {
			return err
		}

		if escrow.Status != domain.EscrowStatusPending {
			return domain.ErrEscrowNotPending
		}

		if escrow.Beneficiary == confirmer {
			return domain.ErrSelfConfirmationDenied
		}

		var beneficiary domain.Account

		if escrow.Kind == domain.ServiceKindSell {
			accounts, err := store.ApplyDeltas(ctx, q.Accounts(),
				domain.Delta{AccountID: domain.BankID, Amount: escrow.Price.Neg()},
				domain.Delta{AccountID: escrow.Beneficiary, Amount: escrow.Price},
			)
			if err != nil {
				return err
			}

			beneficiary = accounts[escrow.Beneficiary]
		} else {
			beneficiary, err = q.Accounts().Ensure(ctx, escrow.Beneficiary, decimal.Zero)
			if err != nil {
				return err
			}
		}

		settledAt := s.now().UTC()

		escrow, err = q.Escrows().Settle(ctx, escrow.ID, settledAt)
		if err != nil {
			return err
		}

		entry, err := q.Log().Append(ctx, domain.LogEntry{
			EscrowID:    escrow.ID,
			Beneficiary: escrow.Beneficiary,
			Confirmer:   confirmer,
			ServiceName: escrow.ServiceName,
			Price:       escrow.Price,
			Kind:        escrow.Kind,
			SettledAt:   settledAt,
		})
		if err != nil {
			return err
		}

		result = domain.SettlementResult{Escrow: escrow, Entry: entry, Beneficiary: beneficiary}

		return nil
	})
	if err != nil {
		l.Info().Err(err).Int64("escrow", escrowID).Int64("confirmer", confirmer).Msg("confirmation failed")
		return domain.SettlementResult{}, err
	}

	s.notifier.Notify(ctx, notify.Notification{
		Recipient: result.Escrow.Beneficiary,
		Kind:      notify.KindEscrowSettled,
		Message:   fmt.Sprintf("%q was confirmed", result.Escrow.ServiceName),
		Amount:    result.Escrow.Price,
		EscrowID:  result.Escrow.ID,
	})

	return result, nil
}

// Pending returns the pending escrows of the beneficiary.
func (s *Service) Pending(ctx context.Context, beneficiary int64) ([]domain.Escrow, error) {
	return s.uow.Escrows().ListPending(ctx, beneficiary)
}

// Log returns settled entries newest first. A nil accountID lists entries of every participant.
func (s *Service) Log(ctx context.Context, accountID *int64, limit, offset int32) ([]domain.LogEntry, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}

	if limit > MaxLogLimit {
		limit = MaxLogLimit
	}

	if offset < 0 {
		offset = 0
	}

	return s.uow.Log().List(ctx, domain.ListLogParams{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
	})
}
