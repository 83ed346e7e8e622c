// Package accrualservice recomputes loan interest by elapsed time tiers and projects the
// amounts owed.
package accrualservice

import (
	"context"
	"errors"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/identity"
	"github.com/go-petr/pet-economy/internal/metrics"
	"github.com/go-petr/pet-economy/internal/store"
	"github.com/rs/zerolog"
)

// Service facilitates accrual service layer logic.
type Service struct {
	uow   store.UnitOfWork
	names identity.Resolver
}

// New returns accrual service.
func New(uow store.UnitOfWork, names identity.Resolver) *Service {
	return &Service{
		uow:   uow,
		names: names,
	}
}

// Accrue visits every active loan and steps up the rate of those that crossed a tier boundary.
//
// Each loan is handled in its own unit of work. A failure is logged and counted, and the scan
// goes on with the next loan. Rerunning Accrue with the same now changes nothing, because an
// accrued row is replaced by one opened at now.
func (s *Service) Accrue(ctx context.Context, now time.Time) (domain.AccrualReport, error) {
	l := zerolog.Ctx(ctx)

	var report domain.AccrualReport

	loans, err := s.uow.Loans().ListActive(ctx)
	if err != nil {
		return report, err
	}

	report.Scanned = len(loans)

	for _, loan := range loans {
		if err := ctx.Err(); err != nil {
			metrics.RecordAccrual(report)
			return report, err
		}

		accrued, err := s.accrueOne(ctx, loan.ID, now)
		if err != nil {
			report.Failed++
			l.Error().Err(err).Int64("loan", loan.ID).Int64("owner", loan.Owner).Msg("accrual failed")

			continue
		}

		if accrued {
			report.Accrued++
		}
	}

	metrics.RecordAccrual(report)

	l.Debug().
		Int("scanned", report.Scanned).
		Int("accrued", report.Accrued).
		Int("failed", report.Failed).
		Msg("accrual scan done")

	return report, nil
}

func (s *Service) accrueOne(ctx context.Context, id int64, now time.Time) (bool, error) {
	accrued := false

	err := s.uow.ExecTx(ctx, func(q store.Queries) error {
		loan, err := q.Loans().GetForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrLoanNotFound) {
				return nil
			}

			return err
		}

		// A repayment or an overlapping scan may have closed the row.
		if loan.Status != domain.LoanStatusActive {
			return nil
		}

		rate, changed := loan.AccruedRate(now)
		if !changed {
			return nil
		}

		if _, err := q.Loans().Close(ctx, loan.ID); err != nil {
			return err
		}

		next, err := q.Loans().Create(ctx, domain.CreateLoanParams{
			Owner:        loan.Owner,
			Principal:    loan.Principal,
			OpenedAt:     now,
			InterestRate: rate,
		})
		if err != nil {
			return err
		}

		zerolog.Ctx(ctx).Info().
			Int64("owner", loan.Owner).
			Int64("loan", next.ID).
			Str("rate", rate.String()).
			Msg("loan interest increased")

		accrued = true

		return nil
	})
	if err != nil {
		return false, err
	}

	return accrued, nil
}

// Debts returns the debts view: every active loan with the owner's name, the projected
// amount owed at now and the time left until the next increase.
func (s *Service) Debts(ctx context.Context, now time.Time) ([]domain.Debt, error) {
	loans, err := s.uow.Loans().ListActive(ctx)
	if err != nil {
		return nil, err
	}

	debts := make([]domain.Debt, 0, len(loans))

	for _, loan := range loans {
		debts = append(debts, domain.Debt{
			Loan:           loan,
			OwnerName:      identity.Label(ctx, s.names, loan.Owner),
			Owed:           loan.ProjectedOwed(now),
			NextIncreaseIn: loan.NextIncreaseIn(now),
		})
	}

	return debts, nil
}
