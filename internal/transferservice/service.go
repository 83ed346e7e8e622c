// Package transferservice manages business logic layer of balance transfers: peer sends,
// loan issue and repayment, and service purchases.
package transferservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/metrics"
	"github.com/go-petr/pet-economy/internal/notify"
	"github.com/go-petr/pet-economy/internal/store"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PerformerSelector picks the counterparty of a purchase when the buyer did not name one.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type PerformerSelector interface {
	SelectPerformer(ctx context.Context, q store.Queries, buyer int64) (int64, error)
}

// LowestIDSelector picks the account with the lowest id that is neither the buyer nor the Bank.
type LowestIDSelector struct{}

// SelectPerformer implements PerformerSelector.
func (LowestIDSelector) SelectPerformer(ctx context.Context, q store.Queries, buyer int64) (int64, error) {
	accounts, err := q.Accounts().List(ctx)
	if err != nil {
		return 0, err
	}

	for _, a := range accounts {
		if a.ID != buyer && !a.IsBank() {
			return a.ID, nil
		}
	}

	return 0, domain.ErrNoCounterparty
}

// Service facilitates transfer service layer logic.
type Service struct {
	uow      store.UnitOfWork
	selector PerformerSelector
	notifier notify.Notifier
	now      func() time.Time
}

// Option configures Service.
type Option func(*Service)

// WithClock replaces the time source used to stamp new loans.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New returns transfer service struct to manage transfer business logic.
func New(uow store.UnitOfWork, selector PerformerSelector, notifier notify.Notifier, opts ...Option) *Service {
	s := &Service{
		uow:      uow,
		selector: selector,
		notifier: notifier,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Send moves amount from one participant to another.
func (s *Service) Send(ctx context.Context, from, to int64, amount decimal.Decimal) (result domain.SendResult, err error) {
	l := zerolog.Ctx(ctx)

	defer func() { metrics.RecordOperation("send", err) }()

	if !amount.IsPositive() {
		l.Info().Str("amount", amount.String()).Msg("send rejected")
		return result, domain.ErrInvalidAmount
	}

	if from == to {
		return result, domain.ErrSameAccount
	}

	err = s.uow.ExecTx(ctx, func(q store.Queries) error {
		accounts, err := store.ApplyDeltas(ctx, q.Accounts(),
			domain.Delta{AccountID: from, Amount: amount.Neg()},
			domain.Delta{AccountID: to, Amount: amount},
		)
		if err != nil {
			return err
		}

		result = domain.SendResult{From: accounts[from], To: accounts[to], Amount: amount}

		return nil
	})
	if err != nil {
		l.Info().Err(err).Int64("from", from).Int64("to", to).Msg("send failed")
		return domain.SendResult{}, err
	}

	s.notifier.Notify(ctx, notify.Notification{
		Recipient: to,
		Kind:      notify.KindPointsReceived,
		Message:   fmt.Sprintf("You received %s points", amount),
		Amount:    amount,
	})

	return result, nil
}

// LoanPresets returns the amounts offered by the loan menu.
func (s *Service) LoanPresets() []decimal.Decimal {
	return domain.LoanPresets()
}

// IssueLoan lends amount from the Bank to owner and opens the loan at the initial rate.
func (s *Service) IssueLoan(ctx context.Context, owner int64, amount decimal.Decimal) (result domain.LoanResult, err error) {
	l := zerolog.Ctx(ctx)

	defer func() { metrics.RecordOperation("issue_loan", err) }()

	if !amount.IsPositive() {
		l.Info().Str("amount", amount.String()).Msg("loan rejected")
		return result, domain.ErrInvalidAmount
	}

	if owner == domain.BankID {
		return result, domain.ErrBankAccount
	}

	err = s.uow.ExecTx(ctx, func(q store.Queries) error {
		_, err := q.Loans().GetActiveByOwner(ctx, owner)
		switch {
		case err == nil:
			return domain.ErrLoanAlreadyActive
		case !errors.Is(err, domain.ErrLoanNotFound):
			return err
		}

		accounts, err := store.ApplyDeltas(ctx, q.Accounts(),
			domain.Delta{AccountID: domain.BankID, Amount: amount.Neg()},
			domain.Delta{AccountID: owner, Amount: amount},
		)
		if err != nil {
			return err
		}

		loan, err := q.Loans().Create(ctx, domain.CreateLoanParams{
			Owner:        owner,
			Principal:    amount,
			OpenedAt:     s.now().UTC(),
			InterestRate: domain.InitialInterestRate,
		})
		if err != nil {
			return err
		}

		result = domain.LoanResult{Loan: loan, Owner: accounts[owner], Bank: accounts[domain.BankID]}

		return nil
	})
	if err != nil {
		l.Info().Err(err).Int64("owner", owner).Msg("loan not issued")
		return domain.LoanResult{}, err
	}

	s.notifier.Notify(ctx, notify.Notification{
		Recipient: owner,
		Kind:      notify.KindLoanIssued,
		Message:   fmt.Sprintf("Loan of %s points issued", amount),
		Amount:    amount,
	})

	return result, nil
}

// RepayLoan pays the principal of the owner's active loan back to the Bank and closes the loan.
func (s *Service) RepayLoan(ctx context.Context, owner, loanID int64) (result domain.LoanResult, err error) {
	l := zerolog.Ctx(ctx)

	defer func() { metrics.RecordOperation("repay_loan", err) }()

	err = s.uow.ExecTx(ctx, func(q store.Queries) error {
		loan, err := q.Loans().GetForUpdate(ctx, loanID)
		if err != nil {
			return err
		}

		if loan.Owner != owner || loan.Status != domain.LoanStatusActive {
			return domain.ErrLoanNotFound
		}

		accounts, err := store.ApplyDeltas(ctx, q.Accounts(),
			domain.Delta{AccountID: owner, Amount: loan.Principal.Neg()},
			domain.Delta{AccountID: domain.BankID, Amount: loan.Principal},
		)
		if err != nil {
			return err
		}

		loan, err = q.Loans().Close(ctx, loan.ID)
		if err != nil {
			return err
		}

		result = domain.LoanResult{Loan: loan, Owner: accounts[owner], Bank: accounts[domain.BankID]}

		return nil
	})
	if err != nil {
		l.Info().Err(err).Int64("owner", owner).Int64("loan", loanID).Msg("loan not repaid")
		return domain.LoanResult{}, err
	}

	s.notifier.Notify(ctx, notify.Notification{
		Recipient: owner,
		Kind:      notify.KindLoanRepaid,
		Message:   fmt.Sprintf("Loan of %s points repaid", result.Loan.Principal),
		Amount:    result.Loan.Principal,
	})

	return result, nil
}

// BuyService charges the buyer for a catalog buy service and opens an escrow for the performer.
//
// Express services pay the whole price to the Bank. Standard services pay the performer its
// share and the Bank the rest. A nil performer lets the selector choose one.
func (s *Service) BuyService(ctx context.Context, buyer, serviceID int64, performer *int64) (result domain.PurchaseResult, err error) {
	l := zerolog.Ctx(ctx)

	defer func() { metrics.RecordOperation("buy_service", err) }()

	if buyer == domain.BankID {
		return result, domain.ErrBankAccount
	}

	if performer != nil {
		switch *performer {
		case buyer:
			return result, domain.ErrSameAccount
		case domain.BankID:
			return result, domain.ErrBankAccount
		}
	}

	err = s.uow.ExecTx(ctx, func(q store.Queries) error {
		svc, err := q.Services().Get(ctx, serviceID)
		if err != nil {
			return err
		}

		if svc.Kind != domain.ServiceKindBuy {
			return domain.ErrServiceNotFound
		}

		performerID, err := s.resolvePerformer(ctx, q, buyer, performer)
		if err != nil {
			return err
		}

		performerShare, bankShare := svc.Split()

		accounts, err := store.ApplyDeltas(ctx, q.Accounts(),
			domain.Delta{AccountID: buyer, Amount: svc.Price.Neg()},
			domain.Delta{AccountID: performerID, Amount: performerShare},
			domain.Delta{AccountID: domain.BankID, Amount: bankShare},
		)
		if err != nil {
			return err
		}

		escrow, err := q.Escrows().Create(ctx, domain.CreateEscrowParams{
			Beneficiary: performerID,
			ServiceName: svc.Name,
			Price:       svc.Price,
			Kind:        domain.ServiceKindBuy,
		})
		if err != nil {
			return err
		}

		result = domain.PurchaseResult{
			Service:        svc,
			Escrow:         escrow,
			Buyer:          accounts[buyer],
			Performer:      accounts[performerID],
			Bank:           accounts[domain.BankID],
			PerformerShare: performerShare,
			BankShare:      bankShare,
		}

		return nil
	})
	if err != nil {
		l.Info().Err(err).Int64("buyer", buyer).Int64("service", serviceID).Msg("purchase failed")
		return domain.PurchaseResult{}, err
	}

	s.notifier.Notify(ctx, notify.Notification{
		Recipient: result.Escrow.Beneficiary,
		Kind:      notify.KindServicePurchased,
		Message:   fmt.Sprintf("%q was bought, confirm it once it is done", result.Service.Name),
		Amount:    result.PerformerShare,
		EscrowID:  result.Escrow.ID,
	})

	return result, nil
}

func (s *Service) resolvePerformer(ctx context.Context, q store.Queries, buyer int64, performer *int64) (int64, error) {
	if performer != nil {
		return *performer, nil
	}

	return s.selector.SelectPerformer(ctx, q, buyer)
}
