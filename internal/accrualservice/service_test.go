package accrualservice

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/identity"
	"github.com/go-petr/pet-economy/internal/memstore"
	"github.com/go-petr/pet-economy/internal/notify"
	"github.com/go-petr/pet-economy/internal/store"
	"github.com/go-petr/pet-economy/internal/transferservice"
	"github.com/go-petr/pet-economy/pkg/errorspkg"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	ctx = context.Background()
	t0  = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setup(t *testing.T, bank string) (*memstore.Store, *transferservice.Service) {
	t.Helper()

	s := memstore.New()

	_, err := s.Accounts().Ensure(ctx, domain.BankID, d(bank))
	require.NoError(t, err)

	ts := transferservice.New(s, transferservice.LowestIDSelector{}, notify.Nop{},
		transferservice.WithClock(func() time.Time { return t0 }))

	return s, ts
}

func activeLoan(t *testing.T, s *memstore.Store, owner int64) domain.Loan {
	t.Helper()

	loan, err := s.Loans().GetActiveByOwner(ctx, owner)
	require.NoError(t, err)

	return loan
}

func TestLoanLifecycle(t *testing.T) {
	const a = int64(1)

	s, ts := setup(t, "100")
	accrual := New(s, nil)

	issued, err := ts.IssueLoan(ctx, a, d("8"))
	require.NoError(t, err)
	require.True(t, issued.Bank.Balance.Equal(d("92")))
	require.True(t, issued.Owner.Balance.Equal(d("8")))

	now := t0.Add(25 * time.Hour)

	report, err := accrual.Accrue(ctx, now)
	require.NoError(t, err)
	require.Equal(t, domain.AccrualReport{Scanned: 1, Accrued: 1}, report)

	loan := activeLoan(t, s, a)
	require.True(t, loan.InterestRate.Equal(d("0.5")))
	require.True(t, loan.Principal.Equal(d("8")))
	require.Equal(t, now, loan.OpenedAt)
	require.NotEqual(t, issued.Loan.ID, loan.ID)

	old, err := s.Loans().GetForUpdate(ctx, issued.Loan.ID)
	require.NoError(t, err)
	require.Equal(t, domain.LoanStatusClosed, old.Status)

	repaid, err := ts.RepayLoan(ctx, a, loan.ID)
	require.NoError(t, err)
	require.True(t, repaid.Owner.Balance.IsZero())
	require.True(t, repaid.Bank.Balance.Equal(d("100")))

	active, err := s.Loans().ListActive(ctx)
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestAccrueTwiceAtSameInstantIsIdempotent(t *testing.T) {
	s, ts := setup(t, "100")
	accrual := New(s, nil)

	_, err := ts.IssueLoan(ctx, 1, d("8"))
	require.NoError(t, err)

	now := t0.Add(30 * time.Hour)

	_, err = accrual.Accrue(ctx, now)
	require.NoError(t, err)

	first := activeLoan(t, s, 1)

	report, err := accrual.Accrue(ctx, now)
	require.NoError(t, err)
	require.Equal(t, domain.AccrualReport{Scanned: 1}, report)

	second := activeLoan(t, s, 1)
	require.Equal(t, first, second)
}

func TestAccrueMissedTicksSmallLoan(t *testing.T) {
	late := t0.Add(73 * time.Hour)

	// One scan after three days.
	single, ts := setup(t, "100")
	_, err := ts.IssueLoan(ctx, 1, d("12"))
	require.NoError(t, err)

	_, err = New(single, nil).Accrue(ctx, late)
	require.NoError(t, err)

	// The same loan scanned on time and then late.
	stepped, ts := setup(t, "100")
	_, err = ts.IssueLoan(ctx, 1, d("12"))
	require.NoError(t, err)

	accrual := New(stepped, nil)

	_, err = accrual.Accrue(ctx, t0.Add(25*time.Hour))
	require.NoError(t, err)

	_, err = accrual.Accrue(ctx, late)
	require.NoError(t, err)

	want := activeLoan(t, single, 1)
	got := activeLoan(t, stepped, 1)

	require.True(t, want.InterestRate.Equal(d("1")), "single scan rate %s", want.InterestRate)
	require.True(t, got.InterestRate.Equal(want.InterestRate), "stepped rate %s, single rate %s", got.InterestRate, want.InterestRate)
}

func TestAccrueLargeLoanTiers(t *testing.T) {
	s, ts := setup(t, "100")
	accrual := New(s, nil)

	_, err := ts.IssueLoan(ctx, 1, d("20"))
	require.NoError(t, err)

	report, err := accrual.Accrue(ctx, t0.Add(47*time.Hour))
	require.NoError(t, err)
	require.Zero(t, report.Accrued)

	report, err = accrual.Accrue(ctx, t0.Add(49*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, report.Accrued)
	require.True(t, activeLoan(t, s, 1).InterestRate.Equal(d("0.5")))
}

func TestAccrueSkipsClosedRow(t *testing.T) {
	s, ts := setup(t, "100")
	accrual := New(s, nil)

	issued, err := ts.IssueLoan(ctx, 1, d("8"))
	require.NoError(t, err)

	_, err = ts.RepayLoan(ctx, 1, issued.Loan.ID)
	require.NoError(t, err)

	accrued, err := accrual.accrueOne(ctx, issued.Loan.ID, t0.Add(100*time.Hour))
	require.NoError(t, err)
	require.False(t, accrued)

	_, err = s.Loans().GetActiveByOwner(ctx, 1)
	require.ErrorIs(t, err, domain.ErrLoanNotFound)
}

func TestAccrueCountsFailuresAndContinues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loans := store.NewMockLoanRepo(ctrl)
	loans.EXPECT().ListActive(gomock.Any()).Return([]domain.Loan{
		{ID: 1, Owner: 10, Principal: d("8"), OpenedAt: t0, InterestRate: domain.InitialInterestRate, Status: domain.LoanStatusActive},
		{ID: 2, Owner: 11, Principal: d("8"), OpenedAt: t0, InterestRate: domain.InitialInterestRate, Status: domain.LoanStatusActive},
	}, nil)

	uow := store.NewMockUnitOfWork(ctrl)
	uow.EXPECT().Loans().Return(loans)
	gomock.InOrder(
		uow.EXPECT().ExecTx(gomock.Any(), gomock.Any()).Return(errorspkg.ErrOperationFailed),
		uow.EXPECT().ExecTx(gomock.Any(), gomock.Any()).Return(nil),
	)

	report, err := New(uow, nil).Accrue(ctx, t0.Add(25*time.Hour))
	require.NoError(t, err)
	require.Equal(t, domain.AccrualReport{Scanned: 2, Failed: 1}, report)
}

func TestAccrueStopsOnCanceledContext(t *testing.T) {
	s, ts := setup(t, "100")

	_, err := ts.IssueLoan(ctx, 1, d("8"))
	require.NoError(t, err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()

	_, err = New(s, nil).Accrue(canceled, t0.Add(25*time.Hour))
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, activeLoan(t, s, 1).InterestRate.Equal(domain.InitialInterestRate))
}

func TestDebts(t *testing.T) {
	s, ts := setup(t, "100")

	_, err := ts.IssueLoan(ctx, 1, d("8"))
	require.NoError(t, err)

	_, err = ts.IssueLoan(ctx, 2, d("16"))
	require.NoError(t, err)

	names := identity.Static{1: "Alice"}

	debts, err := New(s, names).Debts(ctx, t0.Add(30*time.Hour))
	require.NoError(t, err)
	require.Len(t, debts, 2)

	require.Equal(t, "Alice", debts[0].OwnerName)
	require.True(t, debts[0].Owed.Equal(d("12")), "owed %s", debts[0].Owed)
	require.Equal(t, 18*time.Hour, debts[0].NextIncreaseIn)

	require.Equal(t, "User 2", debts[1].OwnerName)
	require.True(t, debts[1].Owed.Equal(d("16")), "owed %s", debts[1].Owed)
	require.Equal(t, 18*time.Hour, debts[1].NextIncreaseIn)
}
