package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestExecTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Accounts().Ensure(ctx, domain.BankID, decimal.NewFromInt(100))
	require.NoError(t, err)

	errBoom := errors.New("boom")

	err = s.ExecTx(ctx, func(q store.Queries) error {
		if _, err := q.Accounts().AddBalance(ctx, domain.BankID, decimal.NewFromInt(-40)); err != nil {
			return err
		}

		if _, err := q.Accounts().AddBalance(ctx, 1, decimal.NewFromInt(40)); err != nil {
			return err
		}

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	bank, err := s.Accounts().Get(ctx, domain.BankID)
	require.NoError(t, err)
	require.Equal(t, "100", bank.Balance.String())

	_, err = s.Accounts().Get(ctx, 1)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestExecTxCommits(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Accounts().Ensure(ctx, domain.BankID, decimal.NewFromInt(100))
	require.NoError(t, err)

	err = s.ExecTx(ctx, func(q store.Queries) error {
		_, err := store.ApplyDeltas(ctx, q.Accounts(),
			domain.Delta{AccountID: domain.BankID, Amount: decimal.NewFromInt(-40)},
			domain.Delta{AccountID: 1, Amount: decimal.NewFromInt(40)},
		)

		return err
	})
	require.NoError(t, err)

	items, err := s.Accounts().List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, int64(0), items[0].ID)
	require.Equal(t, "60", items[0].Balance.String())
	require.Equal(t, "40", items[1].Balance.String())
	require.True(t, s.TotalBalance().Equal(decimal.NewFromInt(100)))
}

func TestExecTxCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false

	err := New().ExecTx(ctx, func(q store.Queries) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestAddBalanceNeverNegative(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Accounts().AddBalance(ctx, 5, decimal.NewFromInt(-1))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	a, err := s.Accounts().AddBalance(ctx, 5, decimal.NewFromInt(3))
	require.NoError(t, err)
	require.Equal(t, "3", a.Balance.String())

	_, err = s.Accounts().AddBalance(ctx, 5, decimal.NewFromInt(-4))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestLoansOneActivePerOwner(t *testing.T) {
	ctx := context.Background()
	s := New()

	arg := domain.CreateLoanParams{
		Owner:        1,
		Principal:    decimal.NewFromInt(8),
		OpenedAt:     time.Now(),
		InterestRate: domain.InitialInterestRate,
	}

	first, err := s.Loans().Create(ctx, arg)
	require.NoError(t, err)

	_, err = s.Loans().Create(ctx, arg)
	require.ErrorIs(t, err, domain.ErrLoanAlreadyActive)

	_, err = s.Loans().Close(ctx, first.ID)
	require.NoError(t, err)

	_, err = s.Loans().Close(ctx, first.ID)
	require.ErrorIs(t, err, domain.ErrLoanNotFound)

	second, err := s.Loans().Create(ctx, arg)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	active, err := s.Loans().ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, second.ID, active[0].ID)
}

func TestEscrowSettleOnce(t *testing.T) {
	ctx := context.Background()
	s := New()

	e, err := s.Escrows().Create(ctx, domain.CreateEscrowParams{
		Beneficiary: 2,
		ServiceName: "Wash dishes",
		Price:       decimal.NewFromInt(5),
		Kind:        domain.ServiceKindSell,
	})
	require.NoError(t, err)
	require.Equal(t, domain.EscrowStatusPending, e.Status)

	now := time.Now()

	settled, err := s.Escrows().Settle(ctx, e.ID, now)
	require.NoError(t, err)
	require.Equal(t, domain.EscrowStatusSettled, settled.Status)
	require.NotNil(t, settled.SettledAt)

	_, err = s.Escrows().Settle(ctx, e.ID, now)
	require.ErrorIs(t, err, domain.ErrEscrowNotPending)

	pending, err := s.Escrows().ListPending(ctx, 2)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestLogListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()

	for i := int64(1); i <= 5; i++ {
		_, err := s.Log().Append(ctx, domain.LogEntry{
			EscrowID:    i,
			Beneficiary: i % 2,
			Confirmer:   9,
			ServiceName: "Cook",
			Price:       decimal.NewFromInt(i),
			Kind:        domain.ServiceKindBuy,
			SettledAt:   time.Now(),
		})
		require.NoError(t, err)
	}

	all, err := s.Log().List(ctx, domain.ListLogParams{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, int64(4), all[0].EscrowID)
	require.Equal(t, int64(3), all[1].EscrowID)

	owner := int64(1)

	mine, err := s.Log().List(ctx, domain.ListLogParams{AccountID: &owner, Limit: 10})
	require.NoError(t, err)
	require.Len(t, mine, 3)
	require.Equal(t, int64(5), mine[0].EscrowID)
}
