package catalogservice

import (
	"context"
	"strings"
	"testing"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/memstore"
	"github.com/go-petr/pet-economy/internal/store"
	"github.com/go-petr/pet-economy/pkg/errorspkg"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestAdd(t *testing.T) {
	testCases := []struct {
		name    string
		svcName string
		price   string
		kind    domain.ServiceKind
		wantErr error
	}{
		{name: "OK", svcName: "Walk the dog", price: "12.5", kind: domain.ServiceKindBuy},
		{name: "TrimmedName", svcName: "  Express taxi ", price: "3", kind: domain.ServiceKindBuy},
		{name: "Sell", svcName: "Wash the car", price: "7", kind: domain.ServiceKindSell},
		{name: "ErrInvalidServiceName", svcName: "   ", price: "3", kind: domain.ServiceKindBuy, wantErr: domain.ErrInvalidServiceName},
		{name: "ErrInvalidAmountZero", svcName: "Cook", price: "0", kind: domain.ServiceKindBuy, wantErr: domain.ErrInvalidAmount},
		{name: "ErrInvalidAmountNegative", svcName: "Cook", price: "-2", kind: domain.ServiceKindSell, wantErr: domain.ErrInvalidAmount},
		{name: "ErrInvalidServiceKind", svcName: "Cook", price: "2", kind: "lend", wantErr: domain.ErrInvalidServiceKind},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := New(memstore.New().Services())

			got, err := s.Add(ctx, tc.svcName, decimal.RequireFromString(tc.price), tc.kind)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)

				all, err := s.List(ctx, "")
				require.NoError(t, err)
				require.Empty(t, all)

				return
			}

			require.NoError(t, err)

			want := domain.Service{
				ID:    got.ID,
				Name:  strings.TrimSpace(tc.svcName),
				Price: decimal.RequireFromString(tc.price),
				Kind:  tc.kind,
			}
			require.Equal(t, want.Name, got.Name)

			stored, err := s.Get(ctx, got.ID)
			require.NoError(t, err)

			equateDecimal := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
			ignoreCreatedAt := cmpopts.IgnoreFields(domain.Service{}, "CreatedAt")

			if diff := cmp.Diff(want, stored, equateDecimal, ignoreCreatedAt); diff != "" {
				t.Errorf("stored service mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListAndRemove(t *testing.T) {
	s := New(memstore.New().Services())

	buy, err := s.Add(ctx, "Express delivery", decimal.NewFromInt(20), domain.ServiceKindBuy)
	require.NoError(t, err)
	require.True(t, buy.IsExpress())

	sell, err := s.Add(ctx, "Iron shirts", decimal.NewFromInt(4), domain.ServiceKindSell)
	require.NoError(t, err)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	sells, err := s.List(ctx, domain.ServiceKindSell)
	require.NoError(t, err)
	require.Len(t, sells, 1)
	require.Equal(t, sell.ID, sells[0].ID)

	_, err = s.List(ctx, "rent")
	require.ErrorIs(t, err, domain.ErrInvalidServiceKind)

	require.NoError(t, s.Remove(ctx, buy.ID))
	require.ErrorIs(t, s.Remove(ctx, buy.ID), domain.ErrServiceNotFound)

	_, err = s.Get(ctx, buy.ID)
	require.ErrorIs(t, err, domain.ErrServiceNotFound)

	buys, err := s.List(ctx, domain.ServiceKindBuy)
	require.NoError(t, err)
	require.Empty(t, buys)
}

func TestAddStorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := store.NewMockServiceRepo(ctrl)
	repo.EXPECT().
		Create(gomock.Any(), domain.CreateServiceParams{Name: "Cook", Price: decimal.NewFromInt(2), Kind: domain.ServiceKindBuy}).
		Return(domain.Service{}, errorspkg.ErrOperationFailed)

	_, err := New(repo).Add(ctx, " Cook ", decimal.NewFromInt(2), domain.ServiceKindBuy)
	require.ErrorIs(t, err, errorspkg.ErrOperationFailed)
}
