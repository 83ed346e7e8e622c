package store

import (
	"context"
	"testing"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/pkg/errorspkg"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func account(id int64, balance string) domain.Account {
	return domain.Account{ID: id, Balance: decimal.RequireFromString(balance)}
}

func TestApplyDeltas(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		deltas        []domain.Delta
		buildStubs    func(repo *MockAccountRepo)
		checkResponse func(t *testing.T, got map[int64]domain.Account, err error)
	}{
		{
			name: "OK",
			deltas: []domain.Delta{
				{AccountID: 7, Amount: decimal.NewFromInt(-20)},
				{AccountID: 3, Amount: decimal.NewFromInt(15)},
				{AccountID: domain.BankID, Amount: decimal.NewFromInt(5)},
			},
			buildStubs: func(repo *MockAccountRepo) {
				gomock.InOrder(
					repo.EXPECT().Ensure(gomock.Any(), int64(0), decimal.Zero).Return(account(0, "0"), nil),
					repo.EXPECT().GetForUpdate(gomock.Any(), int64(0)).Return(account(0, "0"), nil),
					repo.EXPECT().Ensure(gomock.Any(), int64(3), decimal.Zero).Return(account(3, "0"), nil),
					repo.EXPECT().GetForUpdate(gomock.Any(), int64(3)).Return(account(3, "0"), nil),
					repo.EXPECT().Ensure(gomock.Any(), int64(7), decimal.Zero).Return(account(7, "50"), nil),
					repo.EXPECT().GetForUpdate(gomock.Any(), int64(7)).Return(account(7, "50"), nil),
					repo.EXPECT().AddBalance(gomock.Any(), int64(0), decimal.NewFromInt(5)).Return(account(0, "5"), nil),
					repo.EXPECT().AddBalance(gomock.Any(), int64(3), decimal.NewFromInt(15)).Return(account(3, "15"), nil),
					repo.EXPECT().AddBalance(gomock.Any(), int64(7), decimal.NewFromInt(-20)).Return(account(7, "30"), nil),
				)
			},
			checkResponse: func(t *testing.T, got map[int64]domain.Account, err error) {
				require.NoError(t, err)
				require.Len(t, got, 3)
				require.Equal(t, "30", got[7].Balance.String())
				require.Equal(t, "15", got[3].Balance.String())
				require.Equal(t, "5", got[0].Balance.String())
			},
		},
		{
			name: "ErrUnbalanced",
			deltas: []domain.Delta{
				{AccountID: 1, Amount: decimal.NewFromInt(-1)},
				{AccountID: 2, Amount: decimal.NewFromInt(2)},
			},
			buildStubs: func(repo *MockAccountRepo) {
				repo.EXPECT().Ensure(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, got map[int64]domain.Account, err error) {
				require.ErrorIs(t, err, ErrUnbalanced)
				require.Nil(t, got)
			},
		},
		{
			name: "ErrInsufficientFunds",
			deltas: []domain.Delta{
				{AccountID: 1, Amount: decimal.NewFromInt(-20)},
				{AccountID: 2, Amount: decimal.NewFromInt(20)},
			},
			buildStubs: func(repo *MockAccountRepo) {
				repo.EXPECT().Ensure(gomock.Any(), int64(1), decimal.Zero).Return(account(1, "10"), nil)
				repo.EXPECT().GetForUpdate(gomock.Any(), int64(1)).Return(account(1, "10"), nil)
				repo.EXPECT().AddBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, got map[int64]domain.Account, err error) {
				require.ErrorIs(t, err, domain.ErrInsufficientFunds)
				require.Nil(t, got)
			},
		},
		{
			name: "MergedSelfDelta",
			deltas: []domain.Delta{
				{AccountID: 4, Amount: decimal.NewFromInt(-3)},
				{AccountID: 4, Amount: decimal.NewFromInt(3)},
			},
			buildStubs: func(repo *MockAccountRepo) {
				repo.EXPECT().Ensure(gomock.Any(), int64(4), decimal.Zero).Return(account(4, "1"), nil)
				repo.EXPECT().GetForUpdate(gomock.Any(), int64(4)).Return(account(4, "1"), nil)
				repo.EXPECT().Get(gomock.Any(), int64(4)).Return(account(4, "1"), nil)
				repo.EXPECT().AddBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, got map[int64]domain.Account, err error) {
				require.NoError(t, err)
				require.Equal(t, "1", got[4].Balance.String())
			},
		},
		{
			name: "ErrOperationFailed",
			deltas: []domain.Delta{
				{AccountID: 1, Amount: decimal.NewFromInt(-1)},
				{AccountID: 2, Amount: decimal.NewFromInt(1)},
			},
			buildStubs: func(repo *MockAccountRepo) {
				repo.EXPECT().Ensure(gomock.Any(), int64(1), decimal.Zero).Return(domain.Account{}, errorspkg.ErrOperationFailed)
			},
			checkResponse: func(t *testing.T, got map[int64]domain.Account, err error) {
				require.ErrorIs(t, err, errorspkg.ErrOperationFailed)
				require.Nil(t, got)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockAccountRepo(ctrl)
			tc.buildStubs(repo)

			got, err := ApplyDeltas(ctx, repo, tc.deltas...)
			tc.checkResponse(t, got, err)
		})
	}
}
