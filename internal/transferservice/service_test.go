package transferservice

import (
	"context"
	"testing"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/memstore"
	"github.com/go-petr/pet-economy/internal/notify"
	"github.com/go-petr/pet-economy/internal/store"
	"github.com/go-petr/pet-economy/pkg/errorspkg"
	"github.com/go-petr/pet-economy/pkg/moneypkg"
	"github.com/go-petr/pet-economy/pkg/randompkg"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seed creates the given balances in a fresh store.
func seed(t *testing.T, balances map[int64]string) *memstore.Store {
	t.Helper()

	s := memstore.New()

	for id, b := range balances {
		_, err := s.Accounts().Ensure(ctx, id, d(b))
		require.NoError(t, err)
	}

	return s
}

func requireBalance(t *testing.T, s store.Queries, id int64, want string) {
	t.Helper()

	a, err := s.Accounts().Get(ctx, id)
	require.NoError(t, err)
	require.True(t, a.Balance.Equal(d(want)), "account %d balance = %s, want %s", id, a.Balance, want)
}

func addService(t *testing.T, s store.Queries, name, price string) domain.Service {
	t.Helper()

	svc, err := s.Services().Create(ctx, domain.CreateServiceParams{Name: name, Price: d(price), Kind: domain.ServiceKindBuy})
	require.NoError(t, err)

	return svc
}

func TestSend(t *testing.T) {
	const alice, bob = int64(1), int64(2)

	testCases := []struct {
		name      string
		from, to  int64
		amount    string
		wantErr   error
		wantAlice string
		wantBob   string
	}{
		{name: "OK", from: alice, to: bob, amount: "3.5", wantAlice: "6.5", wantBob: "3.5"},
		{name: "WholeBalance", from: alice, to: bob, amount: "10", wantAlice: "0", wantBob: "10"},
		{name: "ErrInsufficientFunds", from: alice, to: bob, amount: "10.01", wantErr: domain.ErrInsufficientFunds, wantAlice: "10", wantBob: "0"},
		{name: "ErrInvalidAmountZero", from: alice, to: bob, amount: "0", wantErr: domain.ErrInvalidAmount, wantAlice: "10", wantBob: "0"},
		{name: "ErrInvalidAmountNegative", from: alice, to: bob, amount: "-1", wantErr: domain.ErrInvalidAmount, wantAlice: "10", wantBob: "0"},
		{name: "ErrSameAccount", from: alice, to: alice, amount: "1", wantErr: domain.ErrSameAccount, wantAlice: "10", wantBob: "0"},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			s := seed(t, map[int64]string{alice: "10", bob: "0"})
			service := New(s, LowestIDSelector{}, notify.Nop{})

			got, err := service.Send(ctx, tc.from, tc.to, d(tc.amount))
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Empty(t, got)
			} else {
				require.NoError(t, err)
				require.True(t, got.Amount.Equal(d(tc.amount)))
				require.Equal(t, tc.from, got.From.ID)
				require.Equal(t, tc.to, got.To.ID)
			}

			requireBalance(t, s, alice, tc.wantAlice)
			requireBalance(t, s, bob, tc.wantBob)
			require.True(t, s.TotalBalance().Equal(d("10")))
		})
	}
}

func TestSendCreatesRecipientLazily(t *testing.T) {
	s := seed(t, map[int64]string{1: "5"})
	service := New(s, LowestIDSelector{}, notify.Nop{})

	_, err := service.Send(ctx, 1, 77, d("2"))
	require.NoError(t, err)

	requireBalance(t, s, 77, "2")
}

func TestSendNotifiesRecipient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	notifier := notify.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Do(func(_ context.Context, n notify.Notification) {
		require.Equal(t, int64(2), n.Recipient)
		require.Equal(t, notify.KindPointsReceived, n.Kind)
		require.True(t, n.Amount.Equal(d("4")))
	})

	s := seed(t, map[int64]string{1: "5"})

	_, err := New(s, LowestIDSelector{}, notifier).Send(ctx, 1, 2, d("4"))
	require.NoError(t, err)
}

func TestIssueAndRepayLoan(t *testing.T) {
	opened := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	s := seed(t, map[int64]string{domain.BankID: "100"})
	service := New(s, LowestIDSelector{}, notify.Nop{}, WithClock(func() time.Time { return opened }))

	const owner = int64(1)

	issued, err := service.IssueLoan(ctx, owner, d("8"))
	require.NoError(t, err)

	want := domain.Loan{
		Owner:        owner,
		Principal:    d("8"),
		OpenedAt:     opened,
		InterestRate: domain.InitialInterestRate,
		Status:       domain.LoanStatusActive,
	}

	ignore := cmpopts.IgnoreFields(domain.Loan{}, "ID", "Principal", "InterestRate")
	if diff := cmp.Diff(want, issued.Loan, ignore); diff != "" {
		t.Errorf("IssueLoan(ctx, %d, 8) returned unexpected diff (-want +got):\n%s", owner, diff)
	}

	require.True(t, issued.Loan.Principal.Equal(want.Principal))
	require.True(t, issued.Loan.InterestRate.Equal(want.InterestRate))
	require.True(t, issued.Bank.Balance.Equal(d("92")))
	require.True(t, issued.Owner.Balance.Equal(d("8")))

	_, err = service.IssueLoan(ctx, owner, d("4"))
	require.ErrorIs(t, err, domain.ErrLoanAlreadyActive)

	repaid, err := service.RepayLoan(ctx, owner, issued.Loan.ID)
	require.NoError(t, err)
	require.Equal(t, domain.LoanStatusClosed, repaid.Loan.Status)

	requireBalance(t, s, owner, "0")
	requireBalance(t, s, domain.BankID, "100")

	_, err = service.RepayLoan(ctx, owner, issued.Loan.ID)
	require.ErrorIs(t, err, domain.ErrLoanNotFound)
}

func TestIssueLoanErrors(t *testing.T) {
	testCases := []struct {
		name    string
		bank    string
		owner   int64
		amount  string
		wantErr error
	}{
		{name: "ErrInvalidAmount", bank: "100", owner: 1, amount: "0", wantErr: domain.ErrInvalidAmount},
		{name: "ErrInsufficientFunds", bank: "10", owner: 1, amount: "12", wantErr: domain.ErrInsufficientFunds},
		{name: "ErrBankAccount", bank: "100", owner: domain.BankID, amount: "4", wantErr: domain.ErrBankAccount},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			s := seed(t, map[int64]string{domain.BankID: tc.bank})
			service := New(s, LowestIDSelector{}, notify.Nop{})

			_, err := service.IssueLoan(ctx, tc.owner, d(tc.amount))
			require.ErrorIs(t, err, tc.wantErr)

			requireBalance(t, s, domain.BankID, tc.bank)

			loans, err := s.Loans().ListActive(ctx)
			require.NoError(t, err)
			require.Empty(t, loans)
		})
	}
}

func TestRepayLoanErrors(t *testing.T) {
	s := seed(t, map[int64]string{domain.BankID: "100"})
	service := New(s, LowestIDSelector{}, notify.Nop{})

	issued, err := service.IssueLoan(ctx, 1, d("8"))
	require.NoError(t, err)

	t.Run("OtherOwner", func(t *testing.T) {
		_, err := service.RepayLoan(ctx, 2, issued.Loan.ID)
		require.ErrorIs(t, err, domain.ErrLoanNotFound)
	})

	t.Run("UnknownLoan", func(t *testing.T) {
		_, err := service.RepayLoan(ctx, 1, issued.Loan.ID+100)
		require.ErrorIs(t, err, domain.ErrLoanNotFound)
	})

	t.Run("ErrInsufficientFunds", func(t *testing.T) {
		_, err := service.Send(ctx, 1, 3, d("1"))
		require.NoError(t, err)

		_, err = service.RepayLoan(ctx, 1, issued.Loan.ID)
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)

		loan, err := s.Loans().GetActiveByOwner(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, issued.Loan.ID, loan.ID)
	})
}

func TestBuyStandardService(t *testing.T) {
	const buyer, performer = int64(5), int64(3)

	s := seed(t, map[int64]string{domain.BankID: "0", buyer: "50", performer: "0"})
	svc := addService(t, s, "Massage", "20")

	got, err := New(s, LowestIDSelector{}, notify.Nop{}).BuyService(ctx, buyer, svc.ID, nil)
	require.NoError(t, err)

	require.Equal(t, performer, got.Escrow.Beneficiary)
	require.Equal(t, domain.EscrowStatusPending, got.Escrow.Status)
	require.Equal(t, domain.ServiceKindBuy, got.Escrow.Kind)
	require.True(t, got.PerformerShare.Equal(d("15")))
	require.True(t, got.BankShare.Equal(d("5")))

	requireBalance(t, s, buyer, "30")
	requireBalance(t, s, performer, "15")
	requireBalance(t, s, domain.BankID, "5")
}

func TestBuyExpressService(t *testing.T) {
	const buyer, performer = int64(5), int64(3)

	t.Run("OK", func(t *testing.T) {
		s := seed(t, map[int64]string{domain.BankID: "0", buyer: "50", performer: "0"})
		svc := addService(t, s, "Express delivery", "20")

		got, err := New(s, LowestIDSelector{}, notify.Nop{}).BuyService(ctx, buyer, svc.ID, nil)
		require.NoError(t, err)
		require.Equal(t, performer, got.Escrow.Beneficiary)

		requireBalance(t, s, buyer, "30")
		requireBalance(t, s, performer, "0")
		requireBalance(t, s, domain.BankID, "20")
	})

	t.Run("ErrInsufficientFunds", func(t *testing.T) {
		s := seed(t, map[int64]string{domain.BankID: "0", buyer: "10", performer: "0"})
		svc := addService(t, s, "Express delivery", "20")

		_, err := New(s, LowestIDSelector{}, notify.Nop{}).BuyService(ctx, buyer, svc.ID, nil)
		require.ErrorIs(t, err, domain.ErrInsufficientFunds)

		requireBalance(t, s, buyer, "10")
		requireBalance(t, s, performer, "0")
		requireBalance(t, s, domain.BankID, "0")

		pending, err := s.Escrows().ListPending(ctx, performer)
		require.NoError(t, err)
		require.Empty(t, pending)
	})
}

func TestBuyServiceErrors(t *testing.T) {
	const buyer = int64(5)

	explicit := func(id int64) *int64 { return &id }

	testCases := []struct {
		name      string
		balances  map[int64]string
		kind      domain.ServiceKind
		serviceID func(svc domain.Service) int64
		performer *int64
		wantErr   error
	}{
		{
			name:      "ErrServiceNotFound",
			balances:  map[int64]string{buyer: "50", 3: "0"},
			kind:      domain.ServiceKindBuy,
			serviceID: func(svc domain.Service) int64 { return svc.ID + 1 },
			wantErr:   domain.ErrServiceNotFound,
		},
		{
			name:      "SellServiceIsNotForSale",
			balances:  map[int64]string{buyer: "50", 3: "0"},
			kind:      domain.ServiceKindSell,
			serviceID: func(svc domain.Service) int64 { return svc.ID },
			wantErr:   domain.ErrServiceNotFound,
		},
		{
			name:      "ErrNoCounterparty",
			balances:  map[int64]string{domain.BankID: "0", buyer: "50"},
			kind:      domain.ServiceKindBuy,
			serviceID: func(svc domain.Service) int64 { return svc.ID },
			wantErr:   domain.ErrNoCounterparty,
		},
		{
			name:      "ExplicitSelf",
			balances:  map[int64]string{buyer: "50"},
			kind:      domain.ServiceKindBuy,
			serviceID: func(svc domain.Service) int64 { return svc.ID },
			performer: explicit(buyer),
			wantErr:   domain.ErrSameAccount,
		},
		{
			name:      "ExplicitBank",
			balances:  map[int64]string{buyer: "50"},
			kind:      domain.ServiceKindBuy,
			serviceID: func(svc domain.Service) int64 { return svc.ID },
			performer: explicit(domain.BankID),
			wantErr:   domain.ErrBankAccount,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			s := seed(t, tc.balances)

			svc, err := s.Services().Create(ctx, domain.CreateServiceParams{Name: "Cook", Price: d("20"), Kind: tc.kind})
			require.NoError(t, err)

			_, err = New(s, LowestIDSelector{}, notify.Nop{}).BuyService(ctx, buyer, tc.serviceID(svc), tc.performer)
			require.ErrorIs(t, err, tc.wantErr)

			requireBalance(t, s, buyer, "50")
		})
	}
}

func TestBuyServiceExplicitPerformer(t *testing.T) {
	const buyer, performer = int64(5), int64(9)

	s := seed(t, map[int64]string{domain.BankID: "0", buyer: "8", 3: "0"})
	svc := addService(t, s, "Tea", "8")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	selector := NewMockPerformerSelector(ctrl)
	selector.EXPECT().SelectPerformer(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	p := performer

	got, err := New(s, selector, notify.Nop{}).BuyService(ctx, buyer, svc.ID, &p)
	require.NoError(t, err)
	require.Equal(t, performer, got.Escrow.Beneficiary)

	requireBalance(t, s, performer, "6")
	requireBalance(t, s, 3, "0")
}

func TestOperationFailedPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accounts := store.NewMockAccountRepo(ctrl)
	accounts.EXPECT().Ensure(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.Account{}, errorspkg.ErrOperationFailed)

	queries := store.NewMockQueries(ctrl)
	queries.EXPECT().Accounts().Return(accounts).AnyTimes()

	uow := store.NewMockUnitOfWork(ctrl)
	uow.EXPECT().ExecTx(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn func(store.Queries) error) error {
		return fn(queries)
	})

	notifier := notify.NewMockNotifier(ctrl)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(0)

	_, err := New(uow, LowestIDSelector{}, notifier).Send(ctx, 1, 2, d("1"))
	require.ErrorIs(t, err, errorspkg.ErrOperationFailed)
}

func TestConservationUnderRandomOperations(t *testing.T) {
	participants := []int64{1, 2, 3, 4}

	s := seed(t, map[int64]string{domain.BankID: "100", 1: "20", 2: "20", 3: "0", 4: "5"})
	service := New(s, LowestIDSelector{}, notify.Nop{})

	total := s.TotalBalance()

	standard := addService(t, s, "Cleaning", "7")
	express := addService(t, s, "Express pizza", "3")

	for i := 0; i < 300; i++ {
		a := participants[randompkg.Intn(len(participants))]
		b := participants[randompkg.Intn(len(participants))]
		amount := randompkg.Amount(0.01, 15)

		switch randompkg.Intn(5) {
		case 0:
			_, _ = service.Send(ctx, a, b, amount)
		case 1:
			_, _ = service.IssueLoan(ctx, a, amount)
		case 2:
			if loan, err := s.Loans().GetActiveByOwner(ctx, a); err == nil {
				_, _ = service.RepayLoan(ctx, a, loan.ID)
			}
		case 3:
			_, _ = service.BuyService(ctx, a, standard.ID, nil)
		case 4:
			_, _ = service.BuyService(ctx, a, express.ID, nil)
		}

		accounts, err := s.Accounts().List(ctx)
		require.NoError(t, err)

		balances := make([]decimal.Decimal, 0, len(accounts))
		for _, acc := range accounts {
			require.False(t, acc.Balance.IsNegative(), "account %d went negative", acc.ID)
			balances = append(balances, acc.Balance)
		}

		require.True(t, moneypkg.Sum(balances...).Equal(total), "step %d: total changed", i)

		active, err := s.Loans().ListActive(ctx)
		require.NoError(t, err)

		owners := map[int64]bool{}
		for _, l := range active {
			require.False(t, owners[l.Owner], "owner %d has two active loans", l.Owner)
			owners[l.Owner] = true
		}
	}
}
