// Package memstore is an in-memory unit of work for tests and single-process deployments.
//
// A single mutex guards the whole state. A transaction works on a copy of the state and
// replaces the live state only when it commits, so a failed operation leaves no trace.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/internal/store"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type state struct {
	accounts map[int64]domain.Account
	loans    map[int64]domain.Loan
	escrows  map[int64]domain.Escrow
	services map[int64]domain.Service
	log      []domain.LogEntry

	loanSeq    int64
	escrowSeq  int64
	serviceSeq int64
	logSeq     int64
}

func newState() *state {
	return &state{
		accounts: make(map[int64]domain.Account),
		loans:    make(map[int64]domain.Loan),
		escrows:  make(map[int64]domain.Escrow),
		services: make(map[int64]domain.Service),
	}
}

func (s *state) clone() *state {
	c := *s

	c.accounts = make(map[int64]domain.Account, len(s.accounts))
	for k, v := range s.accounts {
		c.accounts[k] = v
	}

	c.loans = make(map[int64]domain.Loan, len(s.loans))
	for k, v := range s.loans {
		c.loans[k] = v
	}

	c.escrows = make(map[int64]domain.Escrow, len(s.escrows))
	for k, v := range s.escrows {
		c.escrows[k] = v
	}

	c.services = make(map[int64]domain.Service, len(s.services))
	for k, v := range s.services {
		c.services[k] = v
	}

	c.log = append([]domain.LogEntry(nil), s.log...)

	return &c
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

// view binds the repositories to a state. Outside of a transaction it takes the store
// mutex on every call; inside a transaction the mutex is already held.
type view struct {
	st  *state
	mu  sync.Locker
	now func() time.Time
}

func (v *view) Accounts() store.AccountRepo { return accounts{v} }
func (v *view) Loans() store.LoanRepo       { return loans{v} }
func (v *view) Escrows() store.EscrowRepo   { return escrows{v} }
func (v *view) Services() store.ServiceRepo { return services{v} }
func (v *view) Log() store.LogRepo          { return txlog{v} }

// Store is the in-memory unit of work.
type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time
	*view
}

// New returns an empty Store.
func New() *Store {
	s := &Store{
		st:  newState(),
		now: time.Now,
	}
	s.view = &view{st: s.st, mu: &s.mu, now: s.now}

	return s
}

// ExecTx runs fn on a copy of the state and commits the copy when fn returns nil.
func (s *Store) ExecTx(ctx context.Context, fn func(q store.Queries) error) error {
	if err := ctx.Err(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.st.clone()

	if err := fn(&view{st: tx, mu: noLock{}, now: s.now}); err != nil {
		return err
	}

	*s.st = *tx

	return nil
}

// TotalBalance sums every account, the Bank included.
func (s *Store) TotalBalance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, a := range s.st.accounts {
		total = total.Add(a.Balance)
	}

	return total
}

var _ store.UnitOfWork = (*Store)(nil)
