// Package store defines the storage contracts shared by the ledger services.
//
// Every business operation runs inside exactly one unit of work. Implementations live in
// ledgerrepo (Postgres) and memstore (in-memory).
package store

import (
	"context"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountRepo provides access to account balances.
//
//go:generate mockgen -source store.go -destination store_mock.go -package store
type AccountRepo interface {
	// Ensure creates the account with the given balance if it does not exist and returns it.
	Ensure(ctx context.Context, id int64, balance decimal.Decimal) (domain.Account, error)
	// Get returns domain.ErrAccountNotFound if the account does not exist.
	Get(ctx context.Context, id int64) (domain.Account, error)
	// GetForUpdate locks the account row until the unit of work ends.
	GetForUpdate(ctx context.Context, id int64) (domain.Account, error)
	// AddBalance adds amount to the balance, creating the row for credits.
	// A result below zero fails with domain.ErrInsufficientFunds.
	AddBalance(ctx context.Context, id int64, amount decimal.Decimal) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}

// LoanRepo provides access to loan rows.
type LoanRepo interface {
	Create(ctx context.Context, arg domain.CreateLoanParams) (domain.Loan, error)
	GetActiveByOwner(ctx context.Context, owner int64) (domain.Loan, error)
	GetForUpdate(ctx context.Context, id int64) (domain.Loan, error)
	Close(ctx context.Context, id int64) (domain.Loan, error)
	ListActive(ctx context.Context) ([]domain.Loan, error)
}

// EscrowRepo provides access to escrow transactions.
type EscrowRepo interface {
	Create(ctx context.Context, arg domain.CreateEscrowParams) (domain.Escrow, error)
	GetForUpdate(ctx context.Context, id int64) (domain.Escrow, error)
	Settle(ctx context.Context, id int64, settledAt time.Time) (domain.Escrow, error)
	ListPending(ctx context.Context, beneficiary int64) ([]domain.Escrow, error)
}

// ServiceRepo provides access to the service catalog.
type ServiceRepo interface {
	Create(ctx context.Context, arg domain.CreateServiceParams) (domain.Service, error)
	Get(ctx context.Context, id int64) (domain.Service, error)
	// List returns services of the given kind, or all of them for an empty kind.
	List(ctx context.Context, kind domain.ServiceKind) ([]domain.Service, error)
	Delete(ctx context.Context, id int64) error
}

// LogRepo provides access to the transaction log of settled escrows.
type LogRepo interface {
	Append(ctx context.Context, entry domain.LogEntry) (domain.LogEntry, error)
	List(ctx context.Context, arg domain.ListLogParams) ([]domain.LogEntry, error)
}

// Queries groups the repositories bound to one connection or transaction.
type Queries interface {
	Accounts() AccountRepo
	Loans() LoanRepo
	Escrows() EscrowRepo
	Services() ServiceRepo
	Log() LogRepo
}

// UnitOfWork runs fn against transaction scoped repositories. It commits when fn returns nil
// and rolls back otherwise. The embedded Queries run outside of any transaction.
type UnitOfWork interface {
	Queries
	ExecTx(ctx context.Context, fn func(q Queries) error) error
}
