// Package ledgerrepo is the Postgres unit of work. It hands out repositories bound either to
// the connection pool or to a single transaction.
package ledgerrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-economy/internal/accountrepo"
	"github.com/go-petr/pet-economy/internal/escrowrepo"
	"github.com/go-petr/pet-economy/internal/loanrepo"
	"github.com/go-petr/pet-economy/internal/servicerepo"
	"github.com/go-petr/pet-economy/internal/store"
	"github.com/go-petr/pet-economy/internal/txlogrepo"
	"github.com/go-petr/pet-economy/pkg/dbpkg"
	"github.com/go-petr/pet-economy/pkg/errorspkg"
	"github.com/rs/zerolog"
)

// Queries binds the repositories to db.
type Queries struct {
	db dbpkg.SQLInterface
}

// NewTxQueries returns repositories bound to the given connection or transaction.
func NewTxQueries(db dbpkg.SQLInterface) *Queries {
	return &Queries{db: db}
}

// Accounts returns the account repository.
func (q *Queries) Accounts() store.AccountRepo { return accountrepo.NewRepoPGS(q.db) }

// Loans returns the loan repository.
func (q *Queries) Loans() store.LoanRepo { return loanrepo.NewRepoPGS(q.db) }

// Escrows returns the escrow repository.
func (q *Queries) Escrows() store.EscrowRepo { return escrowrepo.NewRepoPGS(q.db) }

// Services returns the catalog repository.
func (q *Queries) Services() store.ServiceRepo { return servicerepo.NewRepoPGS(q.db) }

// Log returns the transaction log repository.
func (q *Queries) Log() store.LogRepo { return txlogrepo.NewRepoPGS(q.db) }

// Store runs units of work on a Postgres connection pool.
type Store struct {
	*Queries
	conn *sql.DB
}

// New returns Store with connection to start transactions.
func New(conn *sql.DB) *Store {
	return &Store{
		Queries: NewTxQueries(conn),
		conn:    conn,
	}
}

// ExecTx runs fn inside a database transaction.
//
// Business errors returned by fn pass through unchanged. Failures to begin or commit
// the transaction are reported as errorspkg.ErrOperationFailed.
func (s *Store) ExecTx(ctx context.Context, fn func(q store.Queries) error) error {
	l := zerolog.Ctx(ctx)

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrOperationFailed
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			l.Error().Err(err).Send()
		}
	}()

	if err := fn(NewTxQueries(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrOperationFailed
	}

	return nil
}

var _ store.UnitOfWork = (*Store)(nil)
