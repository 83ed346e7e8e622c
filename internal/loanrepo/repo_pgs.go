// Package loanrepo manages repository layer of loans.
package loanrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/pkg/dbpkg"
	"github.com/go-petr/pet-economy/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates loan repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns loan RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

func scanLoan(row interface{ Scan(...any) error }) (domain.Loan, error) {
	var l domain.Loan
	err := row.Scan(&l.ID, &l.Owner, &l.Principal, &l.OpenedAt, &l.InterestRate, &l.Status)

	return l, err
}

const createQuery = `
INSERT INTO loans (owner, principal, opened_at, interest_rate, status)
VALUES ($1, $2, $3, $4, 'active')
RETURNING id, owner, principal, opened_at, interest_rate, status
`

// Create opens an active loan row.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateLoanParams) (domain.Loan, error) {
	l := zerolog.Ctx(ctx)

	loan, err := scanLoan(r.db.QueryRowContext(ctx, createQuery,
		arg.Owner,
		arg.Principal,
		arg.OpenedAt,
		arg.InterestRate,
	))
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "loans_owner_active_key":
				return domain.Loan{}, domain.ErrLoanAlreadyActive
			case "loans_owner_fkey":
				return domain.Loan{}, domain.ErrAccountNotFound
			case "loans_principal_check":
				return domain.Loan{}, domain.ErrInvalidAmount
			}
		}

		return domain.Loan{}, errorspkg.ErrOperationFailed
	}

	return loan, nil
}

const getActiveByOwnerQuery = `
SELECT id, owner, principal, opened_at, interest_rate, status
FROM loans
WHERE owner = $1 AND status = 'active'
`

// GetActiveByOwner returns the active loan of the owner.
func (r *RepoPGS) GetActiveByOwner(ctx context.Context, owner int64) (domain.Loan, error) {
	return r.get(ctx, getActiveByOwnerQuery, owner)
}

const getForUpdateQuery = `
SELECT id, owner, principal, opened_at, interest_rate, status
FROM loans
WHERE id = $1
FOR UPDATE
`

// GetForUpdate returns the loan row and locks it.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.Loan, error) {
	return r.get(ctx, getForUpdateQuery, id)
}

func (r *RepoPGS) get(ctx context.Context, query string, arg int64) (domain.Loan, error) {
	l := zerolog.Ctx(ctx)

	loan, err := scanLoan(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return loan, domain.ErrLoanNotFound
		}

		l.Error().Err(err).Send()

		return loan, errorspkg.ErrOperationFailed
	}

	return loan, nil
}

const closeQuery = `
UPDATE loans
SET status = 'closed'
WHERE id = $1 AND status = 'active'
RETURNING id, owner, principal, opened_at, interest_rate, status
`

// Close marks the active loan row as closed.
func (r *RepoPGS) Close(ctx context.Context, id int64) (domain.Loan, error) {
	l := zerolog.Ctx(ctx)

	loan, err := scanLoan(r.db.QueryRowContext(ctx, closeQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return loan, domain.ErrLoanNotFound
		}

		l.Error().Err(err).Int64("loan", id).Send()

		return loan, errorspkg.ErrOperationFailed
	}

	return loan, nil
}

const listActiveQuery = `
SELECT id, owner, principal, opened_at, interest_rate, status
FROM loans
WHERE status = 'active'
ORDER BY id
`

// ListActive returns every active loan ordered by id.
func (r *RepoPGS) ListActive(ctx context.Context) ([]domain.Loan, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listActiveQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrOperationFailed
	}
	defer rows.Close()

	items := []domain.Loan{}

	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrOperationFailed
		}

		items = append(items, loan)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrOperationFailed
	}

	return items, nil
}
