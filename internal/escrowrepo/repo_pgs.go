// Package escrowrepo manages repository layer of escrow transactions.
package escrowrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/pkg/dbpkg"
	"github.com/go-petr/pet-economy/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates escrow repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns escrow RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const columns = `id, beneficiary, service_name, price, kind, status, evidence, created_at, settled_at`

func scanEscrow(row interface{ Scan(...any) error }) (domain.Escrow, error) {
	var (
		e         domain.Escrow
		settledAt sql.NullTime
	)

	err := row.Scan(
		&e.ID,
		&e.Beneficiary,
		&e.ServiceName,
		&e.Price,
		&e.Kind,
		&e.Status,
		&e.Evidence,
		&e.CreatedAt,
		&settledAt,
	)
	if err != nil {
		return domain.Escrow{}, err
	}

	if settledAt.Valid {
		e.SettledAt = &settledAt.Time
	}

	return e, nil
}

const createQuery = `
INSERT INTO escrows (beneficiary, service_name, price, kind, evidence)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + columns

// Create opens a pending escrow.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateEscrowParams) (domain.Escrow, error) {
	l := zerolog.Ctx(ctx)

	e, err := scanEscrow(r.db.QueryRowContext(ctx, createQuery,
		arg.Beneficiary,
		arg.ServiceName,
		arg.Price,
		arg.Kind,
		arg.Evidence,
	))
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "escrows_beneficiary_fkey":
				return e, domain.ErrAccountNotFound
			case "escrows_price_check":
				return e, domain.ErrInvalidAmount
			}
		}

		return e, errorspkg.ErrOperationFailed
	}

	return e, nil
}

const getForUpdateQuery = `
SELECT ` + columns + `
FROM escrows
WHERE id = $1
FOR UPDATE
`

// GetForUpdate returns the escrow and locks its row.
func (r *RepoPGS) GetForUpdate(ctx context.Context, id int64) (domain.Escrow, error) {
	l := zerolog.Ctx(ctx)

	e, err := scanEscrow(r.db.QueryRowContext(ctx, getForUpdateQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, domain.ErrEscrowNotFound
		}

		l.Error().Err(err).Int64("escrow", id).Send()

		return e, errorspkg.ErrOperationFailed
	}

	return e, nil
}

const settleQuery = `
UPDATE escrows
SET status = 'settled', settled_at = $2
WHERE id = $1 AND status = 'pending'
RETURNING ` + columns

// Settle moves a pending escrow to settled.
func (r *RepoPGS) Settle(ctx context.Context, id int64, settledAt time.Time) (domain.Escrow, error) {
	l := zerolog.Ctx(ctx)

	e, err := scanEscrow(r.db.QueryRowContext(ctx, settleQuery, id, settledAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return e, domain.ErrEscrowNotPending
		}

		l.Error().Err(err).Int64("escrow", id).Send()

		return e, errorspkg.ErrOperationFailed
	}

	return e, nil
}

const listPendingQuery = `
SELECT ` + columns + `
FROM escrows
WHERE beneficiary = $1 AND status = 'pending'
ORDER BY id
`

// ListPending returns the pending escrows of the beneficiary.
func (r *RepoPGS) ListPending(ctx context.Context, beneficiary int64) ([]domain.Escrow, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listPendingQuery, beneficiary)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrOperationFailed
	}
	defer rows.Close()

	items := []domain.Escrow{}

	for rows.Next() {
		e, err := scanEscrow(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrOperationFailed
		}

		items = append(items, e)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrOperationFailed
	}

	return items, nil
}
