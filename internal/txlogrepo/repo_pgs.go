// Package txlogrepo manages repository layer of the transaction log.
package txlogrepo

import (
	"context"
	"errors"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/pkg/dbpkg"
	"github.com/go-petr/pet-economy/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates transaction log repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction log RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

func scanEntry(row interface{ Scan(...any) error }) (domain.LogEntry, error) {
	var e domain.LogEntry
	err := row.Scan(
		&e.ID,
		&e.EscrowID,
		&e.Beneficiary,
		&e.Confirmer,
		&e.ServiceName,
		&e.Price,
		&e.Kind,
		&e.SettledAt,
	)

	return e, err
}

const appendQuery = `
INSERT INTO transaction_log (escrow_id, beneficiary, confirmer, service_name, price, kind, settled_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, escrow_id, beneficiary, confirmer, service_name, price, kind, settled_at
`

// Append records a settled escrow.
func (r *RepoPGS) Append(ctx context.Context, entry domain.LogEntry) (domain.LogEntry, error) {
	l := zerolog.Ctx(ctx)

	e, err := scanEntry(r.db.QueryRowContext(ctx, appendQuery,
		entry.EscrowID,
		entry.Beneficiary,
		entry.Confirmer,
		entry.ServiceName,
		entry.Price,
		entry.Kind,
		entry.SettledAt,
	))
	if err != nil {
		l.Error().Err(err).Msgf("Append(ctx, %+v)", entry)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "transaction_log_escrow_id_key":
				return e, domain.ErrEscrowNotPending
			case "transaction_log_escrow_id_fkey":
				return e, domain.ErrEscrowNotFound
			}
		}

		return e, errorspkg.ErrOperationFailed
	}

	return e, nil
}

const listQuery = `
SELECT id, escrow_id, beneficiary, confirmer, service_name, price, kind, settled_at
FROM transaction_log
WHERE $1::bigint IS NULL OR beneficiary = $1 OR confirmer = $1
ORDER BY id DESC
LIMIT $2 OFFSET $3
`

// List returns the log newest first. A nil AccountID lists every entry.
func (r *RepoPGS) List(ctx context.Context, arg domain.ListLogParams) ([]domain.LogEntry, error) {
	l := zerolog.Ctx(ctx)

	var accountID any
	if arg.AccountID != nil {
		accountID = *arg.AccountID
	}

	rows, err := r.db.QueryContext(ctx, listQuery, accountID, arg.Limit, arg.Offset)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrOperationFailed
	}
	defer rows.Close()

	items := []domain.LogEntry{}

	for rows.Next() {
		e, err := scanEntry(rows)
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
