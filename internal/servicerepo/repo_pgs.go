// Package servicerepo manages repository layer of the service catalog.
package servicerepo

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

// RepoPGS facilitates service repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns service RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

func scanService(row interface{ Scan(...any) error }) (domain.Service, error) {
	var s domain.Service
	err := row.Scan(&s.ID, &s.Name, &s.Price, &s.Kind, &s.CreatedAt)

	return s, err
}

const createQuery = `
INSERT INTO services (name, price, kind)
VALUES ($1, $2, $3)
RETURNING id, name, price, kind, created_at
`

// Create adds the service to the catalog.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateServiceParams) (domain.Service, error) {
	l := zerolog.Ctx(ctx)

	s, err := scanService(r.db.QueryRowContext(ctx, createQuery, arg.Name, arg.Price, arg.Kind))
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Constraint {
			case "services_price_check":
				return s, domain.ErrInvalidAmount
			case "services_kind_check":
				return s, domain.ErrInvalidServiceKind
			case "services_name_check":
				return s, domain.ErrInvalidServiceName
			}
		}

		return s, errorspkg.ErrOperationFailed
	}

	return s, nil
}

const getQuery = `
SELECT id, name, price, kind, created_at
FROM services
WHERE id = $1
`

// Get returns the service with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Service, error) {
	l := zerolog.Ctx(ctx)

	s, err := scanService(r.db.QueryRowContext(ctx, getQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, domain.ErrServiceNotFound
		}

		l.Error().Err(err).Int64("service", id).Send()

		return s, errorspkg.ErrOperationFailed
	}

	return s, nil
}

const listQuery = `
SELECT id, name, price, kind, created_at
FROM services
WHERE $1 = '' OR kind = $1
ORDER BY id
`

// List returns the services of the given kind, or the whole catalog for an empty kind.
func (r *RepoPGS) List(ctx context.Context, kind domain.ServiceKind) ([]domain.Service, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, string(kind))
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrOperationFailed
	}
	defer rows.Close()

	items := []domain.Service{}

	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrOperationFailed
		}

		items = append(items, s)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrOperationFailed
	}

	return items, nil
}

const deleteQuery = `
DELETE FROM services
WHERE id = $1
`

// Delete removes the service with the given id.
func (r *RepoPGS) Delete(ctx context.Context, id int64) error {
	l := zerolog.Ctx(ctx)

	res, err := r.db.ExecContext(ctx, deleteQuery, id)
	if err != nil {
		l.Error().Err(err).Int64("service", id).Send()
		return errorspkg.ErrOperationFailed
	}

	n, err := res.RowsAffected()
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrOperationFailed
	}

	if n == 0 {
		return domain.ErrServiceNotFound
	}

	return nil
}
