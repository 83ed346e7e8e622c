package store

import (
	"context"
	"errors"
	"sort"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrUnbalanced indicates a set of deltas that would create or destroy points.
var ErrUnbalanced = errors.New("deltas do not sum to zero")

// ApplyDeltas applies a balanced set of balance changes inside a unit of work.
//
// Deltas of the same account are merged. Accounts are locked and updated in ascending id
// order, and every debit is checked against the locked balance before anything is written.
// The updated accounts are returned by id.
func ApplyDeltas(ctx context.Context, accounts AccountRepo, deltas ...domain.Delta) (map[int64]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	merged := make(map[int64]decimal.Decimal, len(deltas))
	total := decimal.Zero

	for _, d := range deltas {
		merged[d.AccountID] = merged[d.AccountID].Add(d.Amount)
		total = total.Add(d.Amount)
	}

	if !total.IsZero() {
		l.Error().Str("total", total.String()).Msg("unbalanced deltas")
		return nil, ErrUnbalanced
	}

	ids := make([]int64, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if _, err := accounts.Ensure(ctx, id, decimal.Zero); err != nil {
			return nil, err
		}

		a, err := accounts.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}

		if a.Balance.Add(merged[id]).IsNegative() {
			return nil, domain.ErrInsufficientFunds
		}
	}

	result := make(map[int64]domain.Account, len(ids))

	for _, id := range ids {
		if merged[id].IsZero() {
			a, err := accounts.Get(ctx, id)
			if err != nil {
				return nil, err
			}

			result[id] = a

			continue
		}

		a, err := accounts.AddBalance(ctx, id, merged[id])
		if err != nil {
			return nil, err
		}

		result[id] = a
	}

	return result, nil
}
