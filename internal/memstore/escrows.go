package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
)

type escrows struct{ *view }

func (r escrows) Create(_ context.Context, arg domain.CreateEscrowParams) (domain.Escrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.st.escrowSeq++

	e := domain.Escrow{
		ID:          r.st.escrowSeq,
		Beneficiary: arg.Beneficiary,
		ServiceName: arg.ServiceName,
		Price:       arg.Price,
		Kind:        arg.Kind,
		Status:      domain.EscrowStatusPending,
		Evidence:    arg.Evidence,
		CreatedAt:   r.now(),
	}
	r.st.escrows[e.ID] = e

	return e, nil
}

func (r escrows) GetForUpdate(_ context.Context, id int64) (domain.Escrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.st.escrows[id]
	if !ok {
		return e, domain.ErrEscrowNotFound
	}

	return e, nil
}

func (r escrows) Settle(_ context.Context, id int64, settledAt time.Time) (domain.Escrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.st.escrows[id]
	if !ok {
		return e, domain.ErrEscrowNotFound
	}

	if e.Status != domain.EscrowStatusPending {
		return domain.Escrow{}, domain.ErrEscrowNotPending
	}

	e.Status = domain.EscrowStatusSettled
	e.SettledAt = &settledAt
	r.st.escrows[id] = e

	return e, nil
}

func (r escrows) ListPending(_ context.Context, beneficiary int64) ([]domain.Escrow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := []domain.Escrow{}

	for _, e := range r.st.escrows {
		if e.Beneficiary == beneficiary && e.Status == domain.EscrowStatusPending {
			items = append(items, e)
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items, nil
}
