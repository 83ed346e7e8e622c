package memstore

import (
	"context"
	"sort"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/shopspring/decimal"
)

type accounts struct{ *view }

func (r accounts) Ensure(_ context.Context, id int64, balance decimal.Decimal) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.st.accounts[id]; ok {
		return a, nil
	}

	if balance.IsNegative() {
		return domain.Account{}, domain.ErrInsufficientFunds
	}

	a := domain.Account{ID: id, Balance: balance, CreatedAt: r.now()}
	r.st.accounts[id] = a

	return a, nil
}

func (r accounts) Get(_ context.Context, id int64) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.st.accounts[id]
	if !ok {
		return a, domain.ErrAccountNotFound
	}

	return a, nil
}

func (r accounts) GetForUpdate(ctx context.Context, id int64) (domain.Account, error) {
	return r.Get(ctx, id)
}

func (r accounts) AddBalance(_ context.Context, id int64, amount decimal.Decimal) (domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.st.accounts[id]
	if !ok {
		a = domain.Account{ID: id, Balance: decimal.Zero, CreatedAt: r.now()}
	}

	balance := a.Balance.Add(amount)
	if balance.IsNegative() {
		return domain.Account{}, domain.ErrInsufficientFunds
	}

	a.Balance = balance
	r.st.accounts[id] = a

	return a, nil
}

func (r accounts) List(_ context.Context) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]domain.Account, 0, len(r.st.accounts))
	for _, a := range r.st.accounts {
		items = append(items, a)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items, nil
}
