package memstore

import (
	"context"
	"sort"

	"github.com/go-petr/pet-economy/internal/domain"
)

type loans struct{ *view }

func (r loans) Create(_ context.Context, arg domain.CreateLoanParams) (domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.st.loans {
		if l.Owner == arg.Owner && l.Status == domain.LoanStatusActive {
			return domain.Loan{}, domain.ErrLoanAlreadyActive
		}
	}

	r.st.loanSeq++

	l := domain.Loan{
		ID:           r.st.loanSeq,
		Owner:        arg.Owner,
		Principal:    arg.Principal,
		OpenedAt:     arg.OpenedAt,
		InterestRate: arg.InterestRate,
		Status:       domain.LoanStatusActive,
	}
	r.st.loans[l.ID] = l

	return l, nil
}

func (r loans) GetActiveByOwner(_ context.Context, owner int64) (domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.st.loans {
		if l.Owner == owner && l.Status == domain.LoanStatusActive {
			return l, nil
		}
	}

	return domain.Loan{}, domain.ErrLoanNotFound
}

func (r loans) GetForUpdate(_ context.Context, id int64) (domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.st.loans[id]
	if !ok {
		return l, domain.ErrLoanNotFound
	}

	return l, nil
}

func (r loans) Close(_ context.Context, id int64) (domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.st.loans[id]
	if !ok || l.Status != domain.LoanStatusActive {
		return domain.Loan{}, domain.ErrLoanNotFound
	}

	l.Status = domain.LoanStatusClosed
	r.st.loans[id] = l

	return l, nil
}

func (r loans) ListActive(_ context.Context) ([]domain.Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := []domain.Loan{}

	for _, l := range r.st.loans {
		if l.Status == domain.LoanStatusActive {
			items = append(items, l)
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items, nil
}
