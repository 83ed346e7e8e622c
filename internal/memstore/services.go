package memstore

import (
	"context"
	"sort"

	"github.com/go-petr/pet-economy/internal/domain"
)

type services struct{ *view }

func (r services) Create(_ context.Context, arg domain.CreateServiceParams) (domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.st.serviceSeq++

	s := domain.Service{
		ID:        r.st.serviceSeq,
		Name:      arg.Name,
		Price:     arg.Price,
		Kind:      arg.Kind,
		CreatedAt: r.now(),
	}
	r.st.services[s.ID] = s

	return s, nil
}

func (r services) Get(_ context.Context, id int64) (domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.st.services[id]
	if !ok {
		return s, domain.ErrServiceNotFound
	}

	return s, nil
}

func (r services) List(_ context.Context, kind domain.ServiceKind) ([]domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := []domain.Service{}

	for _, s := range r.st.services {
		if kind == "" || s.Kind == kind {
			items = append(items, s)
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	return items, nil
}

func (r services) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.services[id]; !ok {
		return domain.ErrServiceNotFound
	}

	delete(r.st.services, id)

	return nil
}
