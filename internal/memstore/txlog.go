package memstore

import (
	"context"

	"github.com/go-petr/pet-economy/internal/domain"
)

type txlog struct{ *view }

func (r txlog) Append(_ context.Context, entry domain.LogEntry) (domain.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.st.logSeq++
	entry.ID = r.st.logSeq
	r.st.log = append(r.st.log, entry)

	return entry, nil
}

// List walks the log backwards so the newest entries come first.
func (r txlog) List(_ context.Context, arg domain.ListLogParams) ([]domain.LogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := []domain.LogEntry{}
	skipped := int32(0)

	for i := len(r.st.log) - 1; i >= 0; i-- {
		e := r.st.log[i]

		if arg.AccountID != nil && e.Beneficiary != *arg.AccountID && e.Confirmer != *arg.AccountID {
			continue
		}

		if skipped < arg.Offset {
			skipped++
			continue
		}

		if arg.Limit > 0 && int32(len(items)) >= arg.Limit {
			break
		}

		items = append(items, e)
	}

	return items, nil
}
