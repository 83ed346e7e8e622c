package proposalrepo

import (
	"context"
	"sync"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/google/uuid"
)

// RepoMemory keeps proposals in process memory.
type RepoMemory struct {
	mu        sync.Mutex
	proposals map[uuid.UUID]domain.Proposal
	now       func() time.Time
}

// NewRepoMemory returns RepoMemory.
func NewRepoMemory() *RepoMemory {
	return &RepoMemory{
		proposals: map[uuid.UUID]domain.Proposal{},
		now:       time.Now,
	}
}

// Save stores the proposal and drops the expired ones.
func (r *RepoMemory) Save(_ context.Context, p domain.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()

	for id, stored := range r.proposals {
		if !now.Before(stored.ExpiresAt) {
			delete(r.proposals, id)
		}
	}

	if !now.Before(p.ExpiresAt) {
		return domain.ErrProposalNotFound
	}

	r.proposals[p.ID] = p

	return nil
}

// Take removes the proposal and returns it unless it has expired.
func (r *RepoMemory) Take(_ context.Context, id uuid.UUID) (domain.Proposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.proposals[id]
	if !ok {
		return domain.Proposal{}, domain.ErrProposalNotFound
	}

	delete(r.proposals, id)

	if !r.now().Before(p.ExpiresAt) {
		return domain.Proposal{}, domain.ErrProposalNotFound
	}

	return p, nil
}
