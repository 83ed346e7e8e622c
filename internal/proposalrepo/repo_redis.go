// Package proposalrepo stores pending send proposals until they are confirmed or expire.
package proposalrepo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-petr/pet-economy/internal/domain"
	"github.com/go-petr/pet-economy/pkg/errorspkg"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const keyPrefix = "proposal:"

// redisClient is the part of *redis.Client used by RepoRedis.
type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

// RepoRedis keeps proposals in Redis. Expiry is left to the key TTL.
type RepoRedis struct {
	client redisClient
}

// NewRepoRedis returns RepoRedis.
func NewRepoRedis(client *redis.Client) *RepoRedis {
	return &RepoRedis{client: client}
}

// Save stores the proposal until its ExpiresAt.
func (r *RepoRedis) Save(ctx context.Context, p domain.Proposal) error {
	l := zerolog.Ctx(ctx)

	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 {
		return domain.ErrProposalNotFound
	}

	value, err := json.Marshal(p)
	if err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrOperationFailed
	}

	if err := r.client.Set(ctx, keyPrefix+p.ID.String(), value, ttl).Err(); err != nil {
		l.Error().Err(err).Send()
		return errorspkg.ErrOperationFailed
	}

	return nil
}

// Take removes the proposal and returns it. A proposal can be taken only once.
func (r *RepoRedis) Take(ctx context.Context, id uuid.UUID) (domain.Proposal, error) {
	l := zerolog.Ctx(ctx)

	value, err := r.client.GetDel(ctx, keyPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Proposal{}, domain.ErrProposalNotFound
		}

		l.Error().Err(err).Send()

		return domain.Proposal{}, errorspkg.ErrOperationFailed
	}

	var p domain.Proposal
	if err := json.Unmarshal(value, &p); err != nil {
		l.Error().Err(err).Send()
		return domain.Proposal{}, errorspkg.ErrOperationFailed
	}

	return p, nil
}
