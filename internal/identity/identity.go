// Package identity turns account ids into display names.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-petr/pet-economy/internal/domain"
)

// BankLabel is the display name of the Bank account.
const BankLabel = "Bank"

// ErrUnknownParticipant indicates that the resolver has no name for the id.
var ErrUnknownParticipant = errors.New("unknown participant")

// Resolver looks up the display name of a participant.
//
//go:generate mockgen -source identity.go -destination identity_mock.go -package identity
type Resolver interface {
	Resolve(ctx context.Context, id int64) (string, error)
}

// Static resolves names from a fixed table.
type Static map[int64]string

// ParseStatic parses a comma separated list of id=name pairs, e.g. "101=Alice,102=Bob".
func ParseStatic(s string) (Static, error) {
	names := Static{}

	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		idStr, name, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("display name %q: missing '='", pair)
		}

		id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("display name %q: %w", pair, err)
		}

		names[id] = strings.TrimSpace(name)
	}

	return names, nil
}

// Resolve returns the name registered for id.
func (s Static) Resolve(_ context.Context, id int64) (string, error) {
	name, ok := s[id]
	if !ok || name == "" {
		return "", ErrUnknownParticipant
	}

	return name, nil
}

// Label never fails: it returns the Bank label, the resolved name, or "User <id>".
func Label(ctx context.Context, r Resolver, id int64) string {
	if id == domain.BankID {
		return BankLabel
	}

	if r != nil {
		if name, err := r.Resolve(ctx, id); err == nil {
			return name
		}
	}

	return fmt.Sprintf("User %d", id)
}
