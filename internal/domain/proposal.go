package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrProposalNotFound indicates that the proposal does not exist or has expired.
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrProposalOwnerMismatch indicates that someone else tried to confirm the proposal.
	ErrProposalOwnerMismatch = errors.New("proposal belongs to another account")
)

// ProposalKind is the action a proposal will execute once confirmed.
type ProposalKind string

// Proposal kinds.
const (
	ProposalKindSend ProposalKind = "send"
)

// Proposal is the first half of an "ask, then confirm" interaction. Nothing is written to the
// ledger until the proposal is confirmed, so an abandoned proposal leaves no trace.
type Proposal struct {
	ID        uuid.UUID       `json:"id"`
	Kind      ProposalKind    `json:"kind"`
	From      int64           `json:"from"`
	To        int64           `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}
