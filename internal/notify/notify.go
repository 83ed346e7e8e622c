// Package notify delivers participant notifications outside of the ledger transaction.
package notify

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Kind names the event a notification reports.
type Kind string

// Notification kinds.
const (
	KindPointsReceived   Kind = "points_received"
	KindServicePurchased Kind = "service_purchased"
	KindSellClaimed      Kind = "sell_claimed"
	KindEscrowSettled    Kind = "escrow_settled"
	KindLoanIssued       Kind = "loan_issued"
	KindLoanRepaid       Kind = "loan_repaid"
)

// Notification is a message for one participant.
type Notification struct {
	Recipient int64           `json:"recipient"`
	Kind      Kind            `json:"kind"`
	Message   string          `json:"message"`
	Amount    decimal.Decimal `json:"amount"`
	EscrowID  int64           `json:"escrow_id,omitempty"`
	At        time.Time       `json:"at"`
}

// Sink hands a notification to the chat front-end.
//
//go:generate mockgen -source notify.go -destination notify_mock.go -package notify
type Sink interface {
	Deliver(ctx context.Context, n Notification) error
}

// Notifier accepts notifications without blocking the caller. Delivery failures never reach
// the caller.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Nop drops every notification.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Notification) {}
