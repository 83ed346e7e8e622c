package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrEscrowNotFound indicates that the escrow transaction is not found.
	ErrEscrowNotFound = errors.New("escrow not found")
	// ErrEscrowNotPending indicates that the escrow has already been settled.
	ErrEscrowNotPending = errors.New("escrow not pending")
	// ErrSelfConfirmationDenied indicates that the beneficiary tried to confirm its own work.
	ErrSelfConfirmationDenied = errors.New("self confirmation denied")
)

// EscrowStatus is the state of a service settlement.
type EscrowStatus string

// Escrow statuses.
const (
	EscrowStatusPending EscrowStatus = "pending"
	EscrowStatusSettled EscrowStatus = "settled"
)

// Escrow is a service in flight, waiting for a party other than the beneficiary to confirm it.
type Escrow struct {
	ID          int64           `json:"id"`
	Beneficiary int64           `json:"beneficiary"`
	ServiceName string          `json:"service_name"`
	Price       decimal.Decimal `json:"price"`
	Kind        ServiceKind     `json:"kind"`
	Status      EscrowStatus    `json:"status"`
	Evidence    string          `json:"evidence,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	SettledAt   *time.Time      `json:"settled_at,omitempty"`
}

// CreateEscrowParams is the input data to open an escrow.
type CreateEscrowParams struct {
	Beneficiary int64
	ServiceName string
	Price       decimal.Decimal
	Kind        ServiceKind
	Evidence    string
}

// SettlementResult is the result of confirming an escrow.
type SettlementResult struct {
	Escrow      Escrow   `json:"escrow"`
	Entry       LogEntry `json:"entry"`
	Beneficiary Account  `json:"beneficiary"`
}
