package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LogEntry is an immutable record of a settled escrow.
type LogEntry struct {
	ID          int64           `json:"id"`
	EscrowID    int64           `json:"escrow_id"`
	Beneficiary int64           `json:"beneficiary"`
	Confirmer   int64           `json:"confirmer"`
	ServiceName string          `json:"service_name"`
	Price       decimal.Decimal `json:"price"`
	Kind        ServiceKind     `json:"kind"`
	SettledAt   time.Time       `json:"settled_at"`
}

// ListLogParams is the input data to list settled entries. A nil AccountID lists all of them.
type ListLogParams struct {
	AccountID *int64
	Limit     int32
	Offset    int32
}
