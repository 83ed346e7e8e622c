// Package domain provides definitions of all entities of the economy.
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// BankID is the reserved account of the Bank. It is a normal row that acts as the
// counterparty for loans and service fees.
const BankID int64 = 0

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInsufficientFunds indicates that a debit would leave the account negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAmount indicates a non-positive or non-numeric amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrSameAccount indicates that the sender and the recipient are the same account.
	ErrSameAccount = errors.New("sender and recipient are the same account")
	// ErrBankAccount indicates that the operation is not available for the Bank account.
	ErrBankAccount = errors.New("operation is not allowed for the bank account")
)

// Account holds the balance of one participant or of the Bank.
type Account struct {
	ID        int64           `json:"id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsBank reports whether the account is the Bank.
func (a Account) IsBank() bool {
	return a.ID == BankID
}

// NamedAccount is an account together with its display name.
type NamedAccount struct {
	Account
	Name string `json:"name"`
}

// Delta is a signed balance change of one account. Negative deltas are guarded debits,
// positive deltas are credits.
type Delta struct {
	AccountID int64
	Amount    decimal.Decimal
}

// SendResult is the result of a peer-to-peer send.
type SendResult struct {
	From   Account         `json:"from"`
	To     Account         `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}
