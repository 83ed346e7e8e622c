package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/go-petr/pet-economy/pkg/moneypkg"
	"github.com/shopspring/decimal"
)

var (
	// ErrServiceNotFound indicates that the catalog service is not found.
	ErrServiceNotFound = errors.New("service not found")
	// ErrInvalidServiceKind indicates a kind other than buy or sell.
	ErrInvalidServiceKind = errors.New("invalid service kind")
	// ErrInvalidServiceName indicates an empty service name.
	ErrInvalidServiceName = errors.New("invalid service name")
	// ErrNoCounterparty indicates that no performer could be found for a purchase.
	ErrNoCounterparty = errors.New("no counterparty available")
)

// ServiceKind tells whether a service is bought from or sold to the group.
type ServiceKind string

// Service kinds.
const (
	ServiceKindBuy  ServiceKind = "buy"
	ServiceKindSell ServiceKind = "sell"
)

// Valid reports whether the kind is known.
func (k ServiceKind) Valid() bool {
	return k == ServiceKindBuy || k == ServiceKindSell
}

// ExpressPrefix marks a buy service whose whole price goes to the Bank.
const ExpressPrefix = "Express"

// PerformerShare is the part of a standard purchase paid to the performer.
// The Bank takes the remainder.
var PerformerShare = decimal.RequireFromString("0.75")

// Service is a catalog entry. It does not hold money.
type Service struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Kind      ServiceKind     `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
}

// IsExpress reports whether the service is an express buy service.
func (s Service) IsExpress() bool {
	return s.Kind == ServiceKindBuy && strings.HasPrefix(strings.TrimSpace(s.Name), ExpressPrefix)
}

// Split returns how the price of a purchase is divided between the performer and the Bank.
// The Bank share is computed as the remainder so both parts always sum to the price.
func (s Service) Split() (performer, bank decimal.Decimal) {
	if s.IsExpress() {
		return decimal.Zero, s.Price
	}

	performer = moneypkg.Share(s.Price, PerformerShare)

	return performer, s.Price.Sub(performer)
}

// CreateServiceParams is the input data to add a catalog service.
type CreateServiceParams struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Kind  ServiceKind     `json:"kind"`
}

// PurchaseResult is the result of buying a service.
type PurchaseResult struct {
	Service        Service         `json:"service"`
	Escrow         Escrow          `json:"escrow"`
	Buyer          Account         `json:"buyer"`
	Performer      Account         `json:"performer"`
	Bank           Account         `json:"bank"`
	PerformerShare decimal.Decimal `json:"performer_share"`
	BankShare      decimal.Decimal `json:"bank_share"`
}
