package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrLoanAlreadyActive indicates that the owner already has an active loan.
	ErrLoanAlreadyActive = errors.New("loan already active")
	// ErrLoanNotFound indicates that there is no active loan with the given id.
	ErrLoanNotFound = errors.New("loan not found")
)

// LoanStatus is the state of a loan row.
type LoanStatus string

// Loan statuses.
const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusClosed LoanStatus = "closed"
)

// Interest tiers. Loans up to SmallLoanLimit step up every day; larger loans get two days
// before the first step and three days between steps afterwards.
const (
	SmallLoanFirstTier = 24 * time.Hour
	SmallLoanPeriod    = 24 * time.Hour
	LargeLoanFirstTier = 48 * time.Hour
	LargeLoanPeriod    = 72 * time.Hour
)

var (
	// SmallLoanLimit is the largest principal that uses the small loan tiers.
	SmallLoanLimit = decimal.NewFromInt(12)
	// InitialInterestRate is the markup a loan is opened with.
	InitialInterestRate = decimal.RequireFromString("0.25")
	// InterestStep is added to the rate for every tier period crossed.
	InterestStep = decimal.RequireFromString("0.25")
)

// LoanPresets are the amounts offered by the loan menu.
func LoanPresets() []decimal.Decimal {
	return []decimal.Decimal{
		decimal.NewFromInt(4),
		decimal.NewFromInt(8),
		decimal.NewFromInt(12),
		decimal.NewFromInt(16),
		decimal.NewFromInt(20),
	}
}

// Loan is one version of a participant's loan. Accrual closes the current row and opens
// a replacement, so the owner, not the row id, identifies the loan.
type Loan struct {
	ID           int64           `json:"id"`
	Owner        int64           `json:"owner"`
	Principal    decimal.Decimal `json:"principal"`
	OpenedAt     time.Time       `json:"opened_at"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Status       LoanStatus      `json:"status"`
}

// CreateLoanParams is the input data to open a loan row.
type CreateLoanParams struct {
	Owner        int64
	Principal    decimal.Decimal
	OpenedAt     time.Time
	InterestRate decimal.Decimal
}

// Tier returns the first boundary and the repeat period for the loan principal.
func (l Loan) Tier() (first, period time.Duration) {
	if l.Principal.LessThanOrEqual(SmallLoanLimit) {
		return SmallLoanFirstTier, SmallLoanPeriod
	}

	return LargeLoanFirstTier, LargeLoanPeriod
}

// PeriodsElapsed returns how many tier periods have been crossed since the row was opened.
// It is zero until the first boundary has been passed.
func (l Loan) PeriodsElapsed(now time.Time) int64 {
	first, period := l.Tier()

	elapsed := now.Sub(l.OpenedAt)
	if elapsed <= first {
		return 0
	}

	return int64((elapsed-first)/period) + 1
}

// AccruedRate returns the rate the loan should carry at now, and whether it differs from
// the stored one.
func (l Loan) AccruedRate(now time.Time) (decimal.Decimal, bool) {
	periods := l.PeriodsElapsed(now)
	if periods == 0 {
		return l.InterestRate, false
	}

	return l.InterestRate.Add(InterestStep.Mul(decimal.NewFromInt(periods))), true
}

// NextIncreaseIn returns the time left until the next tier boundary of the row.
func (l Loan) NextIncreaseIn(now time.Time) time.Duration {
	first, period := l.Tier()

	elapsed := now.Sub(l.OpenedAt)
	if elapsed <= first {
		return first - elapsed
	}

	return period - (elapsed-first)%period
}

// ProjectedOwed is the amount shown in the debts view. The markup becomes due once the
// loan has crossed its first boundary; before that the owner owes the principal.
func (l Loan) ProjectedOwed(now time.Time) decimal.Decimal {
	rate, changed := l.AccruedRate(now)
	if !changed && l.InterestRate.Equal(InitialInterestRate) {
		return l.Principal
	}

	return l.Principal.Mul(decimal.NewFromInt(1).Add(rate)).Round(2)
}

// LoanResult is the result of issuing or repaying a loan.
type LoanResult struct {
	Loan  Loan    `json:"loan"`
	Owner Account `json:"owner"`
	Bank  Account `json:"bank"`
}

// Debt is one line of the debts view.
type Debt struct {
	Loan           Loan            `json:"loan"`
	OwnerName      string          `json:"owner_name"`
	Owed           decimal.Decimal `json:"owed"`
	NextIncreaseIn time.Duration   `json:"next_increase_in"`
}

// AccrualReport summarizes one accrual scan.
type AccrualReport struct {
	Scanned int `json:"scanned"`
	Accrued int `json:"accrued"`
	Failed  int `json:"failed"`
}
