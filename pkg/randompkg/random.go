// Package randompkg provides functionality for generating random application items in tests.
package randompkg

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Float64 is a shortcut for generating a random float between 0 and 1 using crypto/rand.
func Float64() float64 {
	return float64(Intn(1<<32)) / (1 << 32)
}

// IntBetween generates a random integer in [min, max].
func IntBetween(min, max int64) int64 {
	return min + Intn(int(max-min+1))
}

// FloatBetween generates a random decimal number between min and max rounded to 4 decimals.
func FloatBetween(min, max float64) float64 {
	numInRange := min + Float64()*(max-min)
	return math.Floor(numInRange*10_000) / 10_000
}

// String generates a random string of length n.
func String(n int) string {
	var sb strings.Builder

	k := len(alphabet)

	for i := 0; i < n; i++ {
		c := alphabet[Intn(k)]

		_ = sb.WriteByte(c) // The returned err is always nil.
	}

	return sb.String()
}

// AccountID generates a random participant account id. It is never the Bank id.
func AccountID() int64 {
	return IntBetween(1_000, 1_000_000_000)
}

// MoneyAmountBetween generates a random amount of money between min and max rounded to 2 decimals.
func MoneyAmountBetween(min, max float64) string {
	return Amount(min, max).String()
}

// Amount generates a random positive decimal amount between min and max rounded to 2 decimals.
func Amount(min, max float64) decimal.Decimal {
	d := decimal.NewFromFloat(FloatBetween(min, max)).Truncate(2)
	if !d.IsPositive() {
		return decimal.New(1, -2)
	}

	return d
}

// ServiceName generates a random catalog service name.
func ServiceName() string {
	return fmt.Sprintf("%s %s", DisplayName(), String(8))
}

// DisplayName generates a random participant display name.
func DisplayName() string {
	return strings.ToUpper(String(1)) + String(7)
}
