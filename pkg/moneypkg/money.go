// Package moneypkg provides common money related functionality for apps.
//
// All amounts are exact decimals. Binary floating point never touches a balance.
package moneypkg

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits an amount may carry.
const Precision = 4

var (
	// ErrNotANumber indicates that the input is not a decimal number.
	ErrNotANumber = errors.New("amount is not a number")
	// ErrNotPositive indicates that the amount is zero or negative.
	ErrNotPositive = errors.New("amount must be positive")
	// ErrTooPrecise indicates that the amount has more fractional digits than Precision.
	ErrTooPrecise = errors.New("amount has too many decimal places")
)

// Parse converts a user supplied string into a positive amount.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}

	if !d.IsPositive() {
		return decimal.Zero, ErrNotPositive
	}

	if d.Exponent() < -Precision && !d.Equal(d.Truncate(Precision)) {
		return decimal.Zero, ErrTooPrecise
	}

	return d, nil
}

// Share returns amount*ratio. The ratio must be exact in decimal (0.75, 0.25, ...),
// so the result is exact as well.
func Share(amount, ratio decimal.Decimal) decimal.Decimal {
	return amount.Mul(ratio)
}

// Sum adds all the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}

	return total
}

// ValidAmount validates whether the field holds a positive decimal string.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := Parse(s)
		return err == nil
	}

	return false
}
