// Package pricing computes resale prices from supplier cost prices.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MaxMarkup is the highest markup accepted when the operator changes the default markup
var MaxMarkup = decimal.NewFromInt(200)

var (
	hundred = decimal.NewFromInt(100)

	// ErrNegativeCost is returned for cost prices below zero
	ErrNegativeCost = errors.New("cost price must not be negative")
	// ErrNegativeMarkup is returned for markups below zero
	ErrNegativeMarkup = errors.New("markup percent must not be negative")
)

// ResalePrice returns cost * (1 + markup/100) rounded half away from zero to cents
func ResalePrice(cost, markupPercent decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(markupPercent.Div(hundred))
	return cost.Mul(factor).Round(2)
}

// Validate checks the inputs accepted by ResalePrice
func Validate(cost, markupPercent decimal.Decimal) error {
	if cost.IsNegative() {
		return ErrNegativeCost
	}
	if markupPercent.IsNegative() {
		return ErrNegativeMarkup
	}
	return nil
}

// ValidateDefaultMarkup bounds an operator supplied default markup to 0..200
func ValidateDefaultMarkup(markupPercent decimal.Decimal) error {
	if markupPercent.IsNegative() || markupPercent.GreaterThan(MaxMarkup) {
		return errors.New("markup must be between 0 and 200")
	}
	return nil
}

// DeltaPercent returns (new-old)*100/old without rounding; callers round for
// display only. ok is false when old is zero and the ratio is undefined.
func DeltaPercent(oldPrice, newPrice decimal.Decimal) (delta decimal.Decimal, ok bool) {
	if oldPrice.IsZero() {
		return decimal.Zero, false
	}
	return newPrice.Sub(oldPrice).Mul(hundred).Div(oldPrice), true
}
