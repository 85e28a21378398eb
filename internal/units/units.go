// Package units converts between base-unit integers and human-readable
// decimal amounts.
package units

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/shopspring/decimal"
)

// ToDecimal scales a base-unit amount down by decimals.
func ToDecimal(amount math.Int, decimals uint32) decimal.Decimal {
	if amount.IsNil() {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount.BigInt(), -int32(decimals))
}

// Format renders amount with decimals as a trimmed decimal string.
func Format(amount math.Int, decimals uint32) string {
	return ToDecimal(amount, decimals).String()
}

// Parse reads a human-readable amount such as "1.5" into base units.
// Digits beyond decimals are rejected rather than rounded.
func Parse(s string, decimals uint32) (math.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return math.Int{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return math.Int{}, fmt.Errorf("amount %q is negative", s)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return math.Int{}, fmt.Errorf("amount %q has more than %d decimals", s, decimals)
	}
	return math.NewIntFromBigInt(scaled.BigInt()), nil
}

// Price renders a base-unit ratio num/den adjusted for both sides' decimals,
// rounded to places.
func Price(num, den math.Int, numDecimals, denDecimals uint32, places int32) string {
	if den.IsNil() || den.IsZero() || num.IsNil() {
		return "0"
	}
	return ToDecimal(num, numDecimals).Div(ToDecimal(den, denDecimals)).StringFixed(places)
}
