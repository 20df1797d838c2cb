package domain

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// RateBps is a commission percentage with two implied decimal places:
// 30.00% == 3000. Keeping rates as scaled integers means commission math never
// touches floating point.
type RateBps int64

const maxRateBps RateBps = 10000 // 100.00%

// Commission computes the amount owed for a sale.
// amount is in minor currency units; the result truncates toward zero, so the
// platform keeps sub-cent remainders. amount=10000, rate=3000 -> 3000.
func Commission(amount int64, rate RateBps) int64 {
	if amount <= 0 || rate <= 0 {
		return 0
	}
	return amount * int64(rate) / 10000
}

// ParseRate converts a percentage string ("30", "12.5", "7.25") to RateBps.
// More than two decimal places, negative values and rates above 100% are
// rejected.
func ParseRate(raw string) (RateBps, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: empty commission rate", ErrInvalidInput)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: commission rate %q", ErrInvalidInput, raw)
	}
	scaled := d.Mul(decimal.NewFromInt(100))
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: commission rate %q has more than 2 decimal places", ErrInvalidInput, raw)
	}
	bps := RateBps(scaled.IntPart())
	if bps < 0 || bps > maxRateBps {
		return 0, fmt.Errorf("%w: commission rate %q out of range", ErrInvalidInput, raw)
	}
	return bps, nil
}

// String renders the scaled-integer wire encoding ("3000"), the form embedded
// in checkout-session metadata.
func (r RateBps) String() string {
	return strconv.FormatInt(int64(r), 10)
}

// Percent renders the human-facing percentage ("30.00").
func (r RateBps) Percent() string {
	return decimal.New(int64(r), -2).StringFixed(2)
}
