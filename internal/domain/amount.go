package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// AmountScale is the fixed fractional precision carried by every amount,
// fee and price in the planner. All intermediate rounding truncates at this
// scale (floor for positive values) so multi-hop results never drift upward.
const AmountScale = 18

var ErrBadAmount = errors.New("amount must be a positive decimal")

// FloorAmount truncates d to AmountScale fractional digits.
func FloorAmount(d decimal.Decimal) decimal.Decimal {
	return d.Truncate(AmountScale)
}

// CeilAmount rounds d up at AmountScale. Used only when inverting a quote
// (exact-out): required input is rounded against the requester.
func CeilAmount(d decimal.Decimal) decimal.Decimal {
	floored := d.Truncate(AmountScale)
	if floored.Equal(d) {
		return floored
	}
	step := decimal.New(1, -AmountScale)
	return floored.Add(step)
}

// DivFloor divides a by b at AmountScale with floor rounding.
func DivFloor(a, b decimal.Decimal) decimal.Decimal {
	// Extra headroom before the final truncate so the floor itself is exact.
	return a.DivRound(b, AmountScale+6).Truncate(AmountScale)
}

// MulFloor multiplies a by b at AmountScale with floor rounding.
func MulFloor(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Truncate(AmountScale)
}

// ParseAmount parses a positive decimal string.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, ErrBadAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrBadAmount
	}
	if d.Sign() <= 0 {
		return decimal.Zero, ErrBadAmount
	}
	return d, nil
}
