package calculator

import "github.com/shopspring/decimal"

// Epsilon is the rounding tolerance for money comparisons: one cent.
// Balances within Epsilon of zero are treated as settled.
var Epsilon = decimal.New(1, -2)

var hundred = decimal.NewFromInt(100)

// RoundCents rounds d to two decimal places, half away from zero, which is
// round-half-up on the magnitude. It is the single canonical rounding rule
// for money and is applied only at comparison and emission boundaries.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// IsZeroCents reports whether d rounds to zero cents.
func IsZeroCents(d decimal.Decimal) bool {
	return RoundCents(d).IsZero()
}

// WithinTolerance reports whether a and b differ by at most Epsilon.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// IsWholeCents reports whether d has no digits beyond the cent.
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}
