package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// ErrInvalidSplit is returned when an expense's split set cannot be turned
// into shares that add up to the expense amount.
var ErrInvalidSplit = errors.New("invalid split")

// SplitInput is one participant line of an expense before shares are computed.
// ShareAmount is required for exact splits, SharePercentage for percentage
// splits; both are ignored for equal splits.
type SplitInput struct {
	UserID          string           `json:"user_id"`
	ShareAmount     *decimal.Decimal `json:"share_amount,omitempty"`
	SharePercentage *decimal.Decimal `json:"share_percentage,omitempty"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSplit, fmt.Sprintf(format, args...))
}

// CalculateSplit computes each participant's share of amount.
//
// Equal and percentage shares always sum exactly to amount:
//   - equal: amount is divided in whole cents; leftover cents go to the
//     first participants in input order.
//   - exact: the provided amounts are used as given; their total must be
//     within one cent of amount.
//   - percentage: each share is amount × pct / 100 rounded to cents; the last
//     participant absorbs the rounding remainder. Percentages must sum to 100
//     within 0.01.
func CalculateSplit(amount decimal.Decimal, splitType models.SplitType, inputs []SplitInput) ([]models.ExpenseSplit, error) {
	if !amount.IsPositive() {
		return nil, invalid("amount must be positive, got %s", amount)
	}
	if !IsWholeCents(amount) {
		return nil, invalid("amount %s has more than two decimal places", amount)
	}
	if len(inputs) == 0 {
		return nil, invalid("must have at least one participant")
	}

	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if in.UserID == "" {
			return nil, invalid("participant user_id is required")
		}
		if seen[in.UserID] {
			return nil, invalid("participant %s listed more than once", in.UserID)
		}
		seen[in.UserID] = true
	}

	switch splitType {
	case models.SplitEqual:
		return equalSplit(amount, inputs), nil
	case models.SplitExact:
		return exactSplit(amount, inputs)
	case models.SplitPercentage:
		return percentageSplit(amount, inputs)
	default:
		return nil, invalid("unknown split type %q", splitType)
	}
}

func equalSplit(amount decimal.Decimal, inputs []SplitInput) []models.ExpenseSplit {
	n := decimal.NewFromInt(int64(len(inputs)))
	base, rem := amount.QuoRem(n, 2)

	// rem is below n cents, so the leftover count always fits an int64.
	leftover := rem.Shift(2).IntPart()

	splits := make([]models.ExpenseSplit, len(inputs))
	for i, in := range inputs {
		share := base
		if int64(i) < leftover {
			share = share.Add(Epsilon)
		}
		splits[i] = models.ExpenseSplit{
			UserID:      in.UserID,
			ShareAmount: share,
		}
	}
	return splits
}

func exactSplit(amount decimal.Decimal, inputs []SplitInput) ([]models.ExpenseSplit, error) {
	splits := make([]models.ExpenseSplit, len(inputs))
	total := decimal.Zero
	for i, in := range inputs {
		if in.ShareAmount == nil {
			return nil, invalid("share_amount required for %s in exact split", in.UserID)
		}
		if in.ShareAmount.IsNegative() {
			return nil, invalid("share_amount for %s must be non-negative", in.UserID)
		}
		if !IsWholeCents(*in.ShareAmount) {
			return nil, invalid("share_amount for %s has more than two decimal places", in.UserID)
		}
		total = total.Add(*in.ShareAmount)
		splits[i] = models.ExpenseSplit{UserID: in.UserID, ShareAmount: *in.ShareAmount}
	}
	if !WithinTolerance(total, amount) {
		return nil, invalid("sum of splits (%s) must equal total amount (%s)", total, amount)
	}
	return splits, nil
}

func percentageSplit(amount decimal.Decimal, inputs []SplitInput) ([]models.ExpenseSplit, error) {
	totalPct := decimal.Zero
	for _, in := range inputs {
		if in.SharePercentage == nil {
			return nil, invalid("share_percentage required for %s in percentage split", in.UserID)
		}
		pct := *in.SharePercentage
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return nil, invalid("share_percentage for %s must be between 0 and 100", in.UserID)
		}
		totalPct = totalPct.Add(pct)
	}
	if !WithinTolerance(totalPct, hundred) {
		return nil, invalid("sum of percentages (%s) must equal 100", totalPct)
	}

	splits := make([]models.ExpenseSplit, len(inputs))
	allocated := decimal.Zero
	last := len(inputs) - 1
	for i, in := range inputs {
		pct := *in.SharePercentage
		var share decimal.Decimal
		if i == last {
			share = amount.Sub(allocated)
		} else {
			share = RoundCents(amount.Mul(pct).Div(hundred))
		}
		if share.IsNegative() {
			return nil, invalid("percentages leave a negative share for %s", in.UserID)
		}
		allocated = allocated.Add(share)
		splits[i] = models.ExpenseSplit{
			UserID:          in.UserID,
			ShareAmount:     share,
			SharePercentage: &pct,
		}
	}
	return splits, nil
}
