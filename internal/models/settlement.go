package models

import "github.com/shopspring/decimal"

// Settlement represents a payment between group members to clear debts.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group this settlement belongs to.
	GroupID string

	// PayerID is the user who paid (usually the debtor settling up).
	PayerID string

	// ReceiverID is the user who received the payment.
	ReceiverID string

	// Amount is the payment amount. Always positive.
	Amount decimal.Decimal

	// CreatedAt is the Unix timestamp (nanoseconds) when the settlement was recorded.
	// Nanosecond precision keeps replay order stable for events in the same second.
	CreatedAt int64

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string

	// Note is an optional description for the settlement.
	Note string
}
