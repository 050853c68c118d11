package models

import "github.com/shopspring/decimal"

// SplitType selects how an expense amount is divided among participants.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitExact      SplitType = "exact"
	SplitPercentage SplitType = "percentage"
)

// Valid reports whether t is a known split type.
func (t SplitType) Valid() bool {
	switch t {
	case SplitEqual, SplitExact, SplitPercentage:
		return true
	}
	return false
}

// Expense is a payment made by one user on behalf of a group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	GroupID string

	// PaidBy is the user who paid. They are the implicit creditor of every
	// split line that belongs to someone else.
	PaidBy string

	// Amount is the total paid. Equal to the sum of Splits.
	Amount decimal.Decimal

	Description string

	SplitType SplitType

	// IsPersonal expenses are recorded but never touch the ledger.
	IsPersonal bool

	CreatedBy string

	// CreatedAt is the Unix timestamp in nanoseconds.
	CreatedAt int64

	Splits []ExpenseSplit
}

// ExpenseSplit is one participant's share of an expense.
type ExpenseSplit struct {
	ExpenseID string
	UserID    string

	// ShareAmount is what this participant consumed. Never negative.
	ShareAmount decimal.Decimal

	// SharePercentage is set only for percentage splits.
	SharePercentage *decimal.Decimal
}

// Shares converts the expense's split rows into ledger shares.
func (e *Expense) Shares() []Share {
	shares := make([]Share, len(e.Splits))
	for i, s := range e.Splits {
		shares[i] = Share{UserID: s.UserID, Amount: s.ShareAmount}
	}
	return shares
}

// Share is the ledger's view of one split line: userID consumed Amount.
type Share struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}
