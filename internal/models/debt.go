package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtEdge is a directed obligation within one group: From owes To Amount.
//
// Invariants: Amount > 0, From != To, at most one edge per ordered pair, and
// never both From→To and To→From at the same time.
type DebtEdge struct {
	GroupID     string          `json:"group_id"`
	From        string          `json:"user_from"`
	To          string          `json:"user_to"`
	Amount      decimal.Decimal `json:"amount"`
	LastUpdated time.Time       `json:"last_updated"`
}

// Key returns the ordered pair identifying the edge within its group.
func (e DebtEdge) Key() Pair {
	return Pair{From: e.From, To: e.To}
}

// Pair is an ordered (debtor, creditor) pair.
type Pair struct {
	From string
	To   string
}

// Reverse returns the opposing pair.
func (p Pair) Reverse() Pair {
	return Pair{From: p.To, To: p.From}
}

// Transfer is one payment suggested by debt simplification.
type Transfer struct {
	From   string          `json:"from_user"`
	To     string          `json:"to_user"`
	Amount decimal.Decimal `json:"amount"`
}

// AuditEntry records a destructive ledger operation together with the
// ledger state before and after it.
type AuditEntry struct {
	ID        string     `json:"id"`
	GroupID   string     `json:"group_id"`
	Action    string     `json:"action"`
	Actor     string     `json:"actor"`
	Before    []DebtEdge `json:"before"`
	After     []DebtEdge `json:"after"`
	CreatedAt int64      `json:"created_at"` // Unix nanoseconds
}
