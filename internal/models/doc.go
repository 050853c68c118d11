// Package models defines the core domain models for splitledger.
//
// # Ledger Models
//
//   - DebtEdge: a directed, positive obligation between two users in a group.
//     Edges are a cache of the net effect of expenses and settlements.
//   - Transfer: one suggested payment produced by debt simplification.
//
// # Source Models
//
// These are owned by the expense and settlement collaborators and are
// read-only to the ledger once persisted:
//   - Expense and ExpenseSplit: who paid, and each participant's share.
//   - Settlement: a real-world payment from one member to another.
//   - Group: the anchor row every ledger, expense and settlement row hangs off.
//
// # Money
//
// Every amount is a decimal.Decimal. Floating point is never used for money;
// rounding to cents happens only where an edge is created, deleted or compared.
//
// Relationships are expressed with ID strings rather than pointers.
package models
