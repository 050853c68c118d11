// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBusy is returned when a write transaction could not acquire the
	// database lock after all retries. Callers may retry the whole request.
	ErrBusy = errors.New("storage busy")
)

// ExpenseFilter narrows ListExpensesPage. Empty fields do not filter.
type ExpenseFilter struct {
	GroupID string
	PaidBy  string

	// InvolvesUser keeps expenses the user paid for or has a share in.
	InvolvesUser string

	// VisibleTo keeps expenses the user paid for, created or has a share in.
	VisibleTo string
}

// Edges is the DebtEdge row access the ledger needs.
// Implementations must be used within a single transaction so that the
// read-modify-write of an obligation is atomic.
type Edges interface {
	// GetEdge returns the edge from→to, or nil when there is none.
	GetEdge(ctx context.Context, groupID, from, to string) (*models.DebtEdge, error)

	// PutEdge inserts or replaces the edge identified by (GroupID, From, To).
	PutEdge(ctx context.Context, edge *models.DebtEdge) error

	// DeleteEdge removes the edge from→to. Deleting a missing edge is not an error.
	DeleteEdge(ctx context.Context, groupID, from, to string) error

	// ListEdges returns all edges of a group ordered by (From, To).
	ListEdges(ctx context.Context, groupID string) ([]models.DebtEdge, error)
}

// Tx is a unit of work against the store. Everything done through one Tx
// commits or rolls back together.
type Tx interface {
	Edges

	// DeleteGroupEdges removes every edge of a group and returns how many were removed.
	DeleteGroupEdges(ctx context.Context, groupID string) (int64, error)

	// EnsureGroup creates the group row if it does not exist yet.
	EnsureGroup(ctx context.Context, groupID string) error

	// CreateExpense persists an expense and its splits.
	// The expense.ID and CreatedAt fields will be populated by the store if unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits.
	// Returns ErrNotFound if the expense does not exist.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ReplaceExpenseSplits updates amount, description and split type of an
	// expense and swaps its split rows for expense.Splits.
	ReplaceExpenseSplits(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// DeleteGroup removes a group and, by cascade, its ledger, expenses and
	// settlements. Returns ErrNotFound if the group does not exist.
	DeleteGroup(ctx context.Context, groupID string) error

	// ListExpensesByGroup returns every expense of a group, with splits,
	// ordered by creation time.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
	DeleteSettlement(ctx context.Context, settlementID string) error

	// ListSettlementsByGroup returns the settlements of a group ordered by
	// creation time, oldest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// InsertAuditEntry records a destructive ledger operation.
	InsertAuditEntry(ctx context.Context, entry *models.AuditEntry) error
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or service layer.
type Store interface {
	// WriteTx runs fn inside a serialized write transaction. fn may be called
	// more than once when the transaction is retried after a lock conflict,
	// so it must not have side effects outside the transaction.
	WriteTx(ctx context.Context, fn func(tx Tx) error) error

	// ReadTx runs fn inside a read transaction that sees one consistent
	// snapshot. Writes through tx are not permitted.
	ReadTx(ctx context.Context, fn func(tx Tx) error) error

	// ListGroups returns every known group ordered by ID.
	ListGroups(ctx context.Context) ([]models.Group, error)

	// ListGroupIDs returns the IDs of every known group.
	ListGroupIDs(ctx context.Context) ([]string, error)

	// ListExpensesPage returns one page of the expenses matching filter,
	// newest first, together with the total count.
	ListExpensesPage(ctx context.Context, filter ExpenseFilter, limit, offset int) ([]*models.Expense, int, error)

	// ListSettlementsPage returns one page of a group's settlements, newest
	// first, together with the total count.
	ListSettlementsPage(ctx context.Context, groupID string, limit, offset int) ([]*models.Settlement, int, error)

	// ListAuditEntries returns the audit trail of a group, newest first.
	ListAuditEntries(ctx context.Context, groupID string) ([]*models.AuditEntry, error)

	// DeleteGroup runs Tx.DeleteGroup in its own write transaction.
	DeleteGroup(ctx context.Context, groupID string) error

	// Close releases any resources held by the store.
	Close() error
}
