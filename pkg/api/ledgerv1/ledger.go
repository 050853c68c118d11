// Package ledgerv1 defines the request and response messages of the
// splitledger.v1.LedgerService API. Messages travel as JSON; money amounts
// are decimal strings.
package ledgerv1

import "github.com/shopspring/decimal"

// Expense is a recorded group expense and its per-user shares.
type Expense struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	PaidBy      string          `json:"paid_by"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	SplitType   string          `json:"split_type"`
	IsPersonal  bool            `json:"is_personal,omitempty"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   int64           `json:"created_at"`
	Splits      []ExpenseSplit  `json:"splits"`
}

// ExpenseSplit is one participant's computed share.
type ExpenseSplit struct {
	UserID          string           `json:"user_id"`
	ShareAmount     decimal.Decimal  `json:"share_amount"`
	SharePercentage *decimal.Decimal `json:"share_percentage,omitempty"`
}

// SplitInput is one participant line of a create or update request.
// ShareAmount is required for exact splits, SharePercentage for percentage splits.
type SplitInput struct {
	UserID          string           `json:"user_id"`
	ShareAmount     *decimal.Decimal `json:"share_amount,omitempty"`
	SharePercentage *decimal.Decimal `json:"share_percentage,omitempty"`
}

type CreateExpenseRequest struct {
	GroupID     string          `json:"group_id"`
	PaidBy      string          `json:"paid_by,omitempty"` // defaults to the caller
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	SplitType   string          `json:"split_type"`
	IsPersonal  bool            `json:"is_personal,omitempty"`
	Splits      []SplitInput    `json:"splits"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// UpdateExpenseRequest replaces every mutable field of an expense.
type UpdateExpenseRequest struct {
	ExpenseID   string          `json:"expense_id"`
	PaidBy      string          `json:"paid_by,omitempty"` // defaults to the current payer
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	SplitType   string          `json:"split_type"`
	IsPersonal  bool            `json:"is_personal,omitempty"`
	Splits      []SplitInput    `json:"splits"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// ListExpensesRequest pages through expenses, newest first. Filters are
// optional; non-admin callers only see expenses they are involved in.
type ListExpensesRequest struct {
	GroupID      string `json:"group_id,omitempty"`
	PaidBy       string `json:"paid_by,omitempty"`
	InvolvesUser string `json:"involves_user,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
	Total    int        `json:"total"`
	HasMore  bool       `json:"has_more"`
}

// Settlement is a recorded payment from one member to another.
type Settlement struct {
	ID         string          `json:"id"`
	GroupID    string          `json:"group_id"`
	PayerID    string          `json:"payer_id"`
	ReceiverID string          `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  int64           `json:"created_at"`
}

type RecordSettlementRequest struct {
	GroupID    string          `json:"group_id"`
	PayerID    string          `json:"payer_id,omitempty"` // defaults to the caller
	ReceiverID string          `json:"receiver_id"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}

type ListSettlementsRequest struct {
	GroupID string `json:"group_id"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
	Total       int           `json:"total"`
	HasMore     bool          `json:"has_more"`
}

// DebtEdge is one directed debt: UserFrom owes UserTo Amount.
type DebtEdge struct {
	UserFrom    string          `json:"user_from"`
	UserTo      string          `json:"user_to"`
	Amount      decimal.Decimal `json:"amount"`
	LastUpdated int64           `json:"last_updated"`
}

// Transfer is a suggested payment.
type Transfer struct {
	FromUser string          `json:"from_user"`
	ToUser   string          `json:"to_user"`
	Amount   decimal.Decimal `json:"amount"`
}

type GetGroupLedgerRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupLedgerResponse struct {
	GroupID string      `json:"group_id"`
	Edges   []*DebtEdge `json:"edges"`
}

type SimplifyGroupRequest struct {
	GroupID string `json:"group_id"`
}

type SimplifyGroupResponse struct {
	GroupID   string      `json:"group_id"`
	Transfers []*Transfer `json:"transfers"`
}

// Counterparty is the other side of an open debt.
type Counterparty struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// MemberBalance is one member's totals within a group.
type MemberBalance struct {
	UserID     string          `json:"user_id"`
	OwedToUser decimal.Decimal `json:"total_owed_to_user"`
	UserOwes   decimal.Decimal `json:"total_user_owes"`
	NetBalance decimal.Decimal `json:"net_balance"`
	OwedBy     []*Counterparty `json:"owed_by"`
	Owes       []*Counterparty `json:"owes"`
}

type GetGroupSummaryRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupSummaryResponse struct {
	GroupID         string           `json:"group_id"`
	Members         []*MemberBalance `json:"members"`
	SimplifiedDebts []*Transfer      `json:"simplified_debts"`
}

// UserGroupBalance is the caller's position in one group.
type UserGroupBalance struct {
	GroupID    string          `json:"group_id"`
	OwedToUser decimal.Decimal `json:"owed_to_user"`
	UserOwes   decimal.Decimal `json:"user_owes"`
	NetBalance decimal.Decimal `json:"net_balance"`
	Transfers  []*Transfer     `json:"transfers"`
}

// GetUserSummaryRequest asks for a user's position across groups. UserID
// defaults to the caller; asking about someone else requires admin. An empty
// GroupIDs means every group.
type GetUserSummaryRequest struct {
	UserID   string   `json:"user_id,omitempty"`
	GroupIDs []string `json:"group_ids,omitempty"`
}

type GetUserSummaryResponse struct {
	UserID          string              `json:"user_id"`
	Groups          []*UserGroupBalance `json:"groups"`
	TotalOwedToUser decimal.Decimal     `json:"total_owed_to_user"`
	TotalUserOwes   decimal.Decimal     `json:"total_user_owes"`
	NetBalance      decimal.Decimal     `json:"net_balance"`
}

// Discrepancy is one pair whose stored debt disagrees with history.
type Discrepancy struct {
	UserFrom         string          `json:"user_from"`
	UserTo           string          `json:"user_to"`
	StoredAmount     decimal.Decimal `json:"stored_amount"`
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
	Difference       decimal.Decimal `json:"difference"`
	Issue            string          `json:"issue"`
}

type ReconcileGroupRequest struct {
	GroupID string `json:"group_id"`
}

type ReconcileGroupResponse struct {
	GroupID            string         `json:"group_id"`
	DiscrepanciesFound int            `json:"discrepancies_found"`
	Discrepancies      []*Discrepancy `json:"discrepancies"`
	Status             string         `json:"status"`
	CheckedAt          int64          `json:"checked_at"`
}

// RebuildGroupRequest must carry Confirm=true; rebuild is destructive.
type RebuildGroupRequest struct {
	GroupID string `json:"group_id"`
	Confirm bool   `json:"confirm"`
}

type RebuildGroupResponse struct {
	GroupID     string      `json:"group_id"`
	AuditID     string      `json:"audit_id"`
	EdgesBefore int         `json:"edges_before"`
	EdgesAfter  int         `json:"edges_after"`
	Edges       []*DebtEdge `json:"edges"`
	RebuiltBy   string      `json:"rebuilt_by"`
	RebuiltAt   int64       `json:"rebuilt_at"`
}

// DeleteGroupRequest must carry Confirm=true. The group's expenses,
// settlements and ledger are removed; an audit entry keeps the ledger.
type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
	Confirm bool   `json:"confirm"`
}

type DeleteGroupResponse struct {
	GroupID      string      `json:"group_id"`
	AuditID      string      `json:"audit_id"`
	EdgesRemoved int         `json:"edges_removed"`
	Edges        []*DebtEdge `json:"edges"`
	DeletedBy    string      `json:"deleted_by"`
}
