package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const expenseColumns = "id, group_id, paid_by, amount, description, split_type, is_personal, created_by, created_at"

// CreateExpense persists a new expense and its split rows.
func (t *sqlTx) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().UnixNano()
	}

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PaidBy, expense.Amount.String(), expense.Description,
		string(expense.SplitType), expense.IsPersonal, expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return t.insertSplits(ctx, expense)
}

func (t *sqlTx) insertSplits(ctx context.Context, expense *models.Expense) error {
	for i := range expense.Splits {
		split := &expense.Splits[i]
		split.ExpenseID = expense.ID

		var pct any
		if split.SharePercentage != nil {
			pct = split.SharePercentage.String()
		}

		_, err := t.tx.ExecContext(ctx,
			`INSERT INTO expense_splits (expense_id, user_id, share_amount, share_percentage)
			 VALUES (?, ?, ?, ?)`,
			expense.ID, split.UserID, split.ShareAmount.String(), pct,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID, including its splits.
func (t *sqlTx) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(t.tx.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, expenseID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	rows, err := t.tx.QueryContext(ctx,
		`SELECT expense_id, user_id, share_amount, share_percentage
		 FROM expense_splits WHERE expense_id = ? ORDER BY rowid`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			return nil, err
		}
		expense.Splits = append(expense.Splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	return expense, nil
}

// ReplaceExpenseSplits rewrites the mutable columns of an expense and swaps
// its split rows for expense.Splits.
func (t *sqlTx) ReplaceExpenseSplits(ctx context.Context, expense *models.Expense) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE expenses SET paid_by = ?, amount = ?, description = ?, split_type = ?, is_personal = ?
		 WHERE id = ?`,
		expense.PaidBy, expense.Amount.String(), expense.Description,
		string(expense.SplitType), expense.IsPersonal, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expense.ID, storage.ErrNotFound)
	}

	if _, err := t.tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete expense splits: %w", err)
	}

	return t.insertSplits(ctx, expense)
}

// DeleteExpense removes an expense; its splits are removed by cascade.
func (t *sqlTx) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// ListExpensesByGroup retrieves every expense of a group with its splits,
// oldest first.
func (t *sqlTx) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	byID := make(map[string]*models.Expense)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	if len(expenses) == 0 {
		return nil, nil
	}

	err = t.attachSplits(ctx, byID,
		`SELECT s.expense_id, s.user_id, s.share_amount, s.share_percentage
		 FROM expense_splits s JOIN expenses e ON e.id = s.expense_id
		 WHERE e.group_id = ? ORDER BY s.rowid`,
		groupID,
	)
	if err != nil {
		return nil, err
	}

	return expenses, nil
}

// ListExpensesPage returns one page of the expenses matching filter, newest
// first, together with the total number of matches.
func (s *Store) ListExpensesPage(ctx context.Context, filter storage.ExpenseFilter, limit, offset int) ([]*models.Expense, int, error) {
	var where []string
	var args []any
	if filter.GroupID != "" {
		where = append(where, "group_id = ?")
		args = append(args, filter.GroupID)
	}
	if filter.PaidBy != "" {
		where = append(where, "paid_by = ?")
		args = append(args, filter.PaidBy)
	}
	if filter.InvolvesUser != "" {
		where = append(where, "(paid_by = ? OR EXISTS (SELECT 1 FROM expense_splits s WHERE s.expense_id = expenses.id AND s.user_id = ?))")
		args = append(args, filter.InvolvesUser, filter.InvolvesUser)
	}
	if filter.VisibleTo != "" {
		where = append(where, "(paid_by = ? OR created_by = ? OR EXISTS (SELECT 1 FROM expense_splits s WHERE s.expense_id = expenses.id AND s.user_id = ?))")
		args = append(args, filter.VisibleTo, filter.VisibleTo, filter.VisibleTo)
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var (
		expenses []*models.Expense
		total    int
	)
	err := s.ReadTx(ctx, func(tx storage.Tx) error {
		t := tx.(*sqlTx)

		if err := t.tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM expenses"+clause, args...,
		).Scan(&total); err != nil {
			return fmt.Errorf("failed to count expenses: %w", err)
		}

		rows, err := t.tx.QueryContext(ctx,
			`SELECT `+expenseColumns+` FROM expenses`+clause+`
			 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
			append(args, limit, offset)...,
		)
		if err != nil {
			return fmt.Errorf("failed to list expenses: %w", err)
		}
		defer rows.Close()

		byID := make(map[string]*models.Expense)
		for rows.Next() {
			expense, err := scanExpense(rows)
			if err != nil {
				return fmt.Errorf("failed to scan expense: %w", err)
			}
			expenses = append(expenses, expense)
			byID[expense.ID] = expense
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate expenses: %w", err)
		}
		if len(expenses) == 0 {
			return nil
		}

		ids := make([]any, len(expenses))
		for i, e := range expenses {
			ids[i] = e.ID
		}
		return t.attachSplits(ctx, byID,
			`SELECT expense_id, user_id, share_amount, share_percentage
			 FROM expense_splits WHERE expense_id IN (?`+strings.Repeat(", ?", len(ids)-1)+`)
			 ORDER BY rowid`,
			ids...,
		)
	})
	if err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

// attachSplits runs query, which must select split rows, and appends each
// row to its expense in byID.
func (t *sqlTx) attachSplits(ctx context.Context, byID map[string]*models.Expense, query string, args ...any) error {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to list expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			return err
		}
		if expense, ok := byID[split.ExpenseID]; ok {
			expense.Splits = append(expense.Splits, split)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense splits: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var splitType string
	err := row.Scan(&expense.ID, &expense.GroupID, &expense.PaidBy, &expense.Amount,
		&expense.Description, &splitType, &expense.IsPersonal, &expense.CreatedBy, &expense.CreatedAt)
	if err != nil {
		return nil, err
	}
	expense.SplitType = models.SplitType(splitType)
	return expense, nil
}

func scanSplit(row scanner) (models.ExpenseSplit, error) {
	var split models.ExpenseSplit
	var pct decimal.NullDecimal
	if err := row.Scan(&split.ExpenseID, &split.UserID, &split.ShareAmount, &pct); err != nil {
		return split, fmt.Errorf("failed to scan expense split: %w", err)
	}
	if pct.Valid {
		p := pct.Decimal
		split.SharePercentage = &p
	}
	return split, nil
}
