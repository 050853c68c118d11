package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	ledgerv1 "github.com/mmynk/splitledger/pkg/api/ledgerv1"
)

// expenseInput is the validated, split-computed form of a create or update request.
type expenseInput struct {
	paidBy      string
	amount      decimal.Decimal
	description string
	splitType   models.SplitType
	isPersonal  bool
	splits      []models.ExpenseSplit
}

func buildExpenseInput(paidBy string, amount decimal.Decimal, description, splitType string, isPersonal bool, inputs []ledgerv1.SplitInput) (*expenseInput, error) {
	st := models.SplitType(strings.ToLower(splitType))
	if st == "" {
		st = models.SplitEqual
	}
	if !st.Valid() {
		return nil, invalidArgument("unknown split type %q", splitType)
	}

	splits, err := calculator.CalculateSplit(amount, st, toSplitInputs(inputs))
	if err != nil {
		return nil, err
	}

	return &expenseInput{
		paidBy:      paidBy,
		amount:      amount,
		description: strings.TrimSpace(description),
		splitType:   st,
		isPersonal:  isPersonal,
		splits:      splits,
	}, nil
}

// CreateExpense records an expense and applies its obligations in one transaction.
func (s *LedgerService) CreateExpense(ctx context.Context, req *connect.Request[ledgerv1.CreateExpenseRequest]) (*connect.Response[ledgerv1.CreateExpenseResponse], error) {
	userID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	s.logger.Info("CreateExpense request received",
		"group_id", msg.GroupID,
		"amount", msg.Amount.String(),
		"split_type", msg.SplitType,
		"participants", len(msg.Splits),
	)

	if msg.GroupID == "" {
		return nil, s.fail(ctx, "CreateExpense", invalidArgument("group_id is required"))
	}
	paidBy := msg.PaidBy
	if paidBy == "" {
		paidBy = userID
	}

	in, err := buildExpenseInput(paidBy, msg.Amount, msg.Description, msg.SplitType, msg.IsPersonal, msg.Splits)
	if err != nil {
		return nil, s.fail(ctx, "CreateExpense", err, "group_id", msg.GroupID)
	}

	var expense *models.Expense
	err = s.store.WriteTx(ctx, func(tx storage.Tx) error {
		expense = &models.Expense{
			GroupID:     msg.GroupID,
			PaidBy:      in.paidBy,
			Amount:      in.amount,
			Description: in.description,
			SplitType:   in.splitType,
			IsPersonal:  in.isPersonal,
			CreatedBy:   userID,
			Splits:      append([]models.ExpenseSplit(nil), in.splits...),
		}

		if err := tx.EnsureGroup(ctx, expense.GroupID); err != nil {
			return err
		}
		if err := tx.CreateExpense(ctx, expense); err != nil {
			return err
		}
		if expense.IsPersonal {
			return nil
		}
		return s.ledger.With(tx).ApplyExpenseObligations(ctx, expense.GroupID, expense.PaidBy, expense.Shares())
	})
	if err != nil {
		return nil, s.fail(ctx, "CreateExpense", err, "group_id", msg.GroupID)
	}

	s.logger.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"paid_by", expense.PaidBy,
	)

	return connect.NewResponse(&ledgerv1.CreateExpenseResponse{
		Expense: toProtoExpense(expense),
	}), nil
}

// UpdateExpense replaces an expense's amount and splits. The old shares are
// reversed and the new ones applied in the same transaction. Only the creator
// may update an expense.
func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[ledgerv1.UpdateExpenseRequest]) (*connect.Response[ledgerv1.UpdateExpenseResponse], error) {
	userID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	s.logger.Info("UpdateExpense request received", "expense_id", msg.ExpenseID)

	if msg.ExpenseID == "" {
		return nil, s.fail(ctx, "UpdateExpense", invalidArgument("expense_id is required"))
	}

	var expense *models.Expense
	err = s.store.WriteTx(ctx, func(tx storage.Tx) error {
		existing, err := tx.GetExpense(ctx, msg.ExpenseID)
		if err != nil {
			return err
		}
		if existing.CreatedBy != userID {
			return permissionDenied("only the creator can update expense %s", existing.ID)
		}

		paidBy := msg.PaidBy
		if paidBy == "" {
			paidBy = existing.PaidBy
		}
		in, err := buildExpenseInput(paidBy, msg.Amount, msg.Description, msg.SplitType, msg.IsPersonal, msg.Splits)
		if err != nil {
			return err
		}

		w := s.ledger.With(tx)
		if !existing.IsPersonal {
			if err := w.ReverseExpenseObligations(ctx, existing.GroupID, existing.PaidBy, existing.Shares()); err != nil {
				return err
			}
		}

		expense = existing
		expense.PaidBy = in.paidBy
		expense.Amount = in.amount
		expense.Description = in.description
		expense.SplitType = in.splitType
		expense.IsPersonal = in.isPersonal
		expense.Splits = in.splits
		if err := tx.ReplaceExpenseSplits(ctx, expense); err != nil {
			return err
		}

		if expense.IsPersonal {
			return nil
		}
		return w.ApplyExpenseObligations(ctx, expense.GroupID, expense.PaidBy, expense.Shares())
	})
	if err != nil {
		return nil, s.fail(ctx, "UpdateExpense", err, "expense_id", msg.ExpenseID)
	}

	s.logger.Info("Expense updated", "expense_id", expense.ID, "group_id", expense.GroupID)

	return connect.NewResponse(&ledgerv1.UpdateExpenseResponse{
		Expense: toProtoExpense(expense),
	}), nil
}

// DeleteExpense removes an expense and reverses its obligations. Only the
// creator may delete an expense.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[ledgerv1.DeleteExpenseRequest]) (*connect.Response[ledgerv1.DeleteExpenseResponse], error) {
	userID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	expenseID := req.Msg.ExpenseID
	s.logger.Info("DeleteExpense request received", "expense_id", expenseID)

	if expenseID == "" {
		return nil, s.fail(ctx, "DeleteExpense", invalidArgument("expense_id is required"))
	}

	var groupID string
	err = s.store.WriteTx(ctx, func(tx storage.Tx) error {
		existing, err := tx.GetExpense(ctx, expenseID)
		if err != nil {
			return err
		}
		if existing.CreatedBy != userID {
			return permissionDenied("only the creator can delete expense %s", existing.ID)
		}
		groupID = existing.GroupID

		if !existing.IsPersonal {
			if err := s.ledger.With(tx).ReverseExpenseObligations(ctx, existing.GroupID, existing.PaidBy, existing.Shares()); err != nil {
				return err
			}
		}
		return tx.DeleteExpense(ctx, expenseID)
	})
	if err != nil {
		return nil, s.fail(ctx, "DeleteExpense", err, "expense_id", expenseID)
	}

	s.logger.Info("Expense deleted", slog.String("expense_id", expenseID), slog.String("group_id", groupID))

	return connect.NewResponse(&ledgerv1.DeleteExpenseResponse{}), nil
}

// involved reports whether userID paid for, created or shares in e.
func involved(e *models.Expense, userID string) bool {
	if e.PaidBy == userID || e.CreatedBy == userID {
		return true
	}
	for _, split := range e.Splits {
		if split.UserID == userID {
			return true
		}
	}
	return false
}

// GetExpense returns one expense with its splits. Callers outside the
// expense need the admin claim.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[ledgerv1.GetExpenseRequest]) (*connect.Response[ledgerv1.GetExpenseResponse], error) {
	userID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	expenseID := req.Msg.ExpenseID
	if expenseID == "" {
		return nil, s.fail(ctx, "GetExpense", invalidArgument("expense_id is required"))
	}

	var expense *models.Expense
	err = s.store.ReadTx(ctx, func(tx storage.Tx) error {
		var err error
		expense, err = tx.GetExpense(ctx, expenseID)
		return err
	})
	if err == nil && !involved(expense, userID) && !middleware.IsAdmin(ctx) {
		err = permissionDenied("user %s is not involved in expense %s", userID, expenseID)
	}
	if err != nil {
		return nil, s.fail(ctx, "GetExpense", err, "expense_id", expenseID)
	}

	return connect.NewResponse(&ledgerv1.GetExpenseResponse{
		Expense: toProtoExpense(expense),
	}), nil
}

// ListExpenses returns a page of expenses, newest first. Non-admin callers
// only see expenses they paid for, created or share in.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[ledgerv1.ListExpensesRequest]) (*connect.Response[ledgerv1.ListExpensesResponse], error) {
	userID, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	if msg.Offset < 0 || msg.Limit < 0 {
		return nil, s.fail(ctx, "ListExpenses", invalidArgument("limit and offset must not be negative"))
	}

	limit := msg.Limit
	if limit == 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	filter := storage.ExpenseFilter{
		GroupID:      msg.GroupID,
		PaidBy:       msg.PaidBy,
		InvolvesUser: msg.InvolvesUser,
	}
	if !middleware.IsAdmin(ctx) {
		filter.VisibleTo = userID
	}

	expenses, total, err := s.store.ListExpensesPage(ctx, filter, limit, msg.Offset)
	if err != nil {
		return nil, s.fail(ctx, "ListExpenses", err, "group_id", msg.GroupID)
	}

	out := make([]*ledgerv1.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toProtoExpense(e)
	}

	return connect.NewResponse(&ledgerv1.ListExpensesResponse{
		Expenses: out,
		Total:    total,
		HasMore:  msg.Offset+len(out) < total,
	}), nil
}
