package service

import (
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/reconcile"
	ledgerv1 "github.com/mmynk/splitledger/pkg/api/ledgerv1"
)

func toSplitInputs(in []ledgerv1.SplitInput) []calculator.SplitInput {
	out := make([]calculator.SplitInput, len(in))
	for i, s := range in {
		out[i] = calculator.SplitInput{
			UserID:          s.UserID,
			ShareAmount:     s.ShareAmount,
			SharePercentage: s.SharePercentage,
		}
	}
	return out
}

func toProtoExpense(e *models.Expense) *ledgerv1.Expense {
	splits := make([]ledgerv1.ExpenseSplit, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = ledgerv1.ExpenseSplit{
			UserID:          s.UserID,
			ShareAmount:     s.ShareAmount,
			SharePercentage: s.SharePercentage,
		}
	}
	return &ledgerv1.Expense{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PaidBy:      e.PaidBy,
		Amount:      e.Amount,
		Description: e.Description,
		SplitType:   string(e.SplitType),
		IsPersonal:  e.IsPersonal,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		Splits:      splits,
	}
}

func toProtoSettlement(s *models.Settlement) *ledgerv1.Settlement {
	return &ledgerv1.Settlement{
		ID:         s.ID,
		GroupID:    s.GroupID,
		PayerID:    s.PayerID,
		ReceiverID: s.ReceiverID,
		Amount:     s.Amount,
		Note:       s.Note,
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt,
	}
}

func toProtoEdges(edges []models.DebtEdge) []*ledgerv1.DebtEdge {
	out := make([]*ledgerv1.DebtEdge, len(edges))
	for i, e := range edges {
		out[i] = &ledgerv1.DebtEdge{
			UserFrom:    e.From,
			UserTo:      e.To,
			Amount:      e.Amount,
			LastUpdated: e.LastUpdated.Unix(),
		}
	}
	return out
}

func toProtoTransfers(transfers []models.Transfer) []*ledgerv1.Transfer {
	out := make([]*ledgerv1.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = &ledgerv1.Transfer{FromUser: t.From, ToUser: t.To, Amount: t.Amount}
	}
	return out
}

func toProtoCounterparties(cps []ledger.Counterparty) []*ledgerv1.Counterparty {
	out := make([]*ledgerv1.Counterparty, len(cps))
	for i, c := range cps {
		out[i] = &ledgerv1.Counterparty{UserID: c.UserID, Amount: c.Amount}
	}
	return out
}

func toProtoGroupSummary(s *ledger.GroupSummary) *ledgerv1.GetGroupSummaryResponse {
	members := make([]*ledgerv1.MemberBalance, len(s.Members))
	for i, m := range s.Members {
		members[i] = &ledgerv1.MemberBalance{
			UserID:     m.UserID,
			OwedToUser: m.OwedToUser,
			UserOwes:   m.UserOwes,
			NetBalance: m.NetBalance,
			OwedBy:     toProtoCounterparties(m.OwedBy),
			Owes:       toProtoCounterparties(m.Owes),
		}
	}
	return &ledgerv1.GetGroupSummaryResponse{
		GroupID:         s.GroupID,
		Members:         members,
		SimplifiedDebts: toProtoTransfers(s.Transfers),
	}
}

func toProtoUserSummary(s *ledger.UserSummary) *ledgerv1.GetUserSummaryResponse {
	groups := make([]*ledgerv1.UserGroupBalance, len(s.Groups))
	for i, g := range s.Groups {
		groups[i] = &ledgerv1.UserGroupBalance{
			GroupID:    g.GroupID,
			OwedToUser: g.OwedToUser,
			UserOwes:   g.UserOwes,
			NetBalance: g.NetBalance,
			Transfers:  toProtoTransfers(g.Transfers),
		}
	}
	return &ledgerv1.GetUserSummaryResponse{
		UserID:          s.UserID,
		Groups:          groups,
		TotalOwedToUser: s.TotalOwedToUser,
		TotalUserOwes:   s.TotalUserOwes,
		NetBalance:      s.NetBalance,
	}
}

func toProtoReport(r *reconcile.Report) *ledgerv1.ReconcileGroupResponse {
	discrepancies := make([]*ledgerv1.Discrepancy, len(r.Discrepancies))
	for i, d := range r.Discrepancies {
		discrepancies[i] = &ledgerv1.Discrepancy{
			UserFrom:         d.UserFrom,
			UserTo:           d.UserTo,
			StoredAmount:     d.StoredAmount,
			CalculatedAmount: d.CalculatedAmount,
			Difference:       d.Difference,
			Issue:            string(d.Issue),
		}
	}
	return &ledgerv1.ReconcileGroupResponse{
		GroupID:            r.GroupID,
		DiscrepanciesFound: r.DiscrepanciesFound,
		Discrepancies:      discrepancies,
		Status:             string(r.Status),
		CheckedAt:          r.CheckedAt.Unix(),
	}
}
