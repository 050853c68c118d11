package ledger

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Counterparty is one side of a member's open debts.
type Counterparty struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// MemberSummary is a member's position in one group.
type MemberSummary struct {
	calculator.MemberBalance

	// OwedBy lists who owes this member, largest first.
	OwedBy []Counterparty `json:"owed_by"`
	// Owes lists whom this member owes, largest first.
	Owes []Counterparty `json:"owes"`
}

// GroupSummary is the debt picture of one group.
type GroupSummary struct {
	GroupID   string            `json:"group_id"`
	Members   []MemberSummary   `json:"members"`
	Transfers []models.Transfer `json:"simplified_debts"`
}

// UserGroupSummary is one user's position in one group.
type UserGroupSummary struct {
	GroupID    string            `json:"group_id"`
	OwedToUser decimal.Decimal   `json:"owed_to_user"`
	UserOwes   decimal.Decimal   `json:"user_owes"`
	NetBalance decimal.Decimal   `json:"net_balance"`
	Transfers  []models.Transfer `json:"transfers"`
}

// UserSummary is one user's position across groups.
type UserSummary struct {
	UserID          string             `json:"user_id"`
	Groups          []UserGroupSummary `json:"groups"`
	TotalOwedToUser decimal.Decimal    `json:"total_owed_to_user"`
	TotalUserOwes   decimal.Decimal    `json:"total_user_owes"`
	NetBalance      decimal.Decimal    `json:"net_balance"`
}

// GroupLedger returns the live edges of a group ordered by (From, To).
func (l *Ledger) GroupLedger(ctx context.Context, groupID string) ([]models.DebtEdge, error) {
	var edges []models.DebtEdge
	err := l.store.ReadTx(ctx, func(tx storage.Tx) error {
		var err error
		edges, err = tx.ListEdges(ctx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return edges, nil
}

// Simplify returns a short list of payments that would settle the group.
// It never modifies the ledger.
func (l *Ledger) Simplify(ctx context.Context, groupID string) ([]models.Transfer, error) {
	edges, err := l.GroupLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return calculator.SimplifyDebts(calculator.NetBalances(edges)), nil
}

// GroupSummary reports each member's totals, who owes whom, and the
// simplified transfers, all from one snapshot.
func (l *Ledger) GroupSummary(ctx context.Context, groupID string) (*GroupSummary, error) {
	edges, err := l.GroupLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return summarizeGroup(groupID, edges), nil
}

func summarizeGroup(groupID string, edges []models.DebtEdge) *GroupSummary {
	owedBy := make(map[string][]Counterparty)
	owes := make(map[string][]Counterparty)
	for _, e := range edges {
		owedBy[e.To] = append(owedBy[e.To], Counterparty{UserID: e.From, Amount: e.Amount})
		owes[e.From] = append(owes[e.From], Counterparty{UserID: e.To, Amount: e.Amount})
	}

	balances := calculator.MemberBalances(edges)
	members := make([]MemberSummary, len(balances))
	for i, b := range balances {
		members[i] = MemberSummary{
			MemberBalance: b,
			OwedBy:        largestFirst(owedBy[b.UserID]),
			Owes:          largestFirst(owes[b.UserID]),
		}
	}

	return &GroupSummary{
		GroupID:   groupID,
		Members:   members,
		Transfers: calculator.SimplifyDebts(calculator.NetBalances(edges)),
	}
}

func largestFirst(cps []Counterparty) []Counterparty {
	sort.SliceStable(cps, func(i, j int) bool {
		if !cps[i].Amount.Equal(cps[j].Amount) {
			return cps[i].Amount.GreaterThan(cps[j].Amount)
		}
		return cps[i].UserID < cps[j].UserID
	})
	return cps
}

// UserSummary reports userID's position in each of groupIDs, read from one
// snapshot so that the totals are consistent with each other.
func (l *Ledger) UserSummary(ctx context.Context, userID string, groupIDs []string) (*UserSummary, error) {
	summary := &UserSummary{UserID: userID}

	err := l.store.ReadTx(ctx, func(tx storage.Tx) error {
		for _, groupID := range groupIDs {
			edges, err := tx.ListEdges(ctx, groupID)
			if err != nil {
				return err
			}

			g := UserGroupSummary{GroupID: groupID}
			for _, e := range edges {
				switch userID {
				case e.To:
					g.OwedToUser = g.OwedToUser.Add(e.Amount)
				case e.From:
					g.UserOwes = g.UserOwes.Add(e.Amount)
				}
			}
			g.NetBalance = g.OwedToUser.Sub(g.UserOwes)

			for _, t := range calculator.SimplifyDebts(calculator.NetBalances(edges)) {
				if t.From == userID || t.To == userID {
					g.Transfers = append(g.Transfers, t)
				}
			}

			summary.Groups = append(summary.Groups, g)
			summary.TotalOwedToUser = summary.TotalOwedToUser.Add(g.OwedToUser)
			summary.TotalUserOwes = summary.TotalUserOwes.Add(g.UserOwes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary.NetBalance = summary.TotalOwedToUser.Sub(summary.TotalUserOwes)
	return summary, nil
}
