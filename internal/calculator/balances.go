package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	UserID     string          `json:"user_id"`
	OwedToUser decimal.Decimal `json:"total_owed_to_user"` // sum of edges where the user is creditor
	UserOwes   decimal.Decimal `json:"total_user_owes"`    // sum of edges where the user is debtor
	NetBalance decimal.Decimal `json:"net_balance"`        // Positive = owed money, Negative = owes money
}

// NetBalances computes each user's net position from a group's debt edges:
// the sum owed to them minus the sum they owe. The balances of a group
// always add up to zero.
func NetBalances(edges []models.DebtEdge) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, e := range edges {
		balances[e.To] = balances[e.To].Add(e.Amount)
		balances[e.From] = balances[e.From].Sub(e.Amount)
	}
	return balances
}

// MemberBalances breaks NetBalances down per member, ordered by user ID.
func MemberBalances(edges []models.DebtEdge) []MemberBalance {
	byUser := make(map[string]*MemberBalance)
	get := func(id string) *MemberBalance {
		b, ok := byUser[id]
		if !ok {
			b = &MemberBalance{UserID: id}
			byUser[id] = b
		}
		return b
	}

	for _, e := range edges {
		get(e.To).OwedToUser = get(e.To).OwedToUser.Add(e.Amount)
		get(e.From).UserOwes = get(e.From).UserOwes.Add(e.Amount)
	}

	out := make([]MemberBalance, 0, len(byUser))
	for _, b := range byUser {
		b.NetBalance = b.OwedToUser.Sub(b.UserOwes)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

type party struct {
	id        string
	remaining decimal.Decimal
}

// SimplifyDebts reduces net balances to a short list of payments.
//
// Algorithm:
//   - Creditors have balance > Epsilon, debtors < -Epsilon; everyone else is settled.
//   - Both lists are sorted largest first, ties broken by user ID.
//   - The largest debtor pays the largest creditor min(owed, due); whoever
//     reaches (about) zero is skipped, and matching repeats until a list is empty.
//
// The result is not guaranteed to be the global minimum, but it has at most
// one fewer transfer than the number of unsettled members.
func SimplifyDebts(balances map[string]decimal.Decimal) []models.Transfer {
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var creditors, debtors []party
	negEpsilon := Epsilon.Neg()
	for _, id := range ids {
		bal := balances[id]
		switch {
		case bal.GreaterThan(Epsilon):
			creditors = append(creditors, party{id: id, remaining: bal})
		case bal.LessThan(negEpsilon):
			debtors = append(debtors, party{id: id, remaining: bal.Neg()})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].remaining.GreaterThan(creditors[j].remaining)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].remaining.GreaterThan(debtors[j].remaining)
	})

	var transfers []models.Transfer
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		c, d := &creditors[i], &debtors[j]

		settle := decimal.Min(c.remaining, d.remaining)
		if settle.GreaterThan(Epsilon) {
			transfers = append(transfers, models.Transfer{
				From:   d.id,
				To:     c.id,
				Amount: RoundCents(settle),
			})
		}

		c.remaining = c.remaining.Sub(settle)
		d.remaining = d.remaining.Sub(settle)

		if c.remaining.LessThanOrEqual(Epsilon) {
			i++
		}
		if d.remaining.LessThanOrEqual(Epsilon) {
			j++
		}
	}

	return transfers
}
