package ledger

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(sqlite.OpenTest(t))
}

func shares(pairs ...string) []models.Share {
	out := make([]models.Share, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.Share{UserID: pairs[i], Amount: dec(pairs[i+1])})
	}
	return out
}

func edgeStrings(edges []models.DebtEdge) []string {
	var out []string
	for _, e := range edges {
		out = append(out, fmt.Sprintf("%s->%s %s", e.From, e.To, e.Amount.StringFixed(2)))
	}
	return out
}

func TestLedger_ExpenseSplitThreeWays(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.ApplyExpenseObligations(ctx, "trip", "A", shares("A", "50", "B", "50", "C", "50")))

	edges, err := l.GroupLedger(ctx, "trip")
	require.NoError(t, err)
	assert.Equal(t, []string{"B->A 50.00", "C->A 50.00"}, edgeStrings(edges))
}

func TestLedger_SettlementClearsDebt(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.ApplyExpenseObligations(ctx, "trip", "A", shares("A", "50", "B", "50", "C", "50")))
	require.NoError(t, l.ApplySettlement(ctx, "trip", "B", "A", dec("50")))

	edges, err := l.GroupLedger(ctx, "trip")
	require.NoError(t, err)
	assert.Equal(t, []string{"C->A 50.00"}, edgeStrings(edges))

	// Deleting the settlement brings the debt back.
	require.NoError(t, l.ReverseSettlement(ctx, "trip", "B", "A", dec("50")))
	edges, err = l.GroupLedger(ctx, "trip")
	require.NoError(t, err)
	assert.Equal(t, []string{"B->A 50.00", "C->A 50.00"}, edgeStrings(edges))
}

func TestLedger_OverpaymentFlipsEdge(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.ApplyExpenseObligations(ctx, "g", "E", shares("D", "30")))
	require.NoError(t, l.ApplyExpenseObligations(ctx, "g", "D", shares("E", "50")))

	edges, err := l.GroupLedger(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, []string{"E->D 20.00"}, edgeStrings(edges))
}

func TestLedger_ReverseExpenseRestoresLedger(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.ApplyExpenseObligations(ctx, "g", "A", shares("B", "12.34", "C", "7")))
	before, err := l.GroupLedger(ctx, "g")
	require.NoError(t, err)

	s := shares("A", "10", "B", "25.50", "C", "4.50")
	require.NoError(t, l.ApplyExpenseObligations(ctx, "g", "C", s))
	require.NoError(t, l.ReverseExpenseObligations(ctx, "g", "C", s))

	after, err := l.GroupLedger(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, edgeStrings(before), edgeStrings(after))
}

func TestLedger_WriterSharesCallerTransaction(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	err := l.Store().WriteTx(ctx, func(tx storage.Tx) error {
		if err := l.With(tx).ApplyExpenseObligations(ctx, "g", "A", shares("B", "10")); err != nil {
			return err
		}
		return fmt.Errorf("collaborator failed")
	})
	require.Error(t, err)

	edges, err := l.GroupLedger(ctx, "g")
	require.NoError(t, err)
	assert.Empty(t, edges, "obligations must roll back with the caller's transaction")
}

func TestLedger_RejectsSubCentAmounts(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.ApplySettlement(ctx, "g", "A", "B", dec("5")))

	err := l.ApplySettlement(ctx, "g", "A", "B", dec("10.004"))
	require.ErrorIs(t, err, ErrInvalidAmount)

	err = l.ApplyExpenseObligations(ctx, "g", "A", shares("B", "3", "C", "0.001"))
	require.ErrorIs(t, err, ErrInvalidAmount)

	edges, err := l.GroupLedger(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, []string{"B->A 5.00"}, edgeStrings(edges), "a rejected amount must leave the ledger unchanged")
}

func TestLedger_DeleteGroupKeepsAuditTrail(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	require.NoError(t, l.ApplyExpenseObligations(ctx, "trip", "A", shares("B", "20", "C", "5")))
	require.NoError(t, l.ApplyExpenseObligations(ctx, "home", "A", shares("B", "7")))

	entry, err := l.DeleteGroup(ctx, "trip", "ops")
	require.NoError(t, err)
	assert.Equal(t, ActionDeleteGroup, entry.Action)
	assert.Equal(t, []string{"B->A 20.00", "C->A 5.00"}, edgeStrings(entry.Before))

	edges, err := l.GroupLedger(ctx, "trip")
	require.NoError(t, err)
	assert.Empty(t, edges)

	edges, err = l.GroupLedger(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, []string{"B->A 7.00"}, edgeStrings(edges), "other groups are untouched")

	entries, err := l.Store().ListAuditEntries(ctx, "trip")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ops", entries[0].Actor)
	assert.Equal(t, entry.ID, entries[0].ID)

	_, err = l.DeleteGroup(ctx, "trip", "ops")
	require.ErrorIs(t, err, storage.ErrNotFound)

	entries, err = l.Store().ListAuditEntries(ctx, "trip")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "a failed delete writes no audit entry")
}

func TestLedger_SimplifyAndSummaries(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()

	// A is owed 90; B owes 40; C owes 50.
	require.NoError(t, l.ApplyExpenseObligations(ctx, "g", "A", shares("B", "40", "C", "50")))

	transfers, err := l.Simplify(ctx, "g")
	require.NoError(t, err)
	require.Len(t, transfers, 2)
	assert.Equal(t, "C", transfers[0].From)
	assert.True(t, transfers[0].Amount.Equal(dec("50")))
	assert.Equal(t, "B", transfers[1].From)
	assert.True(t, transfers[1].Amount.Equal(dec("40")))

	summary, err := l.GroupSummary(ctx, "g")
	require.NoError(t, err)
	require.Len(t, summary.Members, 3)
	a := summary.Members[0]
	assert.Equal(t, "A", a.UserID)
	assert.True(t, a.NetBalance.Equal(dec("90")))
	require.Len(t, a.OwedBy, 2)
	assert.Equal(t, "C", a.OwedBy[0].UserID, "largest debtor first")
	assert.Len(t, summary.Transfers, 2)

	require.NoError(t, l.ApplyExpenseObligations(ctx, "h", "B", shares("A", "15")))
	user, err := l.UserSummary(ctx, "A", []string{"g", "h"})
	require.NoError(t, err)
	require.Len(t, user.Groups, 2)
	assert.True(t, user.TotalOwedToUser.Equal(dec("90")))
	assert.True(t, user.TotalUserOwes.Equal(dec("15")))
	assert.True(t, user.NetBalance.Equal(dec("75")))
	assert.Len(t, user.Groups[0].Transfers, 2)
	assert.Len(t, user.Groups[1].Transfers, 1)
}

// event is one randomly generated ledger mutation.
type event struct {
	payer  string
	shares []models.Share
}

func randomEvents(rng *rand.Rand, users []string, n int) []event {
	events := make([]event, n)
	for i := range events {
		e := event{payer: users[rng.Intn(len(users))]}
		for _, u := range users {
			if rng.Intn(2) == 0 {
				e.shares = append(e.shares, models.Share{
					UserID: u,
					Amount: decimal.New(rng.Int63n(10000)+1, -2),
				})
			}
		}
		events[i] = e
	}
	return events
}

func TestLedger_Properties(t *testing.T) {
	l := newTestLedger(t)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	users := []string{"ann", "ben", "cat", "dan", "eve"}

	expected := make(map[string]decimal.Decimal)
	events := randomEvents(rng, users, 60)
	for _, e := range events {
		require.NoError(t, l.ApplyExpenseObligations(ctx, "g", e.payer, e.shares))
		for _, s := range e.shares {
			if s.UserID == e.payer {
				continue
			}
			expected[e.payer] = expected[e.payer].Add(s.Amount)
			expected[s.UserID] = expected[s.UserID].Sub(s.Amount)
		}
	}

	edges, err := l.GroupLedger(ctx, "g")
	require.NoError(t, err)

	t.Run("no opposing edges and amounts positive", func(t *testing.T) {
		seen := make(map[models.Pair]bool)
		for _, e := range edges {
			assert.True(t, e.Amount.IsPositive(), "edge %s->%s = %s", e.From, e.To, e.Amount)
			assert.NotEqual(t, e.From, e.To)
			assert.False(t, seen[e.Key().Reverse()], "opposing edges for %s/%s", e.From, e.To)
			seen[e.Key()] = true
		}
	})

	t.Run("net balances are conserved", func(t *testing.T) {
		got := calculator.NetBalances(edges)
		total := decimal.Zero
		for _, u := range users {
			assert.True(t, got[u].Equal(expected[u]), "%s = %s, want %s", u, got[u], expected[u])
			total = total.Add(got[u])
		}
		assert.True(t, total.IsZero())
	})

	t.Run("reversing everything empties the ledger", func(t *testing.T) {
		for i := len(events) - 1; i >= 0; i-- {
			require.NoError(t, l.ReverseExpenseObligations(ctx, "g", events[i].payer, events[i].shares))
		}
		edges, err := l.GroupLedger(ctx, "g")
		require.NoError(t, err)
		assert.Empty(t, edges)
	})

	t.Run("memory and sqlite replay agree", func(t *testing.T) {
		mem := NewMemoryEdges()
		for _, e := range events {
			require.NoError(t, l.ApplyExpenseObligations(ctx, "g2", e.payer, e.shares))
			for _, s := range e.shares {
				_, err := RecordObligation(ctx, mem, "g2", s.UserID, e.payer, s.Amount)
				require.NoError(t, err)
			}
		}
		stored, err := l.GroupLedger(ctx, "g2")
		require.NoError(t, err)
		replayed, err := mem.ListEdges(ctx, "g2")
		require.NoError(t, err)
		assert.Equal(t, edgeStrings(replayed), edgeStrings(stored))
	})
}
