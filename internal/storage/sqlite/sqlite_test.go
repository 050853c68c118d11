package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func writeTx(t *testing.T, store *Store, fn func(tx storage.Tx) error) {
	t.Helper()
	if err := store.WriteTx(context.Background(), fn); err != nil {
		t.Fatalf("WriteTx failed: %v", err)
	}
}

func TestDebtEdges(t *testing.T) {
	store := OpenTest(t)
	ctx := context.Background()

	t.Run("PutEdge inserts and overwrites", func(t *testing.T) {
		writeTx(t, store, func(tx storage.Tx) error {
			if err := tx.EnsureGroup(ctx, "g1"); err != nil {
				return err
			}
			if err := tx.PutEdge(ctx, &models.DebtEdge{GroupID: "g1", From: "bob", To: "alice", Amount: dec("10.50")}); err != nil {
				return err
			}
			return tx.PutEdge(ctx, &models.DebtEdge{GroupID: "g1", From: "bob", To: "alice", Amount: dec("12.25")})
		})

		err := store.ReadTx(ctx, func(tx storage.Tx) error {
			edge, err := tx.GetEdge(ctx, "g1", "bob", "alice")
			if err != nil {
				return err
			}
			if edge == nil {
				t.Fatal("expected edge bob->alice")
			}
			if !edge.Amount.Equal(dec("12.25")) {
				t.Errorf("amount = %s, want 12.25", edge.Amount)
			}
			if edge.LastUpdated.IsZero() {
				t.Error("expected LastUpdated to be set")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("ReadTx failed: %v", err)
		}
	})

	t.Run("GetEdge returns nil for missing edge", func(t *testing.T) {
		err := store.ReadTx(ctx, func(tx storage.Tx) error {
			edge, err := tx.GetEdge(ctx, "g1", "alice", "carol")
			if err != nil {
				return err
			}
			if edge != nil {
				t.Errorf("expected no edge, got %+v", edge)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("ReadTx failed: %v", err)
		}
	})

	t.Run("opposing edge is rejected", func(t *testing.T) {
		err := store.WriteTx(ctx, func(tx storage.Tx) error {
			return tx.PutEdge(ctx, &models.DebtEdge{GroupID: "g1", From: "alice", To: "bob", Amount: dec("1")})
		})
		if err == nil {
			t.Fatal("expected opposing edge insert to fail")
		}
	})

	t.Run("self loop and non-positive amounts are rejected", func(t *testing.T) {
		bad := []models.DebtEdge{
			{GroupID: "g1", From: "carol", To: "carol", Amount: dec("5")},
			{GroupID: "g1", From: "carol", To: "dave", Amount: dec("0")},
			{GroupID: "g1", From: "carol", To: "dave", Amount: dec("-3")},
		}
		for _, edge := range bad {
			edge := edge
			err := store.WriteTx(ctx, func(tx storage.Tx) error {
				return tx.PutEdge(ctx, &edge)
			})
			if err == nil {
				t.Errorf("expected %+v to be rejected", edge)
			}
		}
	})

	t.Run("ListEdges orders by from and to", func(t *testing.T) {
		writeTx(t, store, func(tx storage.Tx) error {
			for _, e := range []models.DebtEdge{
				{GroupID: "g1", From: "dave", To: "alice", Amount: dec("3")},
				{GroupID: "g1", From: "carol", To: "bob", Amount: dec("2")},
				{GroupID: "g1", From: "carol", To: "alice", Amount: dec("1")},
			} {
				e := e
				if err := tx.PutEdge(ctx, &e); err != nil {
					return err
				}
			}
			return nil
		})

		var edges []models.DebtEdge
		err := store.ReadTx(ctx, func(tx storage.Tx) error {
			var err error
			edges, err = tx.ListEdges(ctx, "g1")
			return err
		})
		if err != nil {
			t.Fatalf("ListEdges failed: %v", err)
		}

		want := []string{"bob->alice", "carol->alice", "carol->bob", "dave->alice"}
		if len(edges) != len(want) {
			t.Fatalf("got %d edges, want %d", len(edges), len(want))
		}
		for i, e := range edges {
			if got := e.From + "->" + e.To; got != want[i] {
				t.Errorf("edge %d = %s, want %s", i, got, want[i])
			}
		}
	})

	t.Run("DeleteEdge and DeleteGroupEdges", func(t *testing.T) {
		writeTx(t, store, func(tx storage.Tx) error {
			if err := tx.DeleteEdge(ctx, "g1", "dave", "alice"); err != nil {
				return err
			}
			// Deleting twice is fine.
			if err := tx.DeleteEdge(ctx, "g1", "dave", "alice"); err != nil {
				return err
			}
			n, err := tx.DeleteGroupEdges(ctx, "g1")
			if err != nil {
				return err
			}
			if n != 3 {
				t.Errorf("DeleteGroupEdges removed %d rows, want 3", n)
			}
			return nil
		})
	})
}

func TestWriteTx_RollsBackOnError(t *testing.T) {
	store := OpenTest(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WriteTx(ctx, func(tx storage.Tx) error {
		if err := tx.EnsureGroup(ctx, "g"); err != nil {
			return err
		}
		if err := tx.PutEdge(ctx, &models.DebtEdge{GroupID: "g", From: "a", To: "b", Amount: dec("1")}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WriteTx error = %v, want %v", err, boom)
	}

	ids, err := store.ListGroupIDs(ctx)
	if err != nil {
		t.Fatalf("ListGroupIDs failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected rollback, found groups %v", ids)
	}
}

func TestReadTx_IsReadOnly(t *testing.T) {
	store := OpenTest(t)
	ctx := context.Background()

	err := store.ReadTx(ctx, func(tx storage.Tx) error {
		return tx.EnsureGroup(ctx, "g")
	})
	if err == nil {
		t.Fatal("expected write inside ReadTx to fail")
	}
}

func TestWriteTx_ConcurrentWritersSerialize(t *testing.T) {
	store := OpenTest(t)
	ctx := context.Background()

	writeTx(t, store, func(tx storage.Tx) error {
		return tx.EnsureGroup(ctx, "g")
	})

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.WriteTx(ctx, func(tx storage.Tx) error {
				edge, err := tx.GetEdge(ctx, "g", "a", "b")
				if err != nil {
					return err
				}
				amount := decimal.NewFromInt(1)
				if edge != nil {
					amount = amount.Add(edge.Amount)
				}
				return tx.PutEdge(ctx, &models.DebtEdge{GroupID: "g", From: "a", To: "b", Amount: amount})
			})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent WriteTx failed: %v", err)
		}
	}

	err := store.ReadTx(ctx, func(tx storage.Tx) error {
		edge, err := tx.GetEdge(ctx, "g", "a", "b")
		if err != nil {
			return err
		}
		if !edge.Amount.Equal(decimal.NewFromInt(writers)) {
			t.Errorf("amount = %s, want %d (lost update)", edge.Amount, writers)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReadTx failed: %v", err)
	}
}

func TestExpenses(t *testing.T) {
	store := OpenTest(t)
	ctx := context.Background()

	pct := dec("60")
	expense := &models.Expense{
		GroupID:     "trip",
		PaidBy:      "alice",
		Amount:      dec("100"),
		Description: "Dinner",
		SplitType:   models.SplitPercentage,
		CreatedBy:   "alice",
		Splits: []models.ExpenseSplit{
			{UserID: "alice", ShareAmount: dec("60"), SharePercentage: &pct},
			{UserID: "bob", ShareAmount: dec("40")},
		},
	}

	t.Run("CreateExpense generates ID and timestamp", func(t *testing.T) {
		writeTx(t, store, func(tx storage.Tx) error {
			if err := tx.EnsureGroup(ctx, "trip"); err != nil {
				return err
			}
			return tx.CreateExpense(ctx, expense)
		})
		if expense.ID == "" {
			t.Error("expected expense ID to be generated")
		}
		if expense.CreatedAt == 0 {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("GetExpense returns splits in insertion order", func(t *testing.T) {
		err := store.ReadTx(ctx, func(tx storage.Tx) error {
			got, err := tx.GetExpense(ctx, expense.ID)
			if err != nil {
				return err
			}
			if got.Description != "Dinner" || got.SplitType != models.SplitPercentage {
				t.Errorf("unexpected expense %+v", got)
			}
			if !got.Amount.Equal(dec("100")) {
				t.Errorf("amount = %s, want 100", got.Amount)
			}
			if len(got.Splits) != 2 {
				t.Fatalf("got %d splits, want 2", len(got.Splits))
			}
			if got.Splits[0].UserID != "alice" || got.Splits[0].SharePercentage == nil ||
				!got.Splits[0].SharePercentage.Equal(pct) {
				t.Errorf("split 0 = %+v", got.Splits[0])
			}
			if got.Splits[1].SharePercentage != nil {
				t.Errorf("split 1 percentage = %s, want nil", got.Splits[1].SharePercentage)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
	})

	t.Run("ReplaceExpenseSplits swaps split rows", func(t *testing.T) {
		expense.Amount = dec("30")
		expense.SplitType = models.SplitEqual
		expense.Splits = []models.ExpenseSplit{
			{UserID: "alice", ShareAmount: dec("10")},
			{UserID: "bob", ShareAmount: dec("10")},
			{UserID: "carol", ShareAmount: dec("10")},
		}
		writeTx(t, store, func(tx storage.Tx) error {
			return tx.ReplaceExpenseSplits(ctx, expense)
		})

		err := store.ReadTx(ctx, func(tx storage.Tx) error {
			list, err := tx.ListExpensesByGroup(ctx, "trip")
			if err != nil {
				return err
			}
			if len(list) != 1 || len(list[0].Splits) != 3 {
				t.Fatalf("unexpected expenses %+v", list)
			}
			if !list[0].Amount.Equal(dec("30")) {
				t.Errorf("amount = %s, want 30", list[0].Amount)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("ListExpensesByGroup failed: %v", err)
		}
	})

	t.Run("DeleteExpense and missing expense", func(t *testing.T) {
		writeTx(t, store, func(tx storage.Tx) error {
			return tx.DeleteExpense(ctx, expense.ID)
		})

		err := store.WriteTx(ctx, func(tx storage.Tx) error {
			return tx.DeleteExpense(ctx, expense.ID)
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second delete error = %v, want ErrNotFound", err)
		}

		err = store.ReadTx(ctx, func(tx storage.Tx) error {
			_, err := tx.GetExpense(ctx, expense.ID)
			return err
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetExpense error = %v, want ErrNotFound", err)
		}
	})
}

func TestListExpensesPage(t *testing.T) {
	store := OpenTest(t)
	ctx := context.Background()

	// Explicit timestamps fix the newest-first order.
	seed := []*models.Expense{
		{ID: "e1", GroupID: "trip", PaidBy: "alice", CreatedBy: "alice", CreatedAt: 1,
			Splits: []models.ExpenseSplit{{UserID: "alice", ShareAmount: dec("5")}, {UserID: "bob", ShareAmount: dec("5")}}},
		{ID: "e2", GroupID: "trip", PaidBy: "bob", CreatedBy: "carol", CreatedAt: 2,
			Splits: []models.ExpenseSplit{{UserID: "bob", ShareAmount: dec("3")}}},
		{ID: "e3", GroupID: "home", PaidBy: "dave", CreatedBy: "dave", CreatedAt: 3,
			Splits: []models.ExpenseSplit{{UserID: "dave", ShareAmount: dec("1")}, {UserID: "alice", ShareAmount: dec("1")}}},
	}
	writeTx(t, store, func(tx storage.Tx) error {
		for _, e := range seed {
			e.Amount = decimal.Zero
			for _, s := range e.Splits {
				e.Amount = e.Amount.Add(s.ShareAmount)
			}
			e.SplitType = models.SplitExact
			if err := tx.EnsureGroup(ctx, e.GroupID); err != nil {
				return err
			}
			if err := tx.CreateExpense(ctx, e); err != nil {
				return err
			}
		}
		return nil
	})

	ids := func(expenses []*models.Expense) string {
		var out []string
		for _, e := range expenses {
			out = append(out, e.ID)
		}
		return strings.Join(out, ",")
	}

	tests := []struct {
		name      string
		filter    storage.ExpenseFilter
		want      string
		wantTotal int
	}{
		{"no filter", storage.ExpenseFilter{}, "e3,e2,e1", 3},
		{"group", storage.ExpenseFilter{GroupID: "trip"}, "e2,e1", 2},
		{"paid by", storage.ExpenseFilter{PaidBy: "bob"}, "e2", 1},
		{"involves payer or split", storage.ExpenseFilter{InvolvesUser: "alice"}, "e3,e1", 2},
		{"involves ignores creator", storage.ExpenseFilter{InvolvesUser: "carol"}, "", 0},
		{"visible to creator", storage.ExpenseFilter{VisibleTo: "carol"}, "e2", 1},
		{"filters combine", storage.ExpenseFilter{GroupID: "trip", VisibleTo: "alice"}, "e1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := store.ListExpensesPage(ctx, tt.filter, 10, 0)
			if err != nil {
				t.Fatalf("ListExpensesPage failed: %v", err)
			}
			if ids(got) != tt.want || total != tt.wantTotal {
				t.Errorf("got %q (total %d), want %q (total %d)", ids(got), total, tt.want, tt.wantTotal)
			}
		})
	}

	t.Run("page carries splits", func(t *testing.T) {
		got, total, err := store.ListExpensesPage(ctx, storage.ExpenseFilter{}, 2, 1)
		if err != nil {
			t.Fatalf("ListExpensesPage failed: %v", err)
		}
		if ids(got) != "e2,e1" || total != 3 {
			t.Fatalf("got %q (total %d), want e2,e1 (total 3)", ids(got), total)
		}
		if len(got[0].Splits) != 1 || len(got[1].Splits) != 2 || got[1].Splits[1].UserID != "bob" {
			t.Errorf("unexpected splits %+v / %+v", got[0].Splits, got[1].Splits)
		}
	})

	t.Run("past the end", func(t *testing.T) {
		got, total, err := store.ListExpensesPage(ctx, storage.ExpenseFilter{}, 10, 5)
		if err != nil {
			t.Fatalf("ListExpensesPage failed: %v", err)
		}
		if len(got) != 0 || total != 3 {
			t.Errorf("got %d expenses (total %d), want none (total 3)", len(got), total)
		}
	})
}

func TestListGroups(t *testing.T) {
	store := OpenTest(t)
	ctx := context.Background()

	groups, err := store.ListGroups(ctx)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("expected no groups, got %+v", groups)
	}

	writeTx(t, store, func(tx storage.Tx) error {
		for _, id := range []string{"trip", "home"} {
			if err := tx.EnsureGroup(ctx, id); err != nil {
				return err
			}
		}
		return tx.EnsureGroup(ctx, "trip")
	})

	groups, err = store.ListGroups(ctx)
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}
	if len(groups) != 2 || groups[0].ID != "home" || groups[1].ID != "trip" {
		t.Fatalf("groups = %+v, want home and trip", groups)
	}
	for _, g := range groups {
		if g.Name != "" || g.CreatedAt == 0 {
			t.Errorf("group %+v: want empty name and a creation time", g)
		}
	}

	ids, err := store.ListGroupIDs(ctx)
	if err != nil {
		t.Fatalf("ListGroupIDs failed: %v", err)
	}
	if strings.Join(ids, ",") != "home,trip" {
		t.Errorf("ids = %v, want [home trip]", ids)
	}
}

func TestSettlements(t *testing.T) {
	store := OpenTest(t)
	ctx := context.Background()

	base := time.Now().UnixNano()
	var ids []string
	writeTx(t, store, func(tx storage.Tx) error {
		if err := tx.EnsureGroup(ctx, "trip"); err != nil {
			return err
		}
		for i := 0; i < 5; i++ {
			s := &models.Settlement{
				GroupID:    "trip",
				PayerID:    "bob",
				ReceiverID: "alice",
				Amount:     decimal.NewFromInt(int64(i + 1)),
				CreatedBy:  "bob",
				CreatedAt:  base + int64(i),
			}
			if i == 0 {
				s.Note = "first"
			}
			if err := tx.CreateSettlement(ctx, s); err != nil {
				return err
			}
			ids = append(ids, s.ID)
		}
		return nil
	})

	t.Run("GetSettlement", func(t *testing.T) {
		err := store.ReadTx(ctx, func(tx storage.Tx) error {
			s, err := tx.GetSettlement(ctx, ids[0])
			if err != nil {
				return err
			}
			if s.Note != "first" || !s.Amount.Equal(dec("1")) || s.PayerID != "bob" {
				t.Errorf("unexpected settlement %+v", s)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
	})

	t.Run("ListSettlementsByGroup is oldest first", func(t *testing.T) {
		err := store.ReadTx(ctx, func(tx storage.Tx) error {
			list, err := tx.ListSettlementsByGroup(ctx, "trip")
			if err != nil {
				return err
			}
			if len(list) != 5 || list[0].ID != ids[0] || list[4].ID != ids[4] {
				t.Errorf("unexpected order %v", list)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("ListSettlementsByGroup failed: %v", err)
		}
	})

	t.Run("ListSettlementsPage is newest first", func(t *testing.T) {
		page, total, err := store.ListSettlementsPage(ctx, "trip", 2, 1)
		if err != nil {
			t.Fatalf("ListSettlementsPage failed: %v", err)
		}
		if total != 5 {
			t.Errorf("total = %d, want 5", total)
		}
		if len(page) != 2 || page[0].ID != ids[3] || page[1].ID != ids[2] {
			t.Errorf("unexpected page %v", page)
		}
	})

	t.Run("DeleteSettlement", func(t *testing.T) {
		writeTx(t, store, func(tx storage.Tx) error {
			return tx.DeleteSettlement(ctx, ids[0])
		})
		err := store.ReadTx(ctx, func(tx storage.Tx) error {
			_, err := tx.GetSettlement(ctx, ids[0])
			return err
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetSettlement error = %v, want ErrNotFound", err)
		}
	})
}

func TestAuditAndDeleteGroup(t *testing.T) {
	store := OpenTest(t)
	ctx := context.Background()

	writeTx(t, store, func(tx storage.Tx) error {
		if err := tx.EnsureGroup(ctx, "g"); err != nil {
			return err
		}
		if err := tx.PutEdge(ctx, &models.DebtEdge{GroupID: "g", From: "b", To: "a", Amount: dec("5")}); err != nil {
			return err
		}
		return tx.InsertAuditEntry(ctx, &models.AuditEntry{
			GroupID: "g",
			Action:  "rebuild",
			Actor:   "admin",
			Before:  []models.DebtEdge{{GroupID: "g", From: "b", To: "a", Amount: dec("7")}},
			After:   []models.DebtEdge{{GroupID: "g", From: "b", To: "a", Amount: dec("5")}},
		})
	})

	entries, err := store.ListAuditEntries(ctx, "g")
	if err != nil {
		t.Fatalf("ListAuditEntries failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d audit entries, want 1", len(entries))
	}
	if entries[0].Actor != "admin" || len(entries[0].Before) != 1 || !entries[0].Before[0].Amount.Equal(dec("7")) {
		t.Errorf("unexpected audit entry %+v", entries[0])
	}

	if err := store.DeleteGroup(ctx, "g"); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}
	if err := store.DeleteGroup(ctx, "g"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("second DeleteGroup error = %v, want ErrNotFound", err)
	}

	err = store.ReadTx(ctx, func(tx storage.Tx) error {
		edges, err := tx.ListEdges(ctx, "g")
		if err != nil {
			return err
		}
		if len(edges) != 0 {
			t.Errorf("expected cascade to remove edges, got %v", edges)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReadTx failed: %v", err)
	}

	// The audit trail survives the group.
	entries, err = store.ListAuditEntries(ctx, "g")
	if err != nil || len(entries) != 1 {
		t.Errorf("audit entries after delete = %d, %v", len(entries), err)
	}
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		write bool
		want  string
	}{
		{write: true, want: "_txlock=immediate"},
		{write: false, want: "query_only%281%29"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("write=%v", tt.write), func(t *testing.T) {
			dsn := buildDSN("/tmp/x.db", tt.write)
			if !strings.Contains(dsn, tt.want) {
				t.Errorf("dsn %q missing %q", dsn, tt.want)
			}
		})
	}
}

