// Package reconcile checks a group's live ledger against the ledger implied
// by its expense and settlement history, and can rebuild it from that history.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Issue classifies a discrepancy.
type Issue string

const (
	IssueMismatch Issue = "mismatch"             // both present, amounts differ
	IssueMissing  Issue = "missing_debt_balance" // history implies a debt the ledger lacks
	IssueExtra    Issue = "extra_debt_balance"   // ledger holds a debt history does not explain
)

// Status is the overall result of a reconciliation.
type Status string

const (
	StatusOK       Status = "ok"
	StatusMismatch Status = "mismatch"
)

// ActionRebuild is the audit action recorded by Rebuild.
const ActionRebuild = "rebuild"

// Discrepancy is one pair whose live edge disagrees with history.
type Discrepancy struct {
	UserFrom         string          `json:"user_from"`
	UserTo           string          `json:"user_to"`
	StoredAmount     decimal.Decimal `json:"stored_amount"`
	CalculatedAmount decimal.Decimal `json:"calculated_amount"`
	Difference       decimal.Decimal `json:"difference"` // CalculatedAmount - StoredAmount
	Issue            Issue           `json:"issue"`
}

// Report is the outcome of Reconcile. A mismatch is data, not an error.
type Report struct {
	GroupID            string        `json:"group_id"`
	DiscrepanciesFound int           `json:"discrepancies_found"`
	Discrepancies      []Discrepancy `json:"discrepancies"`
	Status             Status        `json:"status"`
	CheckedAt          time.Time     `json:"checked_at"`
}

// RebuildResult summarizes a Rebuild.
type RebuildResult struct {
	GroupID     string            `json:"group_id"`
	AuditID     string            `json:"audit_id"`
	EdgesBefore int               `json:"edges_before"`
	EdgesAfter  int               `json:"edges_after"`
	Before      []models.DebtEdge `json:"before"`
	After       []models.DebtEdge `json:"after"`
	RebuiltAt   time.Time         `json:"rebuilt_at"`
	RebuiltBy   string            `json:"rebuilt_by"`
}

// Engine runs reconciliations and rebuilds.
type Engine struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMetrics sets the collector for run and discrepancy counts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New creates an Engine on top of store.
func New(store storage.Store, opts ...Option) *Engine {
	e := &Engine{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// replayEvent is an expense or settlement positioned on the group timeline.
type replayEvent struct {
	at    int64
	id    string
	apply func(ctx context.Context, edges storage.Edges) error
}

// Recompute replays the group's non-personal expenses and its settlements,
// oldest first, through the obligation primitive on an in-memory edge set
// and returns the resulting edges ordered by (From, To).
func Recompute(ctx context.Context, tx storage.Tx, groupID string) ([]models.DebtEdge, error) {
	expenses, err := tx.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	settlements, err := tx.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}

	events := make([]replayEvent, 0, len(expenses)+len(settlements))
	for _, exp := range expenses {
		if exp.IsPersonal {
			continue
		}
		exp := exp
		events = append(events, replayEvent{
			at: exp.CreatedAt,
			id: exp.ID,
			apply: func(ctx context.Context, edges storage.Edges) error {
				for _, split := range exp.Splits {
					if split.UserID == exp.PaidBy {
						continue
					}
					if _, err := ledger.RecordObligation(ctx, edges, groupID, split.UserID, exp.PaidBy, split.ShareAmount); err != nil {
						return fmt.Errorf("replay expense %s: %w", exp.ID, err)
					}
				}
				return nil
			},
		})
	}
	for _, s := range settlements {
		s := s
		events = append(events, replayEvent{
			at: s.CreatedAt,
			id: s.ID,
			apply: func(ctx context.Context, edges storage.Edges) error {
				if _, err := ledger.RecordObligation(ctx, edges, groupID, s.ReceiverID, s.PayerID, s.Amount); err != nil {
					return fmt.Errorf("replay settlement %s: %w", s.ID, err)
				}
				return nil
			},
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].at != events[j].at {
			return events[i].at < events[j].at
		}
		return events[i].id < events[j].id
	})

	mem := ledger.NewMemoryEdges()
	for _, ev := range events {
		if err := ev.apply(ctx, mem); err != nil {
			return nil, err
		}
	}
	return mem.ListEdges(ctx, groupID)
}

// Reconcile compares the live ledger of a group with the ledger its history
// implies. Both sides are read from one snapshot.
func (e *Engine) Reconcile(ctx context.Context, groupID string) (*Report, error) {
	var stored, calculated []models.DebtEdge
	err := e.store.ReadTx(ctx, func(tx storage.Tx) error {
		var err error
		if stored, err = tx.ListEdges(ctx, groupID); err != nil {
			return fmt.Errorf("list edges: %w", err)
		}
		calculated, err = Recompute(ctx, tx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}

	report := &Report{
		GroupID:       groupID,
		Discrepancies: Diff(stored, calculated),
		Status:        StatusOK,
		CheckedAt:     time.Now().UTC(),
	}
	report.DiscrepanciesFound = len(report.Discrepancies)

	issues := make([]string, 0, len(report.Discrepancies))
	for _, d := range report.Discrepancies {
		issues = append(issues, string(d.Issue))
	}
	if report.DiscrepanciesFound > 0 {
		report.Status = StatusMismatch
		e.logger.WarnContext(ctx, "Ledger does not match history",
			"group_id", groupID,
			"discrepancies", report.DiscrepanciesFound,
		)
	}
	e.metrics.ReconcileFinished(string(report.Status), issues)

	return report, nil
}

// Diff lists the pairs where stored and calculated edges disagree by more
// than one cent, ordered by (UserFrom, UserTo).
func Diff(stored, calculated []models.DebtEdge) []Discrepancy {
	storedBy := make(map[models.Pair]decimal.Decimal, len(stored))
	for _, e := range stored {
		storedBy[e.Key()] = e.Amount
	}
	calcBy := make(map[models.Pair]decimal.Decimal, len(calculated))
	for _, e := range calculated {
		calcBy[e.Key()] = e.Amount
	}

	var out []Discrepancy
	for pair, calc := range calcBy {
		st, ok := storedBy[pair]
		switch {
		case ok && !calculator.WithinTolerance(st, calc):
			out = append(out, newDiscrepancy(pair, st, calc, IssueMismatch))
		case !ok && calc.GreaterThan(calculator.Epsilon):
			out = append(out, newDiscrepancy(pair, decimal.Zero, calc, IssueMissing))
		}
	}
	for pair, st := range storedBy {
		if _, ok := calcBy[pair]; !ok && st.GreaterThan(calculator.Epsilon) {
			out = append(out, newDiscrepancy(pair, st, decimal.Zero, IssueExtra))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UserFrom != out[j].UserFrom {
			return out[i].UserFrom < out[j].UserFrom
		}
		return out[i].UserTo < out[j].UserTo
	})
	return out
}

func newDiscrepancy(pair models.Pair, stored, calculated decimal.Decimal, issue Issue) Discrepancy {
	return Discrepancy{
		UserFrom:         pair.From,
		UserTo:           pair.To,
		StoredAmount:     stored,
		CalculatedAmount: calculated,
		Difference:       calculated.Sub(stored),
		Issue:            issue,
	}
}

// Rebuild replaces the live ledger of a group with the ledger its history
// implies and records an audit entry with both snapshots. It is destructive
// and must only run on explicit operator request.
func (e *Engine) Rebuild(ctx context.Context, groupID, actor string) (*RebuildResult, error) {
	if actor == "" {
		return nil, fmt.Errorf("rebuild of group %s requires an actor", groupID)
	}

	var result *RebuildResult
	err := e.store.WriteTx(ctx, func(tx storage.Tx) error {
		before, err := tx.ListEdges(ctx, groupID)
		if err != nil {
			return fmt.Errorf("snapshot before: %w", err)
		}
		calculated, err := Recompute(ctx, tx, groupID)
		if err != nil {
			return err
		}

		if _, err := tx.DeleteGroupEdges(ctx, groupID); err != nil {
			return err
		}
		if len(calculated) > 0 {
			if err := tx.EnsureGroup(ctx, groupID); err != nil {
				return err
			}
		}
		now := time.Now().UTC()
		for i := range calculated {
			calculated[i].LastUpdated = now
			if err := tx.PutEdge(ctx, &calculated[i]); err != nil {
				return fmt.Errorf("write rebuilt edge: %w", err)
			}
		}

		after, err := tx.ListEdges(ctx, groupID)
		if err != nil {
			return fmt.Errorf("snapshot after: %w", err)
		}

		entry := &models.AuditEntry{
			GroupID: groupID,
			Action:  ActionRebuild,
			Actor:   actor,
			Before:  before,
			After:   after,
		}
		if err := tx.InsertAuditEntry(ctx, entry); err != nil {
			return err
		}

		result = &RebuildResult{
			GroupID:     groupID,
			AuditID:     entry.ID,
			EdgesBefore: len(before),
			EdgesAfter:  len(after),
			Before:      before,
			After:       after,
			RebuiltAt:   now,
			RebuiltBy:   actor,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.metrics.RebuildFinished()
	e.logger.WarnContext(ctx, "Group ledger rebuilt from history",
		"group_id", groupID,
		"actor", actor,
		"audit_id", result.AuditID,
		"edges_before", result.EdgesBefore,
		"edges_after", result.EdgesAfter,
	)
	return result, nil
}
