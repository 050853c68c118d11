// Package ledger maintains the per-group debt graph. Every change flows
// through RecordObligation, which keeps at most one edge per pair of users.
package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ledger applies obligations and answers read queries against a store.
type Ledger struct {
	store   storage.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for mutation debug lines.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithMetrics sets the collector that counts obligation outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// New creates a Ledger on top of store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Store returns the underlying store.
func (l *Ledger) Store() storage.Store {
	return l.store
}

// Writer applies obligations inside a transaction owned by the caller, so
// that an event row and its ledger effects commit together.
type Writer struct {
	ledger *Ledger
	tx     storage.Tx
}

// With binds the ledger's mutating operations to tx.
func (l *Ledger) With(tx storage.Tx) *Writer {
	return &Writer{ledger: l, tx: tx}
}

// ApplyExpenseObligations records that every participant other than payer
// owes payer their share.
func (w *Writer) ApplyExpenseObligations(ctx context.Context, groupID, payer string, shares []models.Share) error {
	if err := w.tx.EnsureGroup(ctx, groupID); err != nil {
		return err
	}
	for _, s := range shares {
		if s.UserID == payer {
			continue
		}
		if err := w.record(ctx, groupID, s.UserID, payer, s.Amount); err != nil {
			return fmt.Errorf("apply expense share of %s: %w", s.UserID, err)
		}
	}
	return nil
}

// ReverseExpenseObligations undoes ApplyExpenseObligations for the same shares.
func (w *Writer) ReverseExpenseObligations(ctx context.Context, groupID, payer string, shares []models.Share) error {
	if err := w.tx.EnsureGroup(ctx, groupID); err != nil {
		return err
	}
	for _, s := range shares {
		if s.UserID == payer {
			continue
		}
		if err := w.record(ctx, groupID, payer, s.UserID, s.Amount); err != nil {
			return fmt.Errorf("reverse expense share of %s: %w", s.UserID, err)
		}
	}
	return nil
}

// ApplySettlement records that payer paid receiver amount. The receiver now
// owes the payer, which nets against any debt the payer had.
func (w *Writer) ApplySettlement(ctx context.Context, groupID, payer, receiver string, amount decimal.Decimal) error {
	if err := w.tx.EnsureGroup(ctx, groupID); err != nil {
		return err
	}
	if err := w.record(ctx, groupID, receiver, payer, amount); err != nil {
		return fmt.Errorf("apply settlement %s->%s: %w", payer, receiver, err)
	}
	return nil
}

// ReverseSettlement undoes ApplySettlement.
func (w *Writer) ReverseSettlement(ctx context.Context, groupID, payer, receiver string, amount decimal.Decimal) error {
	if err := w.tx.EnsureGroup(ctx, groupID); err != nil {
		return err
	}
	if err := w.record(ctx, groupID, payer, receiver, amount); err != nil {
		return fmt.Errorf("reverse settlement %s->%s: %w", payer, receiver, err)
	}
	return nil
}

func (w *Writer) record(ctx context.Context, groupID, debtor, creditor string, amount decimal.Decimal) error {
	if !calculator.IsWholeCents(amount) {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}
	outcome, err := RecordObligation(ctx, w.tx, groupID, debtor, creditor, amount)
	if err != nil {
		return err
	}
	w.ledger.metrics.ObligationRecorded(string(outcome))
	w.ledger.logger.DebugContext(ctx, "Obligation recorded",
		"group_id", groupID,
		"debtor", debtor,
		"creditor", creditor,
		"amount", amount.String(),
		"outcome", outcome,
	)
	return nil
}

// ApplyExpenseObligations runs Writer.ApplyExpenseObligations in its own transaction.
func (l *Ledger) ApplyExpenseObligations(ctx context.Context, groupID, payer string, shares []models.Share) error {
	return l.store.WriteTx(ctx, func(tx storage.Tx) error {
		return l.With(tx).ApplyExpenseObligations(ctx, groupID, payer, shares)
	})
}

// ReverseExpenseObligations runs Writer.ReverseExpenseObligations in its own transaction.
func (l *Ledger) ReverseExpenseObligations(ctx context.Context, groupID, payer string, shares []models.Share) error {
	return l.store.WriteTx(ctx, func(tx storage.Tx) error {
		return l.With(tx).ReverseExpenseObligations(ctx, groupID, payer, shares)
	})
}

// ApplySettlement runs Writer.ApplySettlement in its own transaction.
func (l *Ledger) ApplySettlement(ctx context.Context, groupID, payer, receiver string, amount decimal.Decimal) error {
	return l.store.WriteTx(ctx, func(tx storage.Tx) error {
		return l.With(tx).ApplySettlement(ctx, groupID, payer, receiver, amount)
	})
}

// ReverseSettlement runs Writer.ReverseSettlement in its own transaction.
func (l *Ledger) ReverseSettlement(ctx context.Context, groupID, payer, receiver string, amount decimal.Decimal) error {
	return l.store.WriteTx(ctx, func(tx storage.Tx) error {
		return l.With(tx).ReverseSettlement(ctx, groupID, payer, receiver, amount)
	})
}
