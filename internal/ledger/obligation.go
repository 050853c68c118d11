package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// ErrInvariantViolation is returned when an edge about to be written would
// break the ledger invariants (self-loop or non-positive amount). It is a
// bug, never a user error, and aborts the enclosing transaction.
var ErrInvariantViolation = errors.New("ledger invariant violation")

// ErrInvalidAmount is returned by a Writer for an amount with sub-cent
// digits. Nothing is written.
var ErrInvalidAmount = errors.New("amount must be a whole number of cents")

// Outcome describes what RecordObligation did to the ledger.
type Outcome string

const (
	OutcomeNoop      Outcome = "noop"      // self-loop or zero amount
	OutcomeCreated   Outcome = "created"   // new debtor→creditor edge
	OutcomeIncreased Outcome = "increased" // existing debtor→creditor edge grew
	OutcomeDecreased Outcome = "decreased" // opposing edge shrank
	OutcomeNetted    Outcome = "netted"    // opposing edge cancelled exactly
	OutcomeFlipped   Outcome = "flipped"   // opposing edge replaced by debtor→creditor
)

// RecordObligation records that debtor owes creditor amount more than before,
// netting against any opposing edge so that at most one direction exists per
// pair. A negative amount is recorded in the other direction.
//
// edges must be scoped to a single transaction; the read-modify-write here is
// only atomic if the caller holds the write lock.
func RecordObligation(ctx context.Context, edges storage.Edges, groupID, debtor, creditor string, amount decimal.Decimal) (Outcome, error) {
	if debtor == creditor || amount.IsZero() {
		return OutcomeNoop, nil
	}
	if amount.IsNegative() {
		debtor, creditor = creditor, debtor
		amount = amount.Neg()
	}

	now := time.Now().UTC()

	existing, err := edges.GetEdge(ctx, groupID, debtor, creditor)
	if err != nil {
		return "", err
	}
	if existing != nil {
		existing.Amount = existing.Amount.Add(amount)
		existing.LastUpdated = now
		return OutcomeIncreased, putEdge(ctx, edges, existing)
	}

	opposing, err := edges.GetEdge(ctx, groupID, creditor, debtor)
	if err != nil {
		return "", err
	}
	if opposing == nil {
		return OutcomeCreated, putEdge(ctx, edges, &models.DebtEdge{
			GroupID:     groupID,
			From:        debtor,
			To:          creditor,
			Amount:      amount,
			LastUpdated: now,
		})
	}

	diff := opposing.Amount.Sub(amount)
	switch {
	case calculator.IsZeroCents(diff):
		return OutcomeNetted, edges.DeleteEdge(ctx, groupID, creditor, debtor)

	case diff.IsPositive():
		opposing.Amount = diff
		opposing.LastUpdated = now
		return OutcomeDecreased, putEdge(ctx, edges, opposing)

	default:
		if err := edges.DeleteEdge(ctx, groupID, creditor, debtor); err != nil {
			return "", err
		}
		return OutcomeFlipped, putEdge(ctx, edges, &models.DebtEdge{
			GroupID:     groupID,
			From:        debtor,
			To:          creditor,
			Amount:      diff.Neg(),
			LastUpdated: now,
		})
	}
}

// putEdge re-checks the row invariants before writing.
func putEdge(ctx context.Context, edges storage.Edges, edge *models.DebtEdge) error {
	if edge.From == edge.To {
		return fmt.Errorf("%w: self-loop on %s in group %s", ErrInvariantViolation, edge.From, edge.GroupID)
	}
	if !edge.Amount.IsPositive() {
		return fmt.Errorf("%w: amount %s for %s->%s in group %s",
			ErrInvariantViolation, edge.Amount, edge.From, edge.To, edge.GroupID)
	}
	return edges.PutEdge(ctx, edge)
}
