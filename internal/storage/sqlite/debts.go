package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
)

// GetEdge returns the edge from→to, or nil when none exists.
func (t *sqlTx) GetEdge(ctx context.Context, groupID, from, to string) (*models.DebtEdge, error) {
	edge := &models.DebtEdge{GroupID: groupID, From: from, To: to}
	var updated int64

	err := t.tx.QueryRowContext(ctx,
		`SELECT amount, last_updated FROM debt_edges
		 WHERE group_id = ? AND user_from = ? AND user_to = ?`,
		groupID, from, to,
	).Scan(&edge.Amount, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt edge: %w", err)
	}

	edge.LastUpdated = time.Unix(0, updated).UTC()
	return edge, nil
}

// PutEdge inserts the edge or overwrites the amount of an existing one.
func (t *sqlTx) PutEdge(ctx context.Context, edge *models.DebtEdge) error {
	if edge.LastUpdated.IsZero() {
		edge.LastUpdated = time.Now().UTC()
	}

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO debt_edges (group_id, user_from, user_to, amount, last_updated)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (group_id, user_from, user_to)
		 DO UPDATE SET amount = excluded.amount, last_updated = excluded.last_updated`,
		edge.GroupID, edge.From, edge.To, edge.Amount.String(), edge.LastUpdated.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to put debt edge: %w", err)
	}
	return nil
}

// DeleteEdge removes the edge from→to if it exists.
func (t *sqlTx) DeleteEdge(ctx context.Context, groupID, from, to string) error {
	_, err := t.tx.ExecContext(ctx,
		"DELETE FROM debt_edges WHERE group_id = ? AND user_from = ? AND user_to = ?",
		groupID, from, to,
	)
	if err != nil {
		return fmt.Errorf("failed to delete debt edge: %w", err)
	}
	return nil
}

// ListEdges returns every edge of a group ordered by (user_from, user_to).
func (t *sqlTx) ListEdges(ctx context.Context, groupID string) ([]models.DebtEdge, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT user_from, user_to, amount, last_updated FROM debt_edges
		 WHERE group_id = ? ORDER BY user_from, user_to`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list debt edges: %w", err)
	}
	defer rows.Close()

	var edges []models.DebtEdge
	for rows.Next() {
		edge := models.DebtEdge{GroupID: groupID}
		var updated int64
		if err := rows.Scan(&edge.From, &edge.To, &edge.Amount, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan debt edge: %w", err)
		}
		edge.LastUpdated = time.Unix(0, updated).UTC()
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debt edges: %w", err)
	}

	return edges, nil
}

// DeleteGroupEdges removes the whole ledger of a group.
func (t *sqlTx) DeleteGroupEdges(ctx context.Context, groupID string) (int64, error) {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM debt_edges WHERE group_id = ?", groupID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete group ledger: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted debt edges: %w", err)
	}
	return n, nil
}
