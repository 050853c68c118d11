package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// EnsureGroup creates the group row on first use.
func (t *sqlTx) EnsureGroup(ctx context.Context, groupID string) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_at) VALUES (?, '', ?) ON CONFLICT (id) DO NOTHING",
		groupID, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to ensure group: %w", err)
	}
	return nil
}

// ListGroups returns every group, sorted by ID.
func (s *Store) ListGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := s.readDB.QueryContext(ctx, "SELECT id, name, created_at FROM groups ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// ListGroupIDs returns the IDs of every group, sorted.
func (s *Store) ListGroupIDs(ctx context.Context) ([]string, error) {
	groups, err := s.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	return ids, nil
}

// DeleteGroup removes a group. Its ledger, expenses and settlements go with it
// through ON DELETE CASCADE; the audit trail stays.
func (t *sqlTx) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted group: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	return nil
}

// DeleteGroup runs sqlTx.DeleteGroup in its own transaction.
func (s *Store) DeleteGroup(ctx context.Context, groupID string) error {
	return s.WriteTx(ctx, func(tx storage.Tx) error {
		return tx.DeleteGroup(ctx, groupID)
	})
}
