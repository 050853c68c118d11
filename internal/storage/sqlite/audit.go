package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

// InsertAuditEntry records a destructive ledger operation.
func (t *sqlTx) InsertAuditEntry(ctx context.Context, entry *models.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().UnixNano()
	}

	before, err := marshalEdges(entry.Before)
	if err != nil {
		return err
	}
	after, err := marshalEdges(entry.After)
	if err != nil {
		return err
	}

	_, err = t.tx.ExecContext(ctx,
		`INSERT INTO ledger_audit (id, group_id, action, actor, before_json, after_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.GroupID, entry.Action, entry.Actor, before, after, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries returns the audit trail of a group, newest first.
func (s *Store) ListAuditEntries(ctx context.Context, groupID string) ([]*models.AuditEntry, error) {
	rows, err := s.readDB.QueryContext(ctx,
		`SELECT id, group_id, action, actor, before_json, after_json, created_at
		 FROM ledger_audit WHERE group_id = ? ORDER BY created_at DESC, id DESC`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.AuditEntry
	for rows.Next() {
		entry := &models.AuditEntry{}
		var before, after string
		if err := rows.Scan(&entry.ID, &entry.GroupID, &entry.Action, &entry.Actor,
			&before, &after, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if err := json.Unmarshal([]byte(before), &entry.Before); err != nil {
			return nil, fmt.Errorf("failed to decode audit snapshot: %w", err)
		}
		if err := json.Unmarshal([]byte(after), &entry.After); err != nil {
			return nil, fmt.Errorf("failed to decode audit snapshot: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}

	return entries, nil
}

func marshalEdges(edges []models.DebtEdge) (string, error) {
	if edges == nil {
		edges = []models.DebtEdge{}
	}
	b, err := json.Marshal(edges)
	if err != nil {
		return "", fmt.Errorf("failed to encode audit snapshot: %w", err)
	}
	return string(b), nil
}
