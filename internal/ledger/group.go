package ledger

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// ActionDeleteGroup is the audit action recorded by DeleteGroup.
const ActionDeleteGroup = "delete_group"

// DeleteGroup removes a group with its ledger, expenses and settlements.
// The ledger as it stood is kept in the audit trail under actor.
func (l *Ledger) DeleteGroup(ctx context.Context, groupID, actor string) (*models.AuditEntry, error) {
	var entry *models.AuditEntry
	err := l.store.WriteTx(ctx, func(tx storage.Tx) error {
		before, err := tx.ListEdges(ctx, groupID)
		if err != nil {
			return err
		}
		if err := tx.DeleteGroup(ctx, groupID); err != nil {
			return err
		}

		entry = &models.AuditEntry{
			GroupID: groupID,
			Action:  ActionDeleteGroup,
			Actor:   actor,
			Before:  before,
		}
		return tx.InsertAuditEntry(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	l.logger.WarnContext(ctx, "Group deleted",
		"group_id", groupID,
		"actor", actor,
		"audit_id", entry.ID,
		"edges_before", len(entry.Before),
	)
	return entry, nil
}
