package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

const settlementColumns = "id, group_id, payer_id, receiver_id, amount, created_at, created_by, note"

// CreateSettlement persists a new settlement.
func (t *sqlTx) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().UnixNano()
	}

	var note any
	if settlement.Note != "" {
		note = settlement.Note
	}

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO settlements (`+settlementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.PayerID, settlement.ReceiverID,
		settlement.Amount.String(), settlement.CreatedAt, settlement.CreatedBy, note,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlement retrieves a settlement by ID.
func (t *sqlTx) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := scanSettlement(t.tx.QueryRowContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE id = ?`,
		settlementID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return settlement, nil
}

// ListSettlementsByGroup retrieves all settlements for a group, oldest first.
func (t *sqlTx) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	rows, err := t.tx.QueryContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements by group: %w", err)
	}
	defer rows.Close()

	return collectSettlements(rows)
}

// DeleteSettlement removes a settlement by ID.
func (t *sqlTx) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	return nil
}

// ListSettlementsPage returns one page of a group's settlements, newest first,
// and the total number of settlements in the group.
func (s *Store) ListSettlementsPage(ctx context.Context, groupID string, limit, offset int) ([]*models.Settlement, int, error) {
	var (
		settlements []*models.Settlement
		total       int
	)

	err := s.ReadTx(ctx, func(tx storage.Tx) error {
		sqltx := tx.(*sqlTx).tx

		if err := sqltx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM settlements WHERE group_id = ?", groupID,
		).Scan(&total); err != nil {
			return fmt.Errorf("failed to count settlements: %w", err)
		}

		rows, err := sqltx.QueryContext(ctx,
			`SELECT `+settlementColumns+` FROM settlements WHERE group_id = ?
			 ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
			groupID, limit, offset,
		)
		if err != nil {
			return fmt.Errorf("failed to list settlements: %w", err)
		}
		defer rows.Close()

		settlements, err = collectSettlements(rows)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return settlements, total, nil
}

func collectSettlements(rows *sql.Rows) ([]*models.Settlement, error) {
	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

func scanSettlement(row scanner) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var note sql.NullString

	if err := row.Scan(&settlement.ID, &settlement.GroupID, &settlement.PayerID, &settlement.ReceiverID,
		&settlement.Amount, &settlement.CreatedAt, &settlement.CreatedBy, &note); err != nil {
		return nil, err
	}

	if note.Valid {
		settlement.Note = note.String
	}
	return settlement, nil
}
