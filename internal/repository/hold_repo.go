package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"heating_controller/internal/models"
)

type HoldSQLite struct {
	db *sql.DB
}

func NewHoldSQLite(db *sql.DB) *HoldSQLite {
	return &HoldSQLite{db: db}
}

var _ HoldRepo = (*HoldSQLite)(nil)

const (
	holdRowID = 1

	upsertHoldSQL = `
		INSERT INTO hold (id, hold_id, value, until_time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			hold_id=excluded.hold_id,
			value=excluded.value,
			until_time=excluded.until_time
	`

	selectHoldSQL = `SELECT hold_id, value, until_time FROM hold WHERE id=?`

	deleteHoldSQL = `DELETE FROM hold WHERE id=?`
)

// Load returns the stored hold, or nil when there is none. Expired holds are
// returned as stored; activity is decided by the caller.
func (r *HoldSQLite) Load(ctx context.Context) (*models.Hold, error) {
	var h models.Hold
	err := r.db.QueryRowContext(ctx, selectHoldSQL, holdRowID).Scan(&h.ID, &h.Value, &h.UntilTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select hold: %w", err)
	}
	h.UntilTime = h.UntilTime.UTC()
	return &h, nil
}

// Save replaces the single hold.
func (r *HoldSQLite) Save(ctx context.Context, h models.Hold) error {
	if _, err := r.db.ExecContext(ctx, upsertHoldSQL, holdRowID, h.ID, h.Value, h.UntilTime.UTC()); err != nil {
		return fmt.Errorf("save hold: %w", err)
	}
	return nil
}

// Clear removes the hold. Clearing when none is set is not an error.
func (r *HoldSQLite) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, deleteHoldSQL, holdRowID); err != nil {
		return fmt.Errorf("clear hold: %w", err)
	}
	return nil
}
