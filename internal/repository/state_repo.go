package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"heating_controller/internal/models"
)

type StateSQLite struct {
	db *sql.DB
}

func NewStateSQLite(db *sql.DB) *StateSQLite {
	return &StateSQLite{db: db}
}

const (
	deviceStateRowID = 1

	insertOrUpdateStateSQL = `
		INSERT INTO device_state (id, target_c, from_schedule, hold_id, rule_id, next_change, summary, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			target_c=excluded.target_c,
			from_schedule=excluded.from_schedule,
			hold_id=excluded.hold_id,
			rule_id=excluded.rule_id,
			next_change=excluded.next_change,
			summary=excluded.summary,
			updated_at=excluded.updated_at
	`

	selectStateSQL = `
		SELECT id, target_c, from_schedule, hold_id, rule_id, next_change, summary, updated_at
		FROM device_state WHERE id=?
	`
)

// nullString maps "" to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTimeUTC maps nil to NULL and normalizes to UTC.
func nullTimeUTC(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// Save updates or inserts the device_state row (id always 1).
func (r *StateSQLite) Save(ctx context.Context, state models.DeviceState) error {
	// ensure UpdatedAt is always persisted as UTC; set if zero
	tsUTC := state.UpdatedAt
	if tsUTC.IsZero() {
		tsUTC = time.Now().UTC()
	} else {
		tsUTC = tsUTC.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertOrUpdateStateSQL,
		deviceStateRowID,
		state.TargetTempC,
		state.FromSchedule,
		nullString(state.HoldID),
		nullString(state.RuleID),
		nullTimeUTC(state.NextChange),
		state.Summary,
		tsUTC,
	)
	return err
}

// Load fetches the single device_state row (id=1).
func (r *StateSQLite) Load(ctx context.Context) (models.DeviceState, error) {
	row := r.db.QueryRowContext(ctx, selectStateSQL, deviceStateRowID)

	var (
		s          models.DeviceState
		holdID     sql.NullString
		ruleID     sql.NullString
		nextChange sql.NullTime
	)
	if err := row.Scan(
		&s.ID,
		&s.TargetTempC,
		&s.FromSchedule,
		&holdID,
		&ruleID,
		&nextChange,
		&s.Summary,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DeviceState{}, nil // no state yet
		}
		return models.DeviceState{}, err
	}

	s.HoldID = holdID.String
	s.RuleID = ruleID.String
	if nextChange.Valid {
		t := nextChange.Time.UTC()
		s.NextChange = &t
	}
	s.UpdatedAt = s.UpdatedAt.UTC()

	return s, nil
}
