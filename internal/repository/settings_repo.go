package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"heating_controller/internal/models"
)

type SettingsSQLite struct {
	db *sql.DB
}

func NewSettingsSQLite(db *sql.DB) *SettingsSQLite {
	return &SettingsSQLite{db: db}
}

var _ SettingsRepo = (*SettingsSQLite)(nil)

const (
	settingsRowID = 1

	upsertSettingsSQL = `
		INSERT INTO settings (id, away_temp_c, tz_offset_min, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			away_temp_c=excluded.away_temp_c,
			tz_offset_min=excluded.tz_offset_min,
			updated_at=excluded.updated_at
	`

	selectSettingsSQL = `SELECT away_temp_c, tz_offset_min FROM settings WHERE id=?`
)

func (r *SettingsSQLite) Load(ctx context.Context) (models.Settings, bool, error) {
	var s models.Settings
	err := r.db.QueryRowContext(ctx, selectSettingsSQL, settingsRowID).Scan(&s.AwayTemperature, &s.TimezoneOffsetMinutes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Settings{}, false, nil
		}
		return models.Settings{}, false, fmt.Errorf("select settings: %w", err)
	}
	return s, true, nil
}

func (r *SettingsSQLite) Save(ctx context.Context, s models.Settings) error {
	_, err := r.db.ExecContext(ctx, upsertSettingsSQL, settingsRowID, s.AwayTemperature, s.TimezoneOffsetMinutes, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
