package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"heating_controller/internal/models"
)

var (
	// ErrNotFound is returned by lookups of a single missing row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("already exists")
)

// Authorization stores dashboard users. GetByUsername returns nil when the
// user does not exist.
type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type RuleRepo interface {
	List(ctx context.Context) ([]models.Rule, error)
	Get(ctx context.Context, id string) (models.Rule, error)
	Save(ctx context.Context, r models.Rule) error
	Delete(ctx context.Context, id string) error
}

// HoldRepo stores the single device-wide hold. Load returns nil when none is set.
type HoldRepo interface {
	Load(ctx context.Context) (*models.Hold, error)
	Save(ctx context.Context, h models.Hold) error
	Clear(ctx context.Context) error
}

// SettingsRepo reports ok=false when settings were never saved.
type SettingsRepo interface {
	Load(ctx context.Context) (models.Settings, bool, error)
	Save(ctx context.Context, s models.Settings) error
}

type StateRepo interface {
	Save(ctx context.Context, s models.DeviceState) error
	Load(ctx context.Context) (models.DeviceState, error)
}

// EventQuery filters the log. Zero bounds, an empty Type and Limit 0 mean
// no restriction; a positive Limit keeps the newest entries.
type EventQuery struct {
	From  time.Time
	To    time.Time
	Type  string
	Limit int
}

type EventRepo interface {
	Append(ctx context.Context, e models.DeviceEvent) error
	List(ctx context.Context, q EventQuery) ([]models.DeviceEvent, error)
}

type Repository struct {
	RuleRepo     RuleRepo
	HoldRepo     HoldRepo
	SettingsRepo SettingsRepo
	StateRepo    StateRepo
	EventRepo    EventRepo
	Auth         Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		RuleRepo:     NewRuleSQLite(db),
		HoldRepo:     NewHoldSQLite(db),
		SettingsRepo: NewSettingsSQLite(db),
		StateRepo:    NewStateSQLite(db),
		EventRepo:    NewEventSQLite(db),
		Auth:         NewUserSQLite(db),
	}
}
