package service

import (
	"context"
	"errors"
	"time"

	"heating_controller/internal/logger"
	"heating_controller/internal/models"
	"heating_controller/internal/mqtt"
	"heating_controller/internal/repository"
)

// Domain errors surfaced to handlers.
var (
	ErrRuleNotFound    = errors.New("rule not found")
	ErrInvalidHold     = errors.New("invalid hold")
	ErrInvalidSettings = errors.New("invalid settings")
)

// Authorization guards the API with per-user JWTs.
type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Rules manages the stored heating rules.
type Rules interface {
	ListRules(ctx context.Context) ([]models.Rule, error)
	GetRule(ctx context.Context, id string) (models.Rule, error)
	CreateRule(ctx context.Context, r models.Rule) (models.Rule, error)
	UpdateRule(ctx context.Context, id string, r models.Rule) (models.Rule, error)
	DeleteRule(ctx context.Context, id string) error
}

// Hold manages the single manual override.
type Hold interface {
	GetHold(ctx context.Context) (*models.Hold, error)
	SetHold(ctx context.Context, p HoldParams) (models.Hold, error)
	ClearHold(ctx context.Context) error
}

// Settings exposes the numeric parameters of the target computation.
type Settings interface {
	GetSettings(ctx context.Context) (models.Settings, error)
	UpdateSettings(ctx context.Context, s models.Settings) (models.Settings, error)
}

// Target computes the effective setpoint at an instant.
type Target interface {
	Current(ctx context.Context, now time.Time) (models.TargetView, error)
}

// Monitoring exposes the last applied device state.
type Monitoring interface {
	GetState(ctx context.Context) (models.DeviceState, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.DeviceEvent, error)
}

// Controller runs the background loop that applies the target to the device.
// Stop via context cancellation in main() for graceful shutdown.
type Controller interface {
	Run(ctx context.Context, tick time.Duration)
	Notify()
}

type Service struct {
	Rules
	Hold
	Settings
	Target
	Monitoring
	EventLog
	Controller
	Authorization
}

// Deps carries everything NewService needs besides the repositories.
type Deps struct {
	Publisher mqtt.Publisher
	Log       *logger.Logger
	Defaults  models.Settings
	Auth      AuthConfig
}

// NewService wires the repository layer into concrete services. Every
// mutation reaches the controller through Notify so the device picks up
// the new target without waiting for the next tick.
func NewService(repos *repository.Repository, deps Deps) *Service {
	settings := NewSettingsService(repos.SettingsRepo, repos.EventRepo, deps.Defaults)
	target := NewTargetService(repos.RuleRepo, repos.HoldRepo, settings)
	controller := NewControllerService(target, repos.HoldRepo, repos.StateRepo, repos.EventRepo, deps.Publisher, deps.Log)

	settings.onChange = controller.Notify

	return &Service{
		Rules:         NewRulesService(repos.RuleRepo, repos.EventRepo, controller.Notify),
		Hold:          NewHoldService(repos.HoldRepo, repos.EventRepo, controller.Notify),
		Settings:      settings,
		Target:        target,
		Monitoring:    NewMonitoringService(repos.StateRepo, target),
		EventLog:      NewEventLogService(repos.EventRepo),
		Controller:    controller,
		Authorization: NewAuthService(repos.Auth, deps.Auth),
	}
}

// notify calls fn when set.
func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
