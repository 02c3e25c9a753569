package service

import (
	"context"
	"fmt"
	"time"

	"heating_controller/internal/logger"
	"heating_controller/internal/models"
	"heating_controller/internal/mqtt"
	"heating_controller/internal/repository"
	"heating_controller/internal/thermostat"

	"github.com/google/uuid"
)

// deviceStateID is the single device_state row.
const deviceStateID = 1

// ControllerService applies the computed target to the device over time.
type ControllerService struct {
	target    Target
	holdRepo  repository.HoldRepo
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	publisher mqtt.Publisher
	log       *logger.Logger
	wake      chan struct{}
	now       func() time.Time
}

// NewControllerService returns a controller. A nil publisher publishes nowhere.
func NewControllerService(
	target Target,
	holdRepo repository.HoldRepo,
	stateRepo repository.StateRepo,
	eventRepo repository.EventRepo,
	publisher mqtt.Publisher,
	log *logger.Logger,
) *ControllerService {
	if publisher == nil {
		publisher = mqtt.NopPublisher{}
	}
	if log == nil {
		log = logger.Get(logger.InfoLevel)
	}
	return &ControllerService{
		target:    target,
		holdRepo:  holdRepo,
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		publisher: publisher,
		log:       log,
		wake:      make(chan struct{}, 1),
		now:       time.Now,
	}
}

// Notify asks the loop to recompute before the next tick. It never blocks.
func (s *ControllerService) Notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run applies the target once, then on every tick and every Notify until
// ctx is canceled.
func (s *ControllerService) Run(ctx context.Context, tick time.Duration) {
	s.step(ctx)

	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.step(ctx)
		case <-s.wake:
			s.step(ctx)
		}
	}
}

func (s *ControllerService) step(ctx context.Context) {
	if _, _, err := s.Apply(ctx, s.now()); err != nil && ctx.Err() == nil {
		s.log.Errorw("controller_apply_failed", "err", err)
	}
}

// Apply expires a stale hold, computes the target at now and, when it
// differs from the last applied one, persists, logs and publishes it.
// It reports the applied state and whether it changed.
func (s *ControllerService) Apply(ctx context.Context, now time.Time) (models.DeviceState, bool, error) {
	now = now.UTC()
	if err := s.expireHold(ctx, now); err != nil {
		return models.DeviceState{}, false, err
	}

	view, err := s.target.Current(ctx, now)
	if err != nil {
		return models.DeviceState{}, false, fmt.Errorf("compute target: %w", err)
	}

	prev, err := s.stateRepo.Load(ctx)
	if err != nil {
		return models.DeviceState{}, false, fmt.Errorf("load state: %w", err)
	}

	next := stateFromView(view)
	if prev.ID != 0 && sameTarget(prev, next) {
		return prev, false, nil
	}

	if err := s.stateRepo.Save(ctx, next); err != nil {
		return models.DeviceState{}, false, fmt.Errorf("save state: %w", err)
	}

	_ = s.eventRepo.Append(ctx, models.DeviceEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventTargetChange,
		Description: "Target changed to " + thermostat.FormatTemperature(next.TargetTempC),
		Metadata: map[string]any{
			"from":          prev.TargetTempC,
			"to":            next.TargetTempC,
			"from_schedule": next.FromSchedule,
			"hold_id":       next.HoldID,
			"rule_id":       next.RuleID,
		},
	})
	s.log.Infow("target_changed", "from", prev.TargetTempC, "to", next.TargetTempC, "summary", next.Summary)

	if err := s.publisher.PublishTarget(next); err != nil {
		s.log.Warnw("target_publish_failed", "err", err)
		_ = s.eventRepo.Append(ctx, models.DeviceEvent{
			EventID:     uuid.NewString(),
			OccurredAt:  now,
			Type:        models.EventError,
			Description: "Publishing target failed",
			Metadata:    map[string]any{"err": err.Error()},
		})
	}
	return next, true, nil
}

// expireHold removes a hold whose end time has passed.
func (s *ControllerService) expireHold(ctx context.Context, now time.Time) error {
	h, err := s.holdRepo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load hold: %w", err)
	}
	if h == nil || h.IsActive(now) {
		return nil
	}
	if err := s.holdRepo.Clear(ctx); err != nil {
		return err
	}
	_ = s.eventRepo.Append(ctx, models.DeviceEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventHoldExpired,
		Description: "Hold expired",
		Metadata:    map[string]any{"hold_id": h.ID, "until_time": h.UntilTime},
	})
	return nil
}

func stateFromView(v models.TargetView) models.DeviceState {
	st := models.DeviceState{
		ID:           deviceStateID,
		TargetTempC:  v.Value,
		FromSchedule: v.FromSchedule,
		HoldID:       v.HoldID,
		RuleID:       v.RuleID,
		Summary:      v.Summary,
		UpdatedAt:    v.At.UTC(),
	}
	if v.NextChange != nil {
		next := v.NextChange.UTC()
		st.NextChange = &next
	}
	return st
}

// sameTarget ignores Summary and UpdatedAt, which move with the clock.
func sameTarget(a, b models.DeviceState) bool {
	if a.TargetTempC != b.TargetTempC || a.FromSchedule != b.FromSchedule ||
		a.HoldID != b.HoldID || a.RuleID != b.RuleID {
		return false
	}
	switch {
	case a.NextChange == nil && b.NextChange == nil:
		return true
	case a.NextChange == nil || b.NextChange == nil:
		return false
	}
	return a.NextChange.Equal(*b.NextChange)
}
