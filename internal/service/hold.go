package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"heating_controller/internal/models"
	"heating_controller/internal/repository"

	"github.com/google/uuid"
)

// Accepted hold setpoints, °C.
const (
	MinHoldTemperatureC = 5.0
	MaxHoldTemperatureC = 30.0
)

type HoldService struct {
	holdRepo  repository.HoldRepo
	eventRepo repository.EventRepo
	onChange  func()
	now       func() time.Time
}

func NewHoldService(holdRepo repository.HoldRepo, eventRepo repository.EventRepo, onChange func()) *HoldService {
	return &HoldService{holdRepo: holdRepo, eventRepo: eventRepo, onChange: onChange, now: time.Now}
}

// GetHold returns the active hold, or nil. An expired hold reads as none.
func (s *HoldService) GetHold(ctx context.Context) (*models.Hold, error) {
	h, err := s.holdRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !h.IsActive(s.now()) {
		return nil, nil
	}
	return h, nil
}

// SetHold replaces any existing hold.
func (s *HoldService) SetHold(ctx context.Context, p HoldParams) (models.Hold, error) {
	now := s.now().UTC()
	until, err := holdUntil(p, now)
	if err != nil {
		return models.Hold{}, err
	}
	if math.IsNaN(p.Value) || p.Value < MinHoldTemperatureC || p.Value > MaxHoldTemperatureC {
		return models.Hold{}, fmt.Errorf("%w: value %.1f outside [%.0f, %.0f]",
			ErrInvalidHold, p.Value, MinHoldTemperatureC, MaxHoldTemperatureC)
	}

	h := models.Hold{ID: uuid.NewString(), Value: p.Value, UntilTime: until}
	if err := s.holdRepo.Save(ctx, h); err != nil {
		return models.Hold{}, err
	}
	_ = s.eventRepo.Append(ctx, models.DeviceEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventHoldSet,
		Description: "Hold set",
		Metadata:    map[string]any{"hold_id": h.ID, "value": h.Value, "until_time": h.UntilTime},
	})
	notify(s.onChange)
	return h, nil
}

func (s *HoldService) ClearHold(ctx context.Context) error {
	if err := s.holdRepo.Clear(ctx); err != nil {
		return err
	}
	_ = s.eventRepo.Append(ctx, models.DeviceEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  s.now().UTC(),
		Type:        models.EventHoldCleared,
		Description: "Hold cleared",
	})
	notify(s.onChange)
	return nil
}

func holdUntil(p HoldParams, now time.Time) (time.Time, error) {
	switch {
	case !p.Until.IsZero() && p.Duration != 0:
		return time.Time{}, fmt.Errorf("%w: until and duration are mutually exclusive", ErrInvalidHold)
	case p.Duration > 0:
		return now.Add(p.Duration), nil
	case p.Duration < 0:
		return time.Time{}, fmt.Errorf("%w: negative duration %s", ErrInvalidHold, p.Duration)
	case p.Until.IsZero():
		return time.Time{}, fmt.Errorf("%w: until or duration is required", ErrInvalidHold)
	case !p.Until.After(now):
		return time.Time{}, fmt.Errorf("%w: until %s is not in the future", ErrInvalidHold, p.Until.Format(time.RFC3339))
	}
	return p.Until.UTC(), nil
}
