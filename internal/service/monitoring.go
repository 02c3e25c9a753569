package service

import (
	"context"
	"time"

	"heating_controller/internal/models"
	"heating_controller/internal/repository"
)

type MonitoringService struct {
	stateRepo repository.StateRepo
	target    Target
	now       func() time.Time
}

func NewMonitoringService(stateRepo repository.StateRepo, target Target) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo, target: target, now: time.Now}
}

// GetState returns the latest applied device state.
// If the controller has not applied anything yet, the live target stands in.
func (s *MonitoringService) GetState(ctx context.Context) (models.DeviceState, error) {
	state, err := s.stateRepo.Load(ctx)
	if err != nil {
		return models.DeviceState{}, err
	}
	if state.ID == 0 {
		return s.baselineState(ctx)
	}
	state.UpdatedAt = toUTC(state.UpdatedAt)
	return state, nil
}

func (s *MonitoringService) baselineState(ctx context.Context) (models.DeviceState, error) {
	view, err := s.target.Current(ctx, s.now().UTC())
	if err != nil {
		return models.DeviceState{}, err
	}
	return stateFromView(view), nil
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
