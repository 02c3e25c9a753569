package service

import (
	"context"
	"fmt"
	"time"

	"heating_controller/internal/models"
	"heating_controller/internal/repository"

	"github.com/google/uuid"
)

type SettingsService struct {
	settingsRepo repository.SettingsRepo
	eventRepo    repository.EventRepo
	defaults     models.Settings
	onChange     func()
	now          func() time.Time
}

func NewSettingsService(settingsRepo repository.SettingsRepo, eventRepo repository.EventRepo, defaults models.Settings) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, eventRepo: eventRepo, defaults: defaults, now: time.Now}
}

// GetSettings returns the stored settings, or the configured defaults when
// none were saved yet.
func (s *SettingsService) GetSettings(ctx context.Context) (models.Settings, error) {
	st, ok, err := s.settingsRepo.Load(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if !ok {
		return s.defaults, nil
	}
	return st, nil
}

func (s *SettingsService) UpdateSettings(ctx context.Context, st models.Settings) (models.Settings, error) {
	if err := st.Validate(); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if err := s.settingsRepo.Save(ctx, st); err != nil {
		return models.Settings{}, err
	}
	_ = s.eventRepo.Append(ctx, models.DeviceEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  s.now().UTC(),
		Type:        models.EventSettings,
		Description: "Settings updated",
		Metadata: map[string]any{
			"away_temperature":        st.AwayTemperature,
			"timezone_offset_minutes": st.TimezoneOffsetMinutes,
		},
	})
	notify(s.onChange)
	return st, nil
}
