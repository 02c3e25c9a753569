package service

import (
	"context"
	"time"

	"heating_controller/internal/models"
	"heating_controller/internal/repository"
	"heating_controller/internal/thermostat"
)

type TargetService struct {
	ruleRepo repository.RuleRepo
	holdRepo repository.HoldRepo
	settings Settings
}

func NewTargetService(ruleRepo repository.RuleRepo, holdRepo repository.HoldRepo, settings Settings) *TargetService {
	return &TargetService{ruleRepo: ruleRepo, holdRepo: holdRepo, settings: settings}
}

// Current loads rules, hold and settings and computes the target at now.
func (s *TargetService) Current(ctx context.Context, now time.Time) (models.TargetView, error) {
	rules, err := s.ruleRepo.List(ctx)
	if err != nil {
		return models.TargetView{}, err
	}
	hold, err := s.holdRepo.Load(ctx)
	if err != nil {
		return models.TargetView{}, err
	}
	settings, err := s.settings.GetSettings(ctx)
	if err != nil {
		return models.TargetView{}, err
	}
	return thermostat.Compute(rules, hold, settings, now), nil
}
