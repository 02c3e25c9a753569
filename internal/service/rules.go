package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"heating_controller/internal/models"
	"heating_controller/internal/repository"

	"github.com/google/uuid"
)

type RulesService struct {
	ruleRepo  repository.RuleRepo
	eventRepo repository.EventRepo
	onChange  func()
	now       func() time.Time
}

func NewRulesService(ruleRepo repository.RuleRepo, eventRepo repository.EventRepo, onChange func()) *RulesService {
	return &RulesService{ruleRepo: ruleRepo, eventRepo: eventRepo, onChange: onChange, now: time.Now}
}

func (s *RulesService) ListRules(ctx context.Context) ([]models.Rule, error) {
	return s.ruleRepo.List(ctx)
}

func (s *RulesService) GetRule(ctx context.Context, id string) (models.Rule, error) {
	r, err := s.ruleRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Rule{}, fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	return r, err
}

// CreateRule stores r under a fresh id.
func (s *RulesService) CreateRule(ctx context.Context, r models.Rule) (models.Rule, error) {
	r = normalizeRule(r)
	if err := r.Validate(); err != nil {
		return models.Rule{}, err
	}
	r.ID = uuid.NewString()
	if err := s.ruleRepo.Save(ctx, r); err != nil {
		return models.Rule{}, err
	}
	s.changed(ctx, models.EventRuleCreated, "Rule created: "+r.Name, r)
	return r, nil
}

// UpdateRule replaces the rule with the given id.
func (s *RulesService) UpdateRule(ctx context.Context, id string, r models.Rule) (models.Rule, error) {
	if _, err := s.GetRule(ctx, id); err != nil {
		return models.Rule{}, err
	}
	r = normalizeRule(r)
	r.ID = id
	if err := r.Validate(); err != nil {
		return models.Rule{}, err
	}
	if err := s.ruleRepo.Save(ctx, r); err != nil {
		return models.Rule{}, err
	}
	s.changed(ctx, models.EventRuleUpdated, "Rule updated: "+r.Name, r)
	return r, nil
}

func (s *RulesService) DeleteRule(ctx context.Context, id string) error {
	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
		}
		return err
	}
	s.changed(ctx, models.EventRuleDeleted, "Rule deleted", models.Rule{ID: id})
	return nil
}

// changed logs the mutation and wakes the controller. A failed log append
// does not undo the mutation.
func (s *RulesService) changed(ctx context.Context, typ, desc string, r models.Rule) {
	_ = s.eventRepo.Append(ctx, models.DeviceEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  s.now().UTC(),
		Type:        typ,
		Description: desc,
		Metadata:    map[string]any{"rule_id": r.ID, "active": r.Active},
	})
	notify(s.onChange)
}

func normalizeRule(r models.Rule) models.Rule {
	r.Name = strings.TrimSpace(r.Name)
	if r.Schedules == nil {
		r.Schedules = []models.Schedule{}
	}
	if r.NextDates == nil {
		r.NextDates = []models.Date{}
	}
	return r
}
