package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"heating_controller/internal/models"
	"heating_controller/internal/repository"
)

// monday returns h:m on Monday 2024-01-01 UTC.
func monday(h, m int) time.Time {
	return time.Date(2024, time.January, 1, h, m, 0, 0, time.UTC)
}

func weekdayRule(id string, from, to models.TimeOfDay, high float64) models.Rule {
	r := models.NewRule("rule " + id)
	r.ID = id
	r.Active = true
	r.Days = models.NewDayMask(models.AllWeekdays[:]...)
	r.Schedules = []models.Schedule{{From: from, To: to, High: high}}
	return r
}

type fakeStateRepo struct {
	mu         sync.Mutex
	loadResp   models.DeviceState
	loadErr    error
	saveErr    error
	savedCalls []models.DeviceState
}

func (f *fakeStateRepo) Load(ctx context.Context) (models.DeviceState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadResp, f.loadErr
}

// Save records the state and makes it the next Load result.
func (f *fakeStateRepo) Save(ctx context.Context, s models.DeviceState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedCalls = append(f.savedCalls, s)
	if f.saveErr == nil {
		f.loadResp = s
	}
	return f.saveErr
}

func (f *fakeStateRepo) saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.savedCalls)
}

type localEventRepo struct {
	mu        sync.Mutex
	appendErr error
	events    []models.DeviceEvent
	listErr   error
}

func (f *localEventRepo) Append(ctx context.Context, e models.DeviceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return f.appendErr
}

func (f *localEventRepo) List(ctx context.Context, q repository.EventQuery) ([]models.DeviceEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.DeviceEvent
	for _, e := range f.events {
		if !e.OccurredAt.Before(q.From) && (q.To.IsZero() || !e.OccurredAt.After(q.To)) {
			if q.Type == "" || e.Type == q.Type {
				out = append(out, e)
			}
		}
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[len(out)-q.Limit:]
	}
	return out, nil
}

func (f *localEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type memRuleRepo struct {
	mu      sync.Mutex
	rules   map[string]models.Rule
	listErr error
	saveErr error
}

func newMemRuleRepo(rules ...models.Rule) *memRuleRepo {
	m := &memRuleRepo{rules: map[string]models.Rule{}}
	for _, r := range rules {
		m.rules[r.ID] = r
	}
	return m
}

func (m *memRuleRepo) List(ctx context.Context) ([]models.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]models.Rule, 0, len(m.rules))
	for _, r := range m.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRuleRepo) Get(ctx context.Context, id string) (models.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rules[id]
	if !ok {
		return models.Rule{}, repository.ErrNotFound
	}
	return r, nil
}

func (m *memRuleRepo) Save(ctx context.Context, r models.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rules[r.ID] = r
	return nil
}

func (m *memRuleRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rules[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rules, id)
	return nil
}

type memHoldRepo struct {
	mu      sync.Mutex
	hold    *models.Hold
	loadErr error
	cleared int
}

func (m *memHoldRepo) Load(ctx context.Context) (*models.Hold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.hold == nil {
		return nil, nil
	}
	h := *m.hold
	return &h, nil
}

func (m *memHoldRepo) Save(ctx context.Context, h models.Hold) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hold = &h
	return nil
}

func (m *memHoldRepo) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hold = nil
	m.cleared++
	return nil
}

type memSettingsRepo struct {
	settings *models.Settings
	loadErr  error
}

func (m *memSettingsRepo) Load(ctx context.Context) (models.Settings, bool, error) {
	if m.loadErr != nil {
		return models.Settings{}, false, m.loadErr
	}
	if m.settings == nil {
		return models.Settings{}, false, nil
	}
	return *m.settings, true, nil
}

func (m *memSettingsRepo) Save(ctx context.Context, s models.Settings) error {
	m.settings = &s
	return nil
}

var testDefaults = models.Settings{AwayTemperature: 16, TimezoneOffsetMinutes: 0}

// counter counts onChange calls.
type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *counter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
