package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"heating_controller/internal/models"
	"heating_controller/internal/repository"
)

// MaxLogLimit caps a single history page.
const MaxLogLimit = 1000

// ErrInvalidLogFilter marks a LogFilter the store cannot serve.
var ErrInvalidLogFilter = errors.New("invalid log filter")

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

// List returns the history matching f, oldest first.
func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.DeviceEvent, error) {
	q, err := toEventQuery(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, q)
}

// toEventQuery normalizes bounds to UTC and the type to upper case, then
// checks the result.
func toEventQuery(f LogFilter) (repository.EventQuery, error) {
	q := repository.EventQuery{
		From:  utcOrZero(f.From),
		To:    utcOrZero(f.To),
		Type:  strings.ToUpper(strings.TrimSpace(f.Type)),
		Limit: f.Limit,
	}
	switch {
	case !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To):
		return repository.EventQuery{}, fmt.Errorf("%w: from must not be after to", ErrInvalidLogFilter)
	case q.Type != "" && !models.IsEventType(q.Type):
		return repository.EventQuery{}, fmt.Errorf("%w: unknown event type %q", ErrInvalidLogFilter, q.Type)
	case q.Limit < 0 || q.Limit > MaxLogLimit:
		return repository.EventQuery{}, fmt.Errorf("%w: limit must be between 0 and %d", ErrInvalidLogFilter, MaxLogLimit)
	}
	return q, nil
}

func utcOrZero(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
