package thermostat

import (
	"testing"
	"time"

	"heating_controller/internal/models"
)

func TestProject_HoldPreemptsSchedule(t *testing.T) {
	now := monday(7, 0)
	res := ResolveDeviceState([]models.Rule{mondayRule()}, now, 0)
	hold := &models.Hold{ID: "h1", Value: 23.5, UntilTime: monday(12, 0)}

	got := ProjectTargetTemperature(res, hold, 15, 0, now)
	if got.Value != 23.5 || got.HoldID != "h1" || got.FromSchedule {
		t.Fatalf("unexpected target: %+v", got)
	}
	assertNextChange(t, got.NextChange, monday(12, 0))
}

func TestProject_HoldExpiryIsInclusive(t *testing.T) {
	now := monday(7, 0)
	res := ResolveDeviceState([]models.Rule{mondayRule()}, now, 0)

	atNow := &models.Hold{ID: "h1", Value: 23, UntilTime: now}
	if got := ProjectTargetTemperature(res, atNow, 15, 0, now); got.HoldID != "h1" || got.Value != 23 {
		t.Fatalf("hold ending exactly now should still apply: %+v", got)
	}

	justExpired := &models.Hold{ID: "h1", Value: 23, UntilTime: now.Add(-time.Microsecond)}
	got := ProjectTargetTemperature(res, justExpired, 15, 0, now)
	if got.HoldID != "" || !got.FromSchedule || got.Value != 20 {
		t.Fatalf("expired hold should fall through to the schedule: %+v", got)
	}
	assertNextChange(t, got.NextChange, monday(8, 0))
}

func TestProject_HoldWithoutIDStillHolds(t *testing.T) {
	now := monday(7, 0)
	got := ProjectTargetTemperature(ResolverResult{}, &models.Hold{Value: 19, UntilTime: now.Add(time.Hour)}, 15, 0, now)
	if !got.Holding() {
		t.Fatalf("expected holding target, got %+v", got)
	}
}

func TestProject_AwayWithNextChange(t *testing.T) {
	now := monday(9, 0)
	res := ResolveDeviceState([]models.Rule{mondayRule()}, now, 60)
	got := ProjectTargetTemperature(res, nil, 15, 60, now)
	if got.Value != 15 || got.FromSchedule || got.Holding() {
		t.Fatalf("unexpected target: %+v", got)
	}
	if got.Timezone != 60 {
		t.Fatalf("timezone: got %d", got.Timezone)
	}
	assertNextChange(t, got.NextChange, monday(17, 15))
}

func TestProject_NothingAnywhere(t *testing.T) {
	now := monday(9, 0)
	got := ProjectTargetTemperature(ResolveDeviceState(nil, now, 0), nil, 15, 0, now)
	if got.Value != 15 || got.NextChange != nil || got.FromSchedule || got.Holding() {
		t.Fatalf("unexpected target: %+v", got)
	}
}

func TestProject_DoesNotAliasResolverTime(t *testing.T) {
	now := monday(7, 0)
	res := ResolveDeviceState([]models.Rule{mondayRule()}, now, 0)
	got := ProjectTargetTemperature(res, nil, 15, 0, now)
	*got.NextChange = got.NextChange.Add(time.Hour)
	assertNextChange(t, res.NextChange, monday(8, 0))
}

func TestCompute_FillsViewFields(t *testing.T) {
	now := monday(7, 0)
	view := Compute([]models.Rule{mondayRule()}, nil, models.Settings{AwayTemperature: 15}, now)
	if view.RuleID != "mon" || view.Schedule == nil || view.Schedule.To.String() != "8:00" {
		t.Fatalf("unexpected view: %+v", view)
	}
	if view.Summary != "20˚ until 8:00" {
		t.Fatalf("summary: got %q", view.Summary)
	}
	if !view.At.Equal(now) {
		t.Fatalf("at: got %v", view.At)
	}

	held := Compute([]models.Rule{mondayRule()}, &models.Hold{ID: "h", Value: 22, UntilTime: monday(18, 0)}, models.Settings{AwayTemperature: 15}, now)
	if held.RuleID != "" || held.Schedule != nil {
		t.Fatalf("held view should not name a rule: %+v", held)
	}
	if held.Summary != "Holding 22˚ until 18:00" {
		t.Fatalf("summary: got %q", held.Summary)
	}
}
