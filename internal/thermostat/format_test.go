package thermostat

import (
	"testing"
	"time"

	"heating_controller/internal/models"
)

func TestFormatRelative(t *testing.T) {
	now := monday(12, 0)
	cases := []struct {
		name   string
		at     time.Time
		offset int
		want   string
	}{
		{"same day", monday(18, 15), 0, "18:15"},
		{"tomorrow", time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC), 0, "tomorrow at 8:00"},
		{"later this week", time.Date(2024, 1, 4, 8, 0, 0, 0, time.UTC), 0, "Thursday at 8:00"},
		{"six days out", time.Date(2024, 1, 7, 6, 5, 0, 0, time.UTC), 0, "Sunday at 6:05"},
		{"a week out", time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC), 0, "Monday 8 at 8:00"},
		{"offset moves to tomorrow", monday(23, 0), 120, "tomorrow at 1:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatRelative(tc.at, now, tc.offset); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	now := monday(12, 0)
	next := monday(18, 0)
	tomorrow := time.Date(2024, 1, 2, 6, 15, 0, 0, time.UTC)

	cases := []struct {
		name   string
		target models.TargetTemperature
		want   string
	}{
		{"holding", models.TargetTemperature{Value: 22, HoldID: "h", NextChange: &next}, "Holding 22˚ until 18:00"},
		{"schedule", models.TargetTemperature{Value: 20.5, FromSchedule: true, NextChange: &next}, "20.5˚ until 18:00"},
		{"away with next change", models.TargetTemperature{Value: 15, NextChange: &tomorrow}, "15˚ until tomorrow at 6:15"},
		{"no next change", models.TargetTemperature{Value: 15}, "15˚"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Summary(tc.target, now); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}
