package models

import "time"

// DeviceState is the last target the controller applied to the device.
type DeviceState struct {
	ID           int        `json:"id"`
	TargetTempC  float64    `json:"target_temp_c"`
	FromSchedule bool       `json:"from_schedule"`
	HoldID       string     `json:"hold_id,omitempty"`
	RuleID       string     `json:"rule_id,omitempty"`
	NextChange   *time.Time `json:"next_change,omitempty"`
	Summary      string     `json:"summary"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
