package models

import "time"

// TargetTemperature is the effective setpoint at one instant. It is
// recomputed on demand and never persisted as-is.
type TargetTemperature struct {
	Value        float64    `json:"value"`    // °C
	Timezone     int        `json:"timezone"` // minutes east of UTC
	HoldID       string     `json:"hold_id,omitempty"`
	FromSchedule bool       `json:"from_schedule"`
	NextChange   *time.Time `json:"next_change"`
}

// Holding reports whether a manual hold produced the target.
func (t TargetTemperature) Holding() bool { return t.HoldID != "" }

// TargetView is a TargetTemperature plus what produced it, for display.
type TargetView struct {
	TargetTemperature
	Summary  string    `json:"summary"`
	RuleID   string    `json:"rule_id,omitempty"`
	RuleName string    `json:"rule_name,omitempty"`
	Schedule *Schedule `json:"schedule,omitempty"`
	At       time.Time `json:"at"`
}
