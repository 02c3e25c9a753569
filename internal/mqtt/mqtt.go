// Package mqtt publishes applied target temperatures to a broker.
package mqtt

import (
	"encoding/json"
	"time"

	"heating_controller/internal/models"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "home/heating/target"

// Publisher publishes target snapshots.
type Publisher interface {
	// PublishTarget sends the state the controller just applied.
	// A failure is reported but must not stop the controller.
	PublishTarget(state models.DeviceState) error

	// Close disconnects from the broker.
	Close() error
}

// Payload is the MQTT message body.
type Payload struct {
	Target TargetPayload `json:"target"`
}

// TargetPayload carries one applied target.
type TargetPayload struct {
	Timestamp    string  `json:"timestamp"`
	Value        float64 `json:"value"`
	FromSchedule bool    `json:"from_schedule"`
	HoldID       string  `json:"hold_id,omitempty"`
	RuleID       string  `json:"rule_id,omitempty"`
	NextChange   string  `json:"next_change,omitempty"`
	Summary      string  `json:"summary"`
}

// FormatPayload creates the JSON payload for a device state.
func FormatPayload(state models.DeviceState) ([]byte, error) {
	p := Payload{
		Target: TargetPayload{
			Timestamp:    state.UpdatedAt.UTC().Format(time.RFC3339),
			Value:        state.TargetTempC,
			FromSchedule: state.FromSchedule,
			HoldID:       state.HoldID,
			RuleID:       state.RuleID,
			Summary:      state.Summary,
		},
	}
	if state.NextChange != nil {
		p.Target.NextChange = state.NextChange.UTC().Format(time.RFC3339)
	}
	return json.Marshal(p)
}

// NopPublisher drops everything. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishTarget(models.DeviceState) error { return nil }
func (NopPublisher) Close() error                           { return nil }
