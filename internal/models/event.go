package models

import "time"

// Event types written to the device log.
const (
	EventTargetChange = "TARGET_CHANGE"
	EventRuleCreated  = "RULE_CREATED"
	EventRuleUpdated  = "RULE_UPDATED"
	EventRuleDeleted  = "RULE_DELETED"
	EventHoldSet      = "HOLD_SET"
	EventHoldCleared  = "HOLD_CLEARED"
	EventHoldExpired  = "HOLD_EXPIRED"
	EventSettings     = "SETTINGS_CHANGE"
	EventError        = "ERROR"
)

// EventTypes lists every type the controller writes, in display order.
var EventTypes = []string{
	EventTargetChange,
	EventRuleCreated, EventRuleUpdated, EventRuleDeleted,
	EventHoldSet, EventHoldCleared, EventHoldExpired,
	EventSettings,
	EventError,
}

// IsEventType reports whether s is one of EventTypes.
func IsEventType(s string) bool {
	for _, t := range EventTypes {
		if t == s {
			return true
		}
	}
	return false
}

// DeviceEvent is a single log entry.
type DeviceEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
