package models

import "time"

// Hold pins the device to Value until UntilTime, overriding every rule.
type Hold struct {
	ID        string    `json:"id,omitempty"`
	Value     float64   `json:"value"`      // °C
	UntilTime time.Time `json:"until_time"` // absolute instant
}

// IsActive reports whether the hold still applies at now.
// A hold expiring exactly at now is still active.
func (h *Hold) IsActive(now time.Time) bool {
	if h == nil {
		return false
	}
	return !h.UntilTime.Before(now)
}
