package models

import (
	"fmt"
	"math"
)

// Limits for Settings.
const (
	MinTimezoneOffsetMinutes = -12 * 60
	MaxTimezoneOffsetMinutes = 14 * 60
	MinAwayTemperatureC      = 5.0
	MaxAwayTemperatureC      = 30.0
)

// Settings are the numeric parameters the target computation needs.
type Settings struct {
	AwayTemperature       float64 `json:"away_temperature"`        // °C
	TimezoneOffsetMinutes int     `json:"timezone_offset_minutes"` // east of UTC
}

func (s Settings) Validate() error {
	if s.TimezoneOffsetMinutes < MinTimezoneOffsetMinutes || s.TimezoneOffsetMinutes > MaxTimezoneOffsetMinutes {
		return fmt.Errorf("%w: timezone offset %d minutes outside [%d, %d]",
			ErrInvariantViolation, s.TimezoneOffsetMinutes, MinTimezoneOffsetMinutes, MaxTimezoneOffsetMinutes)
	}
	if math.IsNaN(s.AwayTemperature) || s.AwayTemperature < MinAwayTemperatureC || s.AwayTemperature > MaxAwayTemperatureC {
		return fmt.Errorf("%w: away temperature %.1f outside [%.0f, %.0f]",
			ErrInvariantViolation, s.AwayTemperature, MinAwayTemperatureC, MaxAwayTemperatureC)
	}
	return nil
}
