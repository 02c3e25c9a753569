package service

import "time"

// HoldParams describes a hold request. Exactly one of Until and Duration is set.
type HoldParams struct {
	Value    float64       // °C
	Until    time.Time     // absolute end
	Duration time.Duration // relative to now
}

// AuthConfig carries the JWT signing parameters.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "", "TARGET_CHANGE", "HOLD_SET", "RULE_CREATED", ...
	Limit int       // newest N; 0 means all
}
