package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time without a date component.
type TimeOfDay struct {
	hours   int
	minutes int
}

// NewTimeOfDay builds a TimeOfDay, rejecting out-of-range components.
func NewTimeOfDay(hours, minutes int) (TimeOfDay, error) {
	if hours < 0 || hours > 23 {
		return TimeOfDay{}, fmt.Errorf("%w: hours %d out of range 0-23", ErrParse, hours)
	}
	if minutes < 0 || minutes > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: minutes %d out of range 0-59", ErrParse, minutes)
	}
	return TimeOfDay{hours: hours, minutes: minutes}, nil
}

// MustTimeOfDay is NewTimeOfDay for constants known to be valid.
func MustTimeOfDay(hours, minutes int) TimeOfDay {
	t, err := NewTimeOfDay(hours, minutes)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay accepts "H:MM" or "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hs, ms, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || hs == "" || len(hs) > 2 || len(ms) != 2 {
		return TimeOfDay{}, fmt.Errorf("%w: time %q, expected H:MM", ErrParse, s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: time %q: bad hours", ErrParse, s)
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: time %q: bad minutes", ErrParse, s)
	}
	return NewTimeOfDay(h, m)
}

// TimeOfDayFromClock takes the wall clock of t in t's own location.
// Seconds are truncated.
func TimeOfDayFromClock(t time.Time) TimeOfDay {
	return TimeOfDay{hours: t.Hour(), minutes: t.Minute()}
}

// TimeOfDayFromMinutes converts minutes since midnight back into a TimeOfDay.
func TimeOfDayFromMinutes(m int) (TimeOfDay, error) {
	if m < 0 || m >= minutesPerDay {
		return TimeOfDay{}, fmt.Errorf("%w: %d minutes since midnight out of range", ErrParse, m)
	}
	return TimeOfDay{hours: m / 60, minutes: m % 60}, nil
}

func (t TimeOfDay) Hours() int   { return t.hours }
func (t TimeOfDay) Minutes() int { return t.minutes }

// ToMinutes returns minutes since midnight (0-1439), the ordering key.
func (t TimeOfDay) ToMinutes() int {
	return t.hours*60 + t.minutes
}

// Compare returns -1, 0 or +1.
func (t TimeOfDay) Compare(o TimeOfDay) int {
	a, b := t.ToMinutes(), o.ToMinutes()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (t TimeOfDay) Before(o TimeOfDay) bool { return t.ToMinutes() < o.ToMinutes() }
func (t TimeOfDay) After(o TimeOfDay) bool  { return t.ToMinutes() > o.ToMinutes() }
func (t TimeOfDay) Equal(o TimeOfDay) bool  { return t.ToMinutes() == o.ToMinutes() }

// On places t on the calendar day of day, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.hours, t.minutes, 0, 0, day.Location())
}

// String renders H:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%d:%02d", t.hours, t.minutes)
}

// clockObject is the {hours, minutes} wire shape.
type clockObject struct {
	Hours   *int `json:"hours"`
	Minutes *int `json:"minutes"`
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts "H:MM" or {"hours":h,"minutes":m}.
func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("%w: empty time", ErrParse)
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("%w: time: %v", ErrParse, err)
		}
		v, err := ParseTimeOfDay(s)
		if err != nil {
			return err
		}
		*t = v
		return nil
	case '{':
		var obj clockObject
		if err := json.Unmarshal(b, &obj); err != nil {
			return fmt.Errorf("%w: time: %v", ErrParse, err)
		}
		if obj.Hours == nil || obj.Minutes == nil {
			return fmt.Errorf("%w: time object needs hours and minutes", ErrParse)
		}
		v, err := NewTimeOfDay(*obj.Hours, *obj.Minutes)
		if err != nil {
			return err
		}
		*t = v
		return nil
	default:
		return fmt.Errorf("%w: time %s is neither a string nor an object", ErrParse, string(b))
	}
}
