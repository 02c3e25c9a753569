package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Schedule is one same-day [From, To] window with a target temperature.
type Schedule struct {
	From TimeOfDay `json:"from"`
	To   TimeOfDay `json:"to"`
	High float64   `json:"high"` // °C
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (s Schedule) Contains(t TimeOfDay) bool {
	m := t.ToMinutes()
	return s.From.ToMinutes() <= m && m <= s.To.ToMinutes()
}

// Validate rejects windows that wrap past midnight.
func (s Schedule) Validate() error {
	if s.From.After(s.To) {
		return fmt.Errorf("%w: schedule %s-%s ends before it starts", ErrInvariantViolation, s.From, s.To)
	}
	if math.IsNaN(s.High) || math.IsInf(s.High, 0) {
		return fmt.Errorf("%w: schedule %s-%s has no usable temperature", ErrInvariantViolation, s.From, s.To)
	}
	return nil
}

// DayMask selects weekdays, indexed by Weekday.
type DayMask [DaysPerWeek]bool

// NewDayMask returns a mask with the given days enabled.
func NewDayMask(days ...Weekday) DayMask {
	var m DayMask
	for _, d := range days {
		if d.Valid() {
			m[d] = true
		}
	}
	return m
}

func (m DayMask) Has(d Weekday) bool {
	return d.Valid() && m[d]
}

// Days lists the enabled days Mon→Sun.
func (m DayMask) Days() []Weekday {
	out := make([]Weekday, 0, DaysPerWeek)
	for _, d := range AllWeekdays {
		if m[d] {
			out = append(out, d)
		}
	}
	return out
}

// MarshalJSON writes {"mon":true,...} with all seven keys.
func (m DayMask) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range AllWeekdays {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q:%t", d.ShortName(), m[d])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON requires an entry for every one of the seven days.
func (m *DayMask) UnmarshalJSON(b []byte) error {
	var raw map[string]bool
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: days: %v", ErrParse, err)
	}
	var out DayMask
	seen := 0
	for k, v := range raw {
		d, err := ParseWeekday(k)
		if err != nil {
			return fmt.Errorf("days: %w", err)
		}
		out[d] = v
		seen |= 1 << d
	}
	if seen != 1<<DaysPerWeek-1 {
		var missing []string
		for _, d := range AllWeekdays {
			if seen&(1<<d) == 0 {
				missing = append(missing, d.ShortName())
			}
		}
		return fmt.Errorf("%w: days: missing entries for %s", ErrParse, strings.Join(missing, ","))
	}
	*m = out
	return nil
}

// Date is a calendar day without time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// ParseDate reads YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q, expected YYYY-MM-DD", ErrParse, s)
	}
	return DateOf(t), nil
}

// DateOf takes the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// LocalDate takes the calendar date of instant shifted by offsetMinutes.
func LocalDate(instant time.Time, offsetMinutes int) Date {
	return DateOf(instant.In(Zone(offsetMinutes)))
}

func (d Date) IsZero() bool { return d == Date{} }

// Midnight returns 00:00 of d in loc.
func (d Date) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: date: %v", ErrParse, err)
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Rule is a named group of schedules that either repeats weekly on Days
// or applies only on the explicit NextDates.
type Rule struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Active    bool       `json:"active"`
	Days      DayMask    `json:"days"`
	Repeat    bool       `json:"repeat"`
	Schedules []Schedule `json:"schedules"`
	NextDates []Date     `json:"next_dates"`
}

// NewRule returns an inactive weekly rule with no days and no schedules.
func NewRule(name string) Rule {
	return Rule{
		Name:      name,
		Active:    false,
		Repeat:    true,
		Schedules: []Schedule{},
		NextDates: []Date{},
	}
}

// Validate checks the invariants the resolver relies on.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: rule name is empty", ErrInvariantViolation)
	}
	for i, s := range r.Schedules {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("rule %q schedule %d: %w", r.Name, i, err)
		}
	}
	for i, d := range r.NextDates {
		if d.IsZero() {
			return fmt.Errorf("%w: rule %q next date %d is empty", ErrInvariantViolation, r.Name, i)
		}
	}
	return nil
}

// AppliesOn reports whether the rule selects the local calendar day of day.
// Repeating rules consult Days only; one-shot rules consult NextDates only.
func (r Rule) AppliesOn(day time.Time, offsetMinutes int) bool {
	if r.Repeat {
		return r.Days.Has(WeekdayOf(day, offsetMinutes))
	}
	local := LocalDate(day, offsetMinutes)
	for _, d := range r.NextDates {
		if d == local {
			return true
		}
	}
	return false
}

// ruleWire mirrors Rule but lets decoding detect a missing day mask.
type ruleWire struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Active    bool       `json:"active"`
	Days      *DayMask   `json:"days"`
	Repeat    *bool      `json:"repeat"`
	Schedules []Schedule `json:"schedules"`
	NextDates []Date     `json:"next_dates"`
}

// UnmarshalJSON fails fast on a missing day mask. An absent repeat flag
// keeps the NewRule default.
func (r *Rule) UnmarshalJSON(b []byte) error {
	var w ruleWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.Days == nil {
		return fmt.Errorf("%w: rule %q has no days", ErrParse, w.Name)
	}
	out := NewRule(w.Name)
	out.ID = w.ID
	out.Active = w.Active
	out.Days = *w.Days
	if w.Repeat != nil {
		out.Repeat = *w.Repeat
	}
	if w.Schedules != nil {
		out.Schedules = w.Schedules
	}
	if w.NextDates != nil {
		out.NextDates = w.NextDates
	}
	*r = out
	return nil
}
