package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Weekday is a day ordinal with Monday = 0 and Sunday = 6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the length of a DayMask.
const DaysPerWeek = 7

// AllWeekdays lists the days Mon→Sun.
var AllWeekdays = [DaysPerWeek]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var (
	weekdayShortNames = [DaysPerWeek]string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}
	weekdayNames      = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
)

// Zone returns a fixed location offsetMinutes east of UTC.
func Zone(offsetMinutes int) *time.Location {
	if offsetMinutes == 0 {
		return time.UTC
	}
	sign := "+"
	if offsetMinutes < 0 {
		sign = "-"
	}
	m := abs(offsetMinutes)
	return time.FixedZone(fmt.Sprintf("UTC%s%02d:%02d", sign, m/60, m%60), offsetMinutes*60)
}

// WeekdayOf projects an instant, shifted by offsetMinutes, onto the Mon=0 ordinal.
// Day masks, the resolver and display all index days through this function.
func WeekdayOf(instant time.Time, offsetMinutes int) Weekday {
	return fromStdWeekday(instant.In(Zone(offsetMinutes)).Weekday())
}

// fromStdWeekday maps time.Weekday (Sunday = 0) onto Monday = 0.
func fromStdWeekday(d time.Weekday) Weekday {
	return Weekday((int(d) + 6) % DaysPerWeek)
}

func (d Weekday) Valid() bool { return d >= Monday && d <= Sunday }

// ShortName is the three letter lowercase key, e.g. "mon".
func (d Weekday) ShortName() string {
	if !d.Valid() {
		return ""
	}
	return weekdayShortNames[d]
}

// Name is the English display name, e.g. "Monday".
func (d Weekday) Name() string {
	if !d.Valid() {
		return ""
	}
	return weekdayNames[d]
}

func (d Weekday) String() string { return d.Name() }

// ParseWeekday resolves a short or full day name, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, d := range AllWeekdays {
		if key == d.ShortName() || key == strings.ToLower(d.Name()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrParse, s)
}

// SortWeekdays orders days Mon→Sun in place. Display only.
func SortWeekdays(days []Weekday) {
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
