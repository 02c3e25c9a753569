package thermostat

import (
	"fmt"
	"strconv"
	"time"

	"heating_controller/internal/models"
)

const degreeSign = "˚"

// Summary renders a target for display, e.g. "Holding 21˚ until 18:00".
func Summary(t models.TargetTemperature, now time.Time) string {
	value := FormatTemperature(t.Value)
	if t.NextChange == nil {
		return value
	}
	until := FormatRelative(*t.NextChange, now, t.Timezone)
	if t.Holding() {
		return fmt.Sprintf("Holding %s until %s", value, until)
	}
	return fmt.Sprintf("%s until %s", value, until)
}

// FormatTemperature drops a trailing ".0".
func FormatTemperature(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + degreeSign
}

// FormatRelative describes at relative to now in the given zone:
// "7:30", "tomorrow at 7:30", "Friday at 7:30" or, a week or more out,
// "Friday 27 at 7:30".
func FormatRelative(at, now time.Time, offsetMinutes int) string {
	loc := models.Zone(offsetMinutes)
	atLocal := at.In(loc)
	clock := models.TimeOfDayFromClock(atLocal).String()

	switch days := calendarDaysBetween(now.In(loc), atLocal); {
	case days == 0:
		return clock
	case days == 1:
		return "tomorrow at " + clock
	case days > 1 && days < SearchHorizonDays:
		return fmt.Sprintf("%s at %s", models.WeekdayOf(at, offsetMinutes).Name(), clock)
	default:
		return fmt.Sprintf("%s %d at %s", models.WeekdayOf(at, offsetMinutes).Name(), atLocal.Day(), clock)
	}
}

// calendarDaysBetween counts local date boundaries from a to b.
func calendarDaysBetween(a, b time.Time) int {
	da := models.DateOf(a).Midnight(time.UTC)
	db := models.DateOf(b).Midnight(time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
