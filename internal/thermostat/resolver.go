// Package thermostat turns heating rules, an optional hold and settings into
// the temperature a device should hold right now and when that will change.
// Everything here is a pure function of its arguments.
package thermostat

import (
	"sort"
	"time"

	"heating_controller/internal/models"
)

// SearchHorizonDays bounds the forward search. Weekly rules repeat within it;
// one-shot dates further out are never found.
const SearchHorizonDays = 7

// Match is the schedule governing the device and the rule that owns it.
type Match struct {
	Rule     models.Rule
	Schedule models.Schedule
}

// ResolverResult is what ResolveDeviceState found.
// Current is nil when no schedule covers now; NextChange is nil when nothing
// applies anywhere in the horizon.
type ResolverResult struct {
	Current    *Match
	NextChange *time.Time
}

// ResolveDeviceState scans today from now, then each following local
// midnight up to the horizon, and stops at the first day with a usable
// schedule. Rules are assumed valid; see models.Rule.Validate.
func ResolveDeviceState(rules []models.Rule, now time.Time, offsetMinutes int) ResolverResult {
	active := activeRules(rules)
	if len(active) == 0 {
		return ResolverResult{}
	}

	loc := models.Zone(offsetMinutes)
	nowLocal := now.In(loc)
	todayMidnight := models.DateOf(nowLocal).Midnight(loc)

	for i := 0; i < SearchHorizonDays; i++ {
		day := nowLocal
		if i > 0 {
			day = todayMidnight.AddDate(0, 0, i)
		}
		ref := models.TimeOfDayFromClock(day)

		candidates := candidatesFrom(rulesForDay(active, day, offsetMinutes), ref)
		if len(candidates) == 0 {
			continue
		}

		first := candidates[0]
		// only today's reference is "now"; later days start at midnight
		if i == 0 && first.Schedule.Contains(ref) {
			next := first.Schedule.To.On(day)
			return ResolverResult{Current: &first, NextChange: &next}
		}
		next := first.Schedule.From.On(day)
		return ResolverResult{NextChange: &next}
	}
	return ResolverResult{}
}

func activeRules(rules []models.Rule) []models.Rule {
	out := make([]models.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Active {
			out = append(out, r)
		}
	}
	return out
}

// rulesForDay picks the rule set for one day. Any one-shot rule dated on the
// day pre-empts every repeating rule for that whole day.
func rulesForDay(active []models.Rule, day time.Time, offsetMinutes int) []models.Rule {
	var oneShot, repeating []models.Rule
	for _, r := range active {
		if !r.AppliesOn(day, offsetMinutes) {
			continue
		}
		if r.Repeat {
			repeating = append(repeating, r)
		} else {
			oneShot = append(oneShot, r)
		}
	}
	if len(oneShot) > 0 {
		return oneShot
	}
	return repeating
}

// candidatesFrom flattens schedules that cover ref or start at/after it,
// ordered by start. Equal starts keep rule/schedule order.
func candidatesFrom(rules []models.Rule, ref models.TimeOfDay) []Match {
	var out []Match
	for _, r := range rules {
		for _, s := range r.Schedules {
			if s.Contains(ref) || !s.From.Before(ref) {
				out = append(out, Match{Rule: r, Schedule: s})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Schedule.From.Before(out[j].Schedule.From)
	})
	return out
}
