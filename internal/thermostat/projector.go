package thermostat

import (
	"time"

	"heating_controller/internal/models"
)

// manualHoldID stands in for a hold stored without an id, so the result
// still reads as holding.
const manualHoldID = "manual"

// ProjectTargetTemperature merges a resolver result with the hold and the
// away temperature. An active hold always wins.
func ProjectTargetTemperature(res ResolverResult, hold *models.Hold, awayTemperature float64, offsetMinutes int, now time.Time) models.TargetTemperature {
	out := models.TargetTemperature{
		Value:    awayTemperature,
		Timezone: offsetMinutes,
	}

	switch {
	case hold.IsActive(now):
		until := hold.UntilTime
		out.Value = hold.Value
		out.NextChange = &until
		out.HoldID = hold.ID
		if out.HoldID == "" {
			out.HoldID = manualHoldID
		}
	case res.Current != nil:
		out.Value = res.Current.Schedule.High
		out.FromSchedule = true
		out.NextChange = copyTime(res.NextChange)
	default:
		out.NextChange = copyTime(res.NextChange)
	}
	return out
}

// Compute runs the whole pipeline for one instant and fills in display fields.
func Compute(rules []models.Rule, hold *models.Hold, settings models.Settings, now time.Time) models.TargetView {
	res := ResolveDeviceState(rules, now, settings.TimezoneOffsetMinutes)
	target := ProjectTargetTemperature(res, hold, settings.AwayTemperature, settings.TimezoneOffsetMinutes, now)

	view := models.TargetView{
		TargetTemperature: target,
		Summary:           Summary(target, now),
		At:                now,
	}
	if target.FromSchedule && res.Current != nil {
		sched := res.Current.Schedule
		view.RuleID = res.Current.Rule.ID
		view.RuleName = res.Current.Rule.Name
		view.Schedule = &sched
	}
	return view
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
