// Package reminder decides when the worker should be nudged during the day:
// back from lunch, departure coming up, and departure reached.
package reminder

import (
	"fmt"
	"time"

	"punchclock.service/internal/core"
	"punchclock.service/internal/core/model"
)

// Rules configures when alerts become due.
type Rules struct {
	// LunchReturnAfter is how long after lunch-out the return reminder fires.
	LunchReturnAfter time.Duration
	// DepartureWarning is how long before the projected departure the warning fires.
	DepartureWarning time.Duration
}

// DefaultRules matches one hour of lunch and a ten minute warning.
var DefaultRules = Rules{
	LunchReturnAfter: time.Hour,
	DepartureWarning: 10 * time.Minute,
}

// Alert is a single notification to deliver. Channel doubles as the per-day dedupe key.
type Alert struct {
	Channel model.DeliveryChannel
	Title   string
	Message string
}

// Evaluate returns the alerts due at now for the journal and its view.
// It does not know which alerts were already sent; the scheduler filters those.
func Evaluate(j *model.DayJournal, view model.StatusView, now time.Time, rules Rules) []Alert {
	if j == nil || j.ClockIn == nil || j.Status == model.StatusFinished {
		return nil
	}

	var alerts []Alert
	if j.Status == model.StatusOnBreak && j.LunchOut != nil && !now.Before(j.LunchOut.Add(rules.LunchReturnAfter)) {
		alerts = append(alerts, Alert{
			Channel: model.ChannelLunchReturn,
			Title:   "Time to head back!",
			Message: fmt.Sprintf("It has been %s since you left for lunch. Don't forget to punch back in.", humanize(rules.LunchReturnAfter)),
		})
	}

	if view.ProjectedDeparture == nil {
		return alerts
	}
	departure := *view.ProjectedDeparture
	switch {
	case !now.Before(departure):
		alerts = append(alerts, Alert{
			Channel: model.ChannelDepartureReached,
			Title:   "Workday complete!",
			Message: fmt.Sprintf("You have met your %s for today. Enjoy the rest of your day!", core.FormatTarget(j.TargetMinutes)),
		})
	case !now.Before(departure.Add(-rules.DepartureWarning)):
		alerts = append(alerts, Alert{
			Channel: model.ChannelDepartureSoon,
			Title:   "Punch clock",
			Message: fmt.Sprintf("Your workday ends in %s, at %s.", humanize(rules.DepartureWarning), departure.Format("15:04")),
		})
	}
	return alerts
}

func humanize(d time.Duration) string {
	if d%time.Hour == 0 {
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	return fmt.Sprintf("%d minutes", int(d/time.Minute))
}
