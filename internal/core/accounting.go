package core

import (
	"fmt"
	"time"

	"punchclock.service/internal/core/model"
)

const (
	MessageNoJourney = "no journey started today"
	MessageJourney   = "journey status for today"

	punchTimeLayout = "15:04:05"
)

// Tally holds the raw durations behind a StatusView.
type Tally struct {
	Worked             time.Duration
	Lunch              time.Duration
	ProjectedDeparture *time.Time
}

// Account computes worked time, lunch length and projected departure for a journal at now.
//
// Worked time is the morning interval (lunch-out minus clock-in) plus the afternoon
// interval (clock-out, or now while still working, minus lunch-in). The projected
// departure is clock-in plus the target plus however long lunch took, so a longer
// lunch pushes the end of the day back.
func Account(j *model.DayJournal, now time.Time) Tally {
	var t Tally
	if j == nil || j.ClockIn == nil {
		return t
	}

	if j.LunchOut != nil {
		t.Worked += j.LunchOut.Sub(*j.ClockIn)
	}
	if j.LunchIn != nil {
		end := now
		if j.ClockOut != nil {
			end = *j.ClockOut
		}
		t.Worked += end.Sub(*j.LunchIn)
	}

	t.Lunch = firstSet(now, j.LunchIn, j.LunchOut).Sub(firstSet(now, j.LunchOut))
	if t.Lunch < 0 {
		t.Lunch = 0
	}

	departure := j.ClockIn.Add(time.Duration(j.TargetMinutes)*time.Minute + t.Lunch)
	t.ProjectedDeparture = &departure

	return t
}

// ComputeStatus builds the display view of a journal. Timestamps are shown in loc.
func ComputeStatus(j *model.DayJournal, now time.Time, loc *time.Location) model.StatusView {
	if j == nil || j.ClockIn == nil {
		return model.StatusView{
			Message:    MessageNoJourney,
			WorkedTime: FormatHMS(0),
			Status:     model.StatusPending,
			Punches:    []string{},
		}
	}
	if loc == nil {
		loc = time.Local
	}

	t := Account(j, now)
	departure := t.ProjectedDeparture.In(loc)

	punches := make([]string, 0, len(model.Slots))
	for _, s := range model.Slots {
		if at := j.At(s); at != nil {
			punches = append(punches, fmt.Sprintf("%s: %s", s.Label(), at.In(loc).Format(punchTimeLayout)))
		}
	}

	return model.StatusView{
		Message:            MessageJourney,
		WorkedTime:         FormatHMS(t.Worked),
		ProjectedDeparture: &departure,
		Status:             j.Status,
		Punches:            punches,
	}
}

// FormatHMS renders d as HH:MM:SS using total hours, so values past 24h keep counting.
// Negative durations render as zero.
func FormatHMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}

// firstSet returns the first non-nil timestamp, falling back to now.
func firstSet(now time.Time, ts ...*time.Time) time.Time {
	for _, t := range ts {
		if t != nil {
			return *t
		}
	}
	return now
}
