package core

import (
	"errors"
	"time"

	"punchclock.service/internal/core/model"
)

var (
	// ErrJourneyAlreadyComplete is returned when all four punches of the day are already recorded.
	ErrJourneyAlreadyComplete = errors.New("all 4 punches for today have already been recorded")
	// ErrConcurrentPunch is returned when another punch for the same day was stored first.
	ErrConcurrentPunch = errors.New("another punch for today was recorded concurrently, refresh and try again")
)

// RecordPunch fills the first empty slot of the journal with now and returns the
// updated copy. A nil journal starts a new day with the given target.
// The input journal is never modified.
func RecordPunch(current *model.DayJournal, now time.Time, targetMinutes int) (*model.DayJournal, model.Slot, error) {
	var next *model.DayJournal
	if current == nil {
		next = model.NewDayJournal(now, targetMinutes)
	} else {
		next = current.Clone()
	}

	slot, ok := next.NextSlot()
	if !ok {
		return nil, 0, ErrJourneyAlreadyComplete
	}

	next.Set(slot, now)
	next.Status = slot.StatusAfter()
	next.Version++

	return next, slot, nil
}
