package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"punchclock.service/internal/core/model"
)

func TestNextSlot(t *testing.T) {
	j := model.NewDayJournal(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), 528)

	for _, want := range model.Slots {
		slot, ok := j.NextSlot()
		assert.True(t, ok)
		assert.Equal(t, want, slot)
		j.Set(slot, time.Date(2026, 3, 10, 8+int(slot), 0, 0, 0, time.UTC))
	}

	_, ok := j.NextSlot()
	assert.False(t, ok)
}

func TestDeriveStatus(t *testing.T) {
	j := model.NewDayJournal(time.Now(), 528)
	assert.Equal(t, model.StatusPending, j.DeriveStatus())

	want := []model.JourneyStatus{model.StatusInProgress, model.StatusOnBreak, model.StatusInProgress, model.StatusFinished}
	for i, s := range model.Slots {
		j.Set(s, time.Now())
		assert.Equal(t, want[i], j.DeriveStatus())
	}
}

func TestClone_IsIndependent(t *testing.T) {
	in := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	j := model.NewDayJournal(in, 528)
	j.Set(model.SlotClockIn, in)

	c := j.Clone()
	*c.ClockIn = in.Add(time.Hour)
	c.Set(model.SlotLunchOut, in.Add(4*time.Hour))

	assert.Equal(t, in, *j.ClockIn)
	assert.Nil(t, j.LunchOut)
}

func TestSlotLabels(t *testing.T) {
	assert.Equal(t, "Entry-1", model.SlotClockIn.Label())
	assert.Equal(t, "Lunch-Out", model.SlotLunchOut.Label())
	assert.Equal(t, "Lunch-In", model.SlotLunchIn.Label())
	assert.Equal(t, "Exit-Final", model.SlotClockOut.Label())
	assert.Equal(t, "lunchIn", model.SlotLunchIn.String())
}

func TestDateOf(t *testing.T) {
	local := time.Date(2026, 3, 10, 22, 15, 0, 0, time.FixedZone("BRT", -3*3600))
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), model.DateOf(local))
}

func TestUnknownSlotPanics(t *testing.T) {
	j := model.NewDayJournal(time.Now(), 528)
	bogus := model.Slot(len(model.Slots))

	assert.Panics(t, func() { j.At(bogus) })
	assert.Panics(t, func() { j.Set(bogus, time.Now()) })
	assert.Panics(t, func() { _ = bogus.String() })
	assert.Nil(t, j.ClockOut)
}
