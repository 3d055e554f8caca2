package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultTargetMinutes is the daily work goal (8h48m) used when none is configured.
const DefaultTargetMinutes = 528

// JourneyStatus is derived from which punch slots of a day are filled.
type JourneyStatus string

const (
	StatusPending    JourneyStatus = "Pending"
	StatusInProgress JourneyStatus = "InProgress"
	StatusOnBreak    JourneyStatus = "OnBreak"
	StatusFinished   JourneyStatus = "Finished"
)

// Slot names one of the four punches of a day, in fill order.
type Slot int

const (
	SlotClockIn Slot = iota
	SlotLunchOut
	SlotLunchIn
	SlotClockOut
)

// Slots lists every slot in the order punches fill them.
var Slots = [...]Slot{SlotClockIn, SlotLunchOut, SlotLunchIn, SlotClockOut}

var slotNames = [...]string{"clockIn", "lunchOut", "lunchIn", "clockOut"}

// slotLabels are the display labels of the punch list.
var slotLabels = [...]string{"Entry-1", "Lunch-Out", "Lunch-In", "Exit-Final"}

// statusAfter is the journey status once the slot has been filled.
var statusAfter = [...]JourneyStatus{StatusInProgress, StatusOnBreak, StatusInProgress, StatusFinished}

func (s Slot) String() string { return slotNames[s] }

// Label returns the human-facing label used in the punch list.
func (s Slot) Label() string { return slotLabels[s] }

// StatusAfter returns the status a journal reaches when this slot gets filled.
func (s Slot) StatusAfter() JourneyStatus { return statusAfter[s] }

// DayJournal is the attendance record of a single calendar day (UTC date).
type DayJournal struct {
	ID            uuid.UUID     `json:"id"`
	Date          time.Time     `json:"date"`
	ClockIn       *time.Time    `json:"clockIn"`
	LunchOut      *time.Time    `json:"lunchOut"`
	LunchIn       *time.Time    `json:"lunchIn"`
	ClockOut      *time.Time    `json:"clockOut"`
	Status        JourneyStatus `json:"status"`
	TargetMinutes int           `json:"targetMinutes"`
	// Version is bumped on every punch and guards concurrent writes for the same date.
	Version int `json:"version"`
}

// NewDayJournal returns an empty journal for the UTC date of day.
func NewDayJournal(day time.Time, targetMinutes int) *DayJournal {
	if targetMinutes <= 0 {
		targetMinutes = DefaultTargetMinutes
	}
	return &DayJournal{
		ID:            uuid.New(),
		Date:          DateOf(day),
		Status:        StatusPending,
		TargetMinutes: targetMinutes,
	}
}

// DateOf truncates t to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// At returns the timestamp recorded for slot, or nil when it has not happened yet.
func (j *DayJournal) At(s Slot) *time.Time {
	return *j.field(s)
}

// Set records t for slot.
func (j *DayJournal) Set(s Slot, t time.Time) {
	*j.field(s) = &t
}

func (j *DayJournal) field(s Slot) **time.Time {
	switch s {
	case SlotClockIn:
		return &j.ClockIn
	case SlotLunchOut:
		return &j.LunchOut
	case SlotLunchIn:
		return &j.LunchIn
	case SlotClockOut:
		return &j.ClockOut
	default:
		panic(fmt.Sprintf("model: unknown slot %d", int(s)))
	}
}

// NextSlot returns the first slot not yet punched; ok is false when the day is complete.
func (j *DayJournal) NextSlot() (slot Slot, ok bool) {
	for _, s := range Slots {
		if j.At(s) == nil {
			return s, true
		}
	}
	return 0, false
}

// DeriveStatus computes the status from the filled slots alone.
func (j *DayJournal) DeriveStatus() JourneyStatus {
	status := StatusPending
	for _, s := range Slots {
		if j.At(s) == nil {
			break
		}
		status = s.StatusAfter()
	}
	return status
}

// Clone returns a deep copy so callers can mutate without touching stored state.
func (j *DayJournal) Clone() *DayJournal {
	c := *j
	for _, s := range Slots {
		if t := j.At(s); t != nil {
			c.Set(s, *t)
		}
	}
	return &c
}

// StatusView is the read-only, display-ready summary of a day.
type StatusView struct {
	Message            string        `json:"message"`
	WorkedTime         string        `json:"workedTime"`
	ProjectedDeparture *time.Time    `json:"projectedDeparture"`
	Status             JourneyStatus `json:"status"`
	Punches            []string      `json:"punches"`
}

// DeliveryChannel identifies a side effect tracked once per day.
type DeliveryChannel string

const (
	ChannelExport           DeliveryChannel = "export"
	ChannelEmail            DeliveryChannel = "email"
	ChannelLunchReturn      DeliveryChannel = "lunch_return"
	ChannelDepartureSoon    DeliveryChannel = "departure_soon"
	ChannelDepartureReached DeliveryChannel = "departure_reached"
)

// DeliveryStatus defines the state of a tracked side effect.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryCompleted DeliveryStatus = "COMPLETED"
)

// Delivery records whether a side effect for a given day has been carried out.
type Delivery struct {
	Date       time.Time       `json:"date"`
	Channel    DeliveryChannel `json:"channel"`
	Status     DeliveryStatus  `json:"status"`
	RetryCount int             `json:"retryCount"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
