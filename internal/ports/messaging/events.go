package messaging

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DayFinishedEvent is the JSON payload sent via SQS once the last punch of a day is recorded.
type DayFinishedEvent struct {
	EventID       uuid.UUID       `json:"eventId"`
	JournalID     uuid.UUID       `json:"journalId"`
	Date          string          `json:"date"`
	ClockIn       time.Time       `json:"clockIn"`
	ClockOut      time.Time       `json:"clockOut"`
	WorkedTime    string          `json:"workedTime"`
	HoursWorked   decimal.Decimal `json:"hoursWorked"`
	LunchMinutes  int             `json:"lunchMinutes"`
	TargetMinutes int             `json:"targetMinutes"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// Day parses the event date back into a UTC date.
func (e DayFinishedEvent) Day() (time.Time, error) {
	return time.Parse(time.DateOnly, e.Date)
}
