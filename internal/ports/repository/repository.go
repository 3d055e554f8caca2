package repository

import (
	"context"
	"errors"
	"time"

	"punchclock.service/internal/core/model"
)

// ErrVersionConflict means the stored journal changed between read and write.
var ErrVersionConflict = errors.New("journal version conflict")

// Repository contract
type Repository interface {
	// FindByDate returns the journal for the UTC date, or nil when none exists yet.
	FindByDate(ctx context.Context, date time.Time) (*model.DayJournal, error)
	// Upsert stores the journal keyed by date. A journal with Version 1 is inserted,
	// any other version replaces the stored Version-1 record.
	Upsert(ctx context.Context, journal *model.DayJournal) error
	GetDelivery(ctx context.Context, date time.Time, channel model.DeliveryChannel) (*model.Delivery, error)
	UpdateDelivery(ctx context.Context, date time.Time, channel model.DeliveryChannel, status model.DeliveryStatus, retryCount int) error
}
