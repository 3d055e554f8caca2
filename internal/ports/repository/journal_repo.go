package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"punchclock.service/internal/core/model"
)

// Schema is the PostgreSQL schema the repository expects.
const Schema = `
CREATE TABLE IF NOT EXISTS day_journals (
	id             UUID PRIMARY KEY,
	journal_date   DATE NOT NULL UNIQUE,
	clock_in       TIMESTAMPTZ,
	lunch_out      TIMESTAMPTZ,
	lunch_in       TIMESTAMPTZ,
	clock_out      TIMESTAMPTZ,
	status         TEXT NOT NULL,
	target_minutes INTEGER NOT NULL DEFAULT 528,
	version        INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS deliveries (
	journal_date DATE NOT NULL,
	channel      TEXT NOT NULL,
	status       TEXT NOT NULL,
	retry_count  INTEGER NOT NULL DEFAULT 0,
	updated_at   TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (journal_date, channel)
);`

// JournalRepository is the concrete implementation for a PostgreSQL database.
type JournalRepository struct {
	DB *sql.DB
}

// NewJournalRepository create new instance
func NewJournalRepository(db *sql.DB) Repository {
	return &JournalRepository{DB: db}
}

// Migrate creates the tables if they are missing.
func (r *JournalRepository) Migrate(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, Schema)
	return err
}

// FindByDate loads the journal of a day.
func (r *JournalRepository) FindByDate(ctx context.Context, date time.Time) (*model.DayJournal, error) {
	date = model.DateOf(date)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.journal_date", date.Format(time.DateOnly)))

	query := `SELECT id, journal_date, clock_in, lunch_out, lunch_in, clock_out, status, target_minutes, version
              FROM day_journals
              WHERE journal_date = $1`

	var (
		j                                    model.DayJournal
		day                                  time.Time
		clockIn, lunchOut, lunchIn, clockOut sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, date).Scan(
		&j.ID, &day, &clockIn, &lunchOut, &lunchIn, &clockOut, &j.Status, &j.TargetMinutes, &j.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load journal for %s: %w", date.Format(time.DateOnly), err)
	}

	j.Date = model.DateOf(day)
	j.ClockIn = utcPtr(clockIn)
	j.LunchOut = utcPtr(lunchOut)
	j.LunchIn = utcPtr(lunchIn)
	j.ClockOut = utcPtr(clockOut)
	return &j, nil
}

// Upsert stores the journal, refusing to overwrite a concurrent change.
func (r *JournalRepository) Upsert(ctx context.Context, j *model.DayJournal) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.journal_date", j.Date.Format(time.DateOnly)))

	var (
		res sql.Result
		err error
	)
	if j.Version <= 1 {
		query := `INSERT INTO day_journals (id, journal_date, clock_in, lunch_out, lunch_in, clock_out, status, target_minutes, version)
                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
                  ON CONFLICT (journal_date) DO NOTHING`
		res, err = r.DB.ExecContext(ctx, query, j.ID, j.Date, j.ClockIn, j.LunchOut, j.LunchIn, j.ClockOut, j.Status, j.TargetMinutes, j.Version)
	} else {
		query := `UPDATE day_journals
                  SET clock_in = $1, lunch_out = $2, lunch_in = $3, clock_out = $4, status = $5, target_minutes = $6, version = $7
                  WHERE journal_date = $8 AND version = $9`
		res, err = r.DB.ExecContext(ctx, query, j.ClockIn, j.LunchOut, j.LunchIn, j.ClockOut, j.Status, j.TargetMinutes, j.Version, j.Date, j.Version-1)
	}
	if err != nil {
		return fmt.Errorf("failed to store journal: %w", err)
	}
	return checkAffected(res)
}

// GetDelivery fetches the delivery state of a side effect, nil if never attempted.
func (r *JournalRepository) GetDelivery(ctx context.Context, date time.Time, channel model.DeliveryChannel) (*model.Delivery, error) {
	query := `SELECT journal_date, channel, status, retry_count, updated_at
              FROM deliveries WHERE journal_date = $1 AND channel = $2`

	d := &model.Delivery{}
	err := r.DB.QueryRowContext(ctx, query, model.DateOf(date), channel).Scan(&d.Date, &d.Channel, &d.Status, &d.RetryCount, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.Date = model.DateOf(d.Date)
	d.UpdatedAt = d.UpdatedAt.UTC()
	return d, nil
}

// UpdateDelivery updates the status and retry count for a tracked side effect.
func (r *JournalRepository) UpdateDelivery(ctx context.Context, date time.Time, channel model.DeliveryChannel, status model.DeliveryStatus, retryCount int) error {
	query := `INSERT INTO deliveries (journal_date, channel, status, retry_count, updated_at)
              VALUES ($1, $2, $3, $4, $5)
              ON CONFLICT (journal_date, channel)
              DO UPDATE SET status = EXCLUDED.status, retry_count = EXCLUDED.retry_count, updated_at = EXCLUDED.updated_at`

	_, err := r.DB.ExecContext(ctx, query, model.DateOf(date), channel, status, retryCount, time.Now().UTC())
	return err
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}

func utcPtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
