package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"punchclock.service/internal/core/model"
)

// sqliteSchema mirrors Schema with timestamps stored as RFC 3339 text.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS day_journals (
	id             TEXT PRIMARY KEY,
	journal_date   TEXT NOT NULL UNIQUE,
	clock_in       TEXT,
	lunch_out      TEXT,
	lunch_in       TEXT,
	clock_out      TEXT,
	status         TEXT NOT NULL,
	target_minutes INTEGER NOT NULL DEFAULT 528,
	version        INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS deliveries (
	journal_date TEXT NOT NULL,
	channel      TEXT NOT NULL,
	status       TEXT NOT NULL,
	retry_count  INTEGER NOT NULL DEFAULT 0,
	updated_at   TEXT NOT NULL,
	PRIMARY KEY (journal_date, channel)
);`

// SQLiteJournalRepository keeps journals in a local SQLite file, for single-user setups.
type SQLiteJournalRepository struct {
	DB *sql.DB
}

// NewSQLiteJournalRepository creates the schema if needed and returns the repository.
func NewSQLiteJournalRepository(ctx context.Context, db *sql.DB) (*SQLiteJournalRepository, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return &SQLiteJournalRepository{DB: db}, nil
}

func (r *SQLiteJournalRepository) FindByDate(ctx context.Context, date time.Time) (*model.DayJournal, error) {
	key := model.DateOf(date).Format(time.DateOnly)
	query := `SELECT id, clock_in, lunch_out, lunch_in, clock_out, status, target_minutes, version
              FROM day_journals WHERE journal_date = ?`

	var (
		id                                   string
		clockIn, lunchOut, lunchIn, clockOut sql.NullString
		j                                    model.DayJournal
	)
	err := r.DB.QueryRowContext(ctx, query, key).Scan(&id, &clockIn, &lunchOut, &lunchIn, &clockOut, &j.Status, &j.TargetMinutes, &j.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load journal for %s: %w", key, err)
	}

	if j.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("corrupt journal id %q: %w", id, err)
	}
	j.Date = model.DateOf(date)
	for slot, raw := range map[model.Slot]sql.NullString{
		model.SlotClockIn:  clockIn,
		model.SlotLunchOut: lunchOut,
		model.SlotLunchIn:  lunchIn,
		model.SlotClockOut: clockOut,
	} {
		if !raw.Valid {
			continue
		}
		t, err := time.Parse(time.RFC3339Nano, raw.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt %s timestamp %q: %w", slot, raw.String, err)
		}
		j.Set(slot, t.UTC())
	}
	return &j, nil
}

func (r *SQLiteJournalRepository) Upsert(ctx context.Context, j *model.DayJournal) error {
	var (
		res sql.Result
		err error
	)
	key := j.Date.Format(time.DateOnly)
	if j.Version <= 1 {
		query := `INSERT INTO day_journals (id, journal_date, clock_in, lunch_out, lunch_in, clock_out, status, target_minutes, version)
                  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
                  ON CONFLICT (journal_date) DO NOTHING`
		res, err = r.DB.ExecContext(ctx, query, j.ID.String(), key,
			textTime(j.ClockIn), textTime(j.LunchOut), textTime(j.LunchIn), textTime(j.ClockOut),
			string(j.Status), j.TargetMinutes, j.Version)
	} else {
		query := `UPDATE day_journals
                  SET clock_in = ?, lunch_out = ?, lunch_in = ?, clock_out = ?, status = ?, target_minutes = ?, version = ?
                  WHERE journal_date = ? AND version = ?`
		res, err = r.DB.ExecContext(ctx, query,
			textTime(j.ClockIn), textTime(j.LunchOut), textTime(j.LunchIn), textTime(j.ClockOut),
			string(j.Status), j.TargetMinutes, j.Version, key, j.Version-1)
	}
	if err != nil {
		return fmt.Errorf("failed to store journal: %w", err)
	}
	return checkAffected(res)
}

func (r *SQLiteJournalRepository) GetDelivery(ctx context.Context, date time.Time, channel model.DeliveryChannel) (*model.Delivery, error) {
	query := `SELECT status, retry_count, updated_at FROM deliveries WHERE journal_date = ? AND channel = ?`

	d := &model.Delivery{Date: model.DateOf(date), Channel: channel}
	var updatedAt string
	err := r.DB.QueryRowContext(ctx, query, d.Date.Format(time.DateOnly), string(channel)).Scan(&d.Status, &d.RetryCount, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if d.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("corrupt delivery timestamp %q: %w", updatedAt, err)
	}
	return d, nil
}

func (r *SQLiteJournalRepository) UpdateDelivery(ctx context.Context, date time.Time, channel model.DeliveryChannel, status model.DeliveryStatus, retryCount int) error {
	query := `INSERT INTO deliveries (journal_date, channel, status, retry_count, updated_at)
              VALUES (?, ?, ?, ?, ?)
              ON CONFLICT (journal_date, channel)
              DO UPDATE SET status = excluded.status, retry_count = excluded.retry_count, updated_at = excluded.updated_at`

	_, err := r.DB.ExecContext(ctx, query, model.DateOf(date).Format(time.DateOnly), string(channel), string(status), retryCount,
		time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func textTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
