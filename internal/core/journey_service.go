package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"punchclock.service/internal/core/model"
	"punchclock.service/internal/ports/messaging"
	"punchclock.service/internal/ports/repository"
	"punchclock.service/pkg/clock"
	"punchclock.service/pkg/logger"
)

type JourneyService struct {
	repo          repository.Repository
	producer      messaging.EventProducer
	clock         clock.Clock
	location      *time.Location
	targetMinutes int
}

// Option customises a JourneyService.
type Option func(*JourneyService)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c clock.Clock) Option {
	return func(s *JourneyService) { s.clock = c }
}

// WithLocation sets the zone punch times are displayed in.
func WithLocation(loc *time.Location) Option {
	return func(s *JourneyService) { s.location = loc }
}

// WithTargetMinutes sets the work goal given to journals created from now on.
func WithTargetMinutes(minutes int) Option {
	return func(s *JourneyService) { s.targetMinutes = minutes }
}

// NewJourneyService creates a new instance of our main application service,
// wiring up the journal repository and the event producer.
func NewJourneyService(repo repository.Repository, p messaging.EventProducer, opts ...Option) *JourneyService {
	s := &JourneyService{
		repo:          repo,
		producer:      p,
		clock:         clock.SystemClock{},
		location:      time.Local,
		targetMinutes: model.DefaultTargetMinutes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location is the zone used for displayed times.
func (s *JourneyService) Location() *time.Location {
	return s.location
}

// RecordPunch loads today's journal, fills its next slot and stores it.
// Nothing is stored when the day is already complete.
func (s *JourneyService) RecordPunch(ctx context.Context) (*model.DayJournal, error) {
	// Storage keeps microseconds; drop the rest so what we return is what we read back.
	now := s.clock.Now().UTC().Round(0).Truncate(time.Microsecond)
	today := model.DateOf(now)
	ctx = logger.WithJournalDate(ctx, today)

	current, err := s.repo.FindByDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's journal: %w", err)
	}

	updated, slot, err := RecordPunch(current, now, s.targetMinutes)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Punch rejected")
		return nil, err
	}

	if err := s.repo.Upsert(ctx, updated); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			log.Ctx(ctx).Warn().Int("version", updated.Version).Msg("Concurrent punch detected")
			return nil, ErrConcurrentPunch
		}
		return nil, fmt.Errorf("failed to store journal: %w", err)
	}
	log.Ctx(ctx).Info().Str("slot", slot.String()).Str("status", string(updated.Status)).Msg("Punch recorded")

	if updated.Status == model.StatusFinished {
		s.publishDayFinished(ctx, updated, now)
	}

	return updated, nil
}

// Status returns today's view without changing anything.
func (s *JourneyService) Status(ctx context.Context) (model.StatusView, error) {
	_, view, err := s.Today(ctx)
	return view, err
}

// Today returns today's journal (nil if none) together with its view.
func (s *JourneyService) Today(ctx context.Context) (*model.DayJournal, model.StatusView, error) {
	now := s.clock.Now().UTC()

	journal, err := s.repo.FindByDate(ctx, model.DateOf(now))
	if err != nil {
		return nil, model.StatusView{}, fmt.Errorf("failed to load today's journal: %w", err)
	}
	return journal, ComputeStatus(journal, now, s.location), nil
}

// publishDayFinished fans the finished day out to the export and email queues.
// The punch is already stored, so failures here are only logged.
func (s *JourneyService) publishDayFinished(ctx context.Context, j *model.DayJournal, now time.Time) {
	event := NewDayFinishedEvent(j, now)

	if err := s.producer.PublishExport(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to publish day-finished event to export queue")
	}
	if err := s.producer.PublishEmail(ctx, event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to publish day-finished event to email queue")
	}
}

// NewDayFinishedEvent summarises a finished journal for downstream consumers.
func NewDayFinishedEvent(j *model.DayJournal, now time.Time) messaging.DayFinishedEvent {
	t := Account(j, now)
	return messaging.DayFinishedEvent{
		EventID:       uuid.New(),
		JournalID:     j.ID,
		Date:          j.Date.Format(time.DateOnly),
		ClockIn:       *j.ClockIn,
		ClockOut:      *j.ClockOut,
		WorkedTime:    FormatHMS(t.Worked),
		HoursWorked:   decimal.NewFromFloat(t.Worked.Hours()).Round(2),
		LunchMinutes:  int(t.Lunch / time.Minute),
		TargetMinutes: j.TargetMinutes,
		OccurredAt:    now,
	}
}
