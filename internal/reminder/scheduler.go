package reminder

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"punchclock.service/internal/core"
	"punchclock.service/internal/core/model"
	"punchclock.service/pkg/clock"
)

// Journey gives the scheduler today's journal and its computed view.
type Journey interface {
	Today(ctx context.Context) (*model.DayJournal, model.StatusView, error)
}

// DeliveryStore remembers which alerts went out for a day.
type DeliveryStore interface {
	GetDelivery(ctx context.Context, date time.Time, channel model.DeliveryChannel) (*model.Delivery, error)
	UpdateDelivery(ctx context.Context, date time.Time, channel model.DeliveryChannel, status model.DeliveryStatus, retryCount int) error
}

// Notifier delivers an alert to the worker.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// Scheduler polls today's status and sends each due alert once per day.
type Scheduler struct {
	journey  Journey
	store    DeliveryStore
	notifier Notifier
	clock    clock.Clock
	rules    Rules
	interval time.Duration
}

func NewScheduler(journey Journey, store DeliveryStore, notifier Notifier, c clock.Clock, rules Rules, interval time.Duration) *Scheduler {
	return &Scheduler{
		journey:  journey,
		store:    store,
		notifier: notifier,
		clock:    c,
		rules:    rules,
		interval: interval,
	}
}

// Run checks immediately and then on every tick until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().Dur("interval", s.interval).Msg("Reminder scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if err := s.Tick(ctx); err != nil {
			log.Error().Err(err).Msg("Reminder check failed")
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("Reminder scheduler shutting down...")
			return
		case <-ticker.C:
		}
	}
}

// Tick evaluates the current day once and sends whatever is due and not yet sent.
// It returns the first error that stopped the check; notifier failures are
// retried on the next tick.
func (s *Scheduler) Tick(ctx context.Context) error {
	journal, view, err := s.journey.Today(ctx)
	if err != nil {
		return err
	}
	now := s.clock.Now()

	for _, alert := range Evaluate(journal, view, now, s.rules) {
		sent, err := s.store.GetDelivery(ctx, journal.Date, alert.Channel)
		if err != nil {
			return err
		}
		if sent != nil && sent.Status == model.DeliveryCompleted {
			continue
		}

		if err := s.notifier.Notify(ctx, alert); err != nil {
			retries := 1
			if sent != nil {
				retries = sent.RetryCount + 1
			}
			log.Ctx(ctx).Warn().Err(err).Str("channel", string(alert.Channel)).Int("retries", retries).Msg("Reminder not delivered")
			if uErr := s.store.UpdateDelivery(ctx, journal.Date, alert.Channel, model.DeliveryPending, retries); uErr != nil {
				return uErr
			}
			continue
		}

		if err := s.store.UpdateDelivery(ctx, journal.Date, alert.Channel, model.DeliveryCompleted, 0); err != nil {
			return err
		}
		log.Ctx(ctx).Info().Str("channel", string(alert.Channel)).Msg("Reminder sent")
	}
	return nil
}

// EmailNotifier sends alerts by e-mail behind a circuit breaker.
type EmailNotifier struct {
	email     core.EmailService
	recipient string
	cb        *gobreaker.CircuitBreaker
}

func NewEmailNotifier(email core.EmailService, recipient string) *EmailNotifier {
	return &EmailNotifier{
		email:     email,
		recipient: recipient,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "Reminder-Email",
			MaxRequests: 1,
			Timeout:     5 * time.Minute,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, alert Alert) error {
	_, err := n.cb.Execute(func() (interface{}, error) {
		return nil, n.email.SendNotification(ctx, n.recipient, alert.Title, alert.Message)
	})
	return err
}
