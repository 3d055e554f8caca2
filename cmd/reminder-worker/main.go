// Entry point for the worker that nudges the worker about lunch and departure
package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/rs/zerolog/log"
	"punchclock.service/internal/config"
	"punchclock.service/internal/core"
	"punchclock.service/internal/ports/messaging"
	"punchclock.service/internal/ports/repository"
	"punchclock.service/internal/reminder"
	"punchclock.service/pkg/aws"
	"punchclock.service/pkg/clock"
	"punchclock.service/pkg/logger"
	"punchclock.service/pkg/telemetry"
)

const serviceName = "punchclock-reminder-worker"

// errMemoryStore is returned for DB_DRIVER=memory: this process would get its
// own empty store and never see the journals the API records.
var errMemoryStore = errors.New("reminder worker needs a shared store; DB_DRIVER=memory is per process")

// nopProducer keeps the journey service read-only here; the reminder worker never punches.
type nopProducer struct{}

func (nopProducer) PublishExport(context.Context, messaging.DayFinishedEvent) error { return nil }
func (nopProducer) PublishEmail(context.Context, messaging.DayFinishedEvent) error  { return nil }

var _ messaging.EventProducer = nopProducer{}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	logger.Setup(cfg.IsLocalDev, serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Reminder worker stopped")
	}
	log.Info().Msg("Reminder worker exited gracefully")
}

func run(ctx context.Context, cfg config.Config) error {
	if cfg.DBDriver == config.DriverMemory {
		return errMemoryStore
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	shutdownTracer, err := telemetry.InitTracer(serviceName, cfg.TraceExporter, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	repo, closeRepo, err := repository.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open journal storage: %w", err)
	}
	defer closeRepo()

	awsCfg, err := aws.NewAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}

	journeyService := core.NewJourneyService(repo, nopProducer{},
		core.WithLocation(loc),
		core.WithTargetMinutes(cfg.DefaultTargetMinutes),
	)
	notifier := reminder.NewEmailNotifier(core.NewSESEmailService(ses.NewFromConfig(awsCfg), cfg.SenderEmail), cfg.NotifyEmail)
	rules := reminder.Rules{
		LunchReturnAfter: time.Duration(cfg.LunchReminderMinutes) * time.Minute,
		DepartureWarning: time.Duration(cfg.DepartureWarningMinutes) * time.Minute,
	}

	// Run returns once ctx is canceled.
	reminder.NewScheduler(journeyService, repo, notifier, clock.SystemClock{}, rules,
		time.Duration(cfg.ReminderPollSeconds)*time.Second).Run(ctx)
	return nil
}
