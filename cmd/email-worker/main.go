// Entry point for the worker that e-mails the day summary
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
	"punchclock.service/internal/config"
	"punchclock.service/internal/core"
	"punchclock.service/internal/ports/repository"
	"punchclock.service/internal/worker"
	"punchclock.service/internal/worker/email"
	"punchclock.service/pkg/aws"
	"punchclock.service/pkg/logger"
	"punchclock.service/pkg/telemetry"
)

const serviceName = "punchclock-email-worker"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	logger.Setup(cfg.IsLocalDev, serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Email worker stopped")
	}
	log.Info().Msg("Worker exited gracefully")
}

func run(ctx context.Context, cfg config.Config) error {
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

	emailService := core.NewSESEmailService(ses.NewFromConfig(awsCfg), cfg.SenderEmail)
	processor := email.NewProcessor(emailService, repo, cfg.NotifyEmail)
	worker.NewWorker(sqs.NewFromConfig(awsCfg), cfg.EmailSQSQueueURL, processor).Start(ctx)
	return nil
}
