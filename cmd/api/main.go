// Entry point for the punch clock REST API
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"punchclock.service/internal/api"
	"punchclock.service/internal/config"
	"punchclock.service/internal/core"
	"punchclock.service/internal/ports/messaging"
	"punchclock.service/internal/ports/repository"
	"punchclock.service/pkg/aws"
	"punchclock.service/pkg/logger"
	"punchclock.service/pkg/telemetry"
)

const serviceName = "punchclock-api"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	logger.Setup(cfg.IsLocalDev, serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("API stopped")
	}
	log.Info().Msg("Server exiting")
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
	log.Info().Str("driver", cfg.DBDriver).Msg("Journal storage ready")

	awsCfg, err := aws.NewAWSConfig(ctx, cfg)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	producer := messaging.NewSQSProducer(sqs.NewFromConfig(awsCfg), cfg.ExportSQSQueueURL, cfg.EmailSQSQueueURL)
	journeyService := core.NewJourneyService(repo, producer,
		core.WithLocation(loc),
		core.WithTargetMinutes(cfg.DefaultTargetMinutes),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           otelhttp.NewHandler(api.NewRouter(journeyService, cfg.AllowedOrigins()), "api"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("API Service starting")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")
	// In-flight punches get five seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
