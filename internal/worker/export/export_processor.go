package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"punchclock.service/internal/core/model"
	"punchclock.service/internal/ports/messaging"
	"punchclock.service/internal/ports/repository"
	"punchclock.service/internal/worker"
	"punchclock.service/internal/worker/timesheet"
)

// ExportProcessor handles jobs from the export queue, which involves calling the timesheet API.
// It uses a circuit breaker to avoid hammering that system while it is having issues.
type ExportProcessor struct {
	repo      repository.Repository
	timesheet timesheet.Client
	cb        *gobreaker.CircuitBreaker
}

// NewProcessor creates a new processor for the export queue.
func NewProcessor(r repository.Repository, client timesheet.Client) *ExportProcessor {
	settings := gobreaker.Settings{
		Name:        "Timesheet-API",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// Trip if failure rate is at least 50% after at least 10 requests
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
	}

	return &ExportProcessor{
		repo:      r,
		timesheet: client,
		cb:        gobreaker.NewCircuitBreaker(settings),
	}
}

// Process exports one finished day, retrying with exponential backoff on failure.
func (p *ExportProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, errors.New("empty export message")
	}
	var event messaging.DayFinishedEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal export event")
		return false, 0, err // Do not retry on malformed message
	}
	day, err := event.Day()
	if err != nil {
		return false, 0, fmt.Errorf("invalid event date %q: %w", event.Date, err)
	}

	delivery, err := p.repo.GetDelivery(ctx, day, model.ChannelExport)
	if err != nil {
		return true, 10, fmt.Errorf("failed to get export delivery from db: %w", err)
	}
	if delivery != nil && delivery.Status == model.DeliveryCompleted {
		log.Ctx(ctx).Info().Str("date", event.Date).Msg("Day already exported. Skipping.")
		return false, 0, nil
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return nil, p.timesheet.RecordDay(ctx, event)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			log.Ctx(ctx).Warn().Msg("Circuit breaker is open; skipping timesheet API call")
		}
		retries := 1
		if delivery != nil {
			retries = delivery.RetryCount + 1
		}
		if uErr := p.repo.UpdateDelivery(ctx, day, model.ChannelExport, model.DeliveryPending, retries); uErr != nil {
			log.Ctx(ctx).Error().Err(uErr).Msg("failed to record export retry")
		}
		return true, worker.Backoff(retries), err
	}

	return false, 0, p.repo.UpdateDelivery(ctx, day, model.ChannelExport, model.DeliveryCompleted, 0)
}
