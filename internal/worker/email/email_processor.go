package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
	"punchclock.service/internal/core"
	"punchclock.service/internal/core/model"
	"punchclock.service/internal/ports/messaging"
	"punchclock.service/internal/ports/repository"
	"punchclock.service/internal/worker"
)

type EmailProcessor struct {
	emailService core.EmailService
	repo         repository.Repository
	recipient    string
}

// NewProcessor sets up a new processor for handling day summary emails.
func NewProcessor(emailService core.EmailService, repo repository.Repository, recipient string) *EmailProcessor {
	return &EmailProcessor{
		emailService: emailService,
		repo:         repo,
		recipient:    recipient,
	}
}

// Process sends the summary of a finished day, asking for a retry if something goes wrong.
func (p *EmailProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	if msg.Body == nil {
		return false, 0, errors.New("empty email message")
	}
	var event messaging.DayFinishedEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal email event")
		return false, 0, err // Do not retry on malformed message
	}
	day, err := event.Day()
	if err != nil {
		return false, 0, fmt.Errorf("invalid event date %q: %w", event.Date, err)
	}

	delivery, err := p.repo.GetDelivery(ctx, day, model.ChannelEmail)
	if err != nil {
		// If we can't get the record, retry after a short delay.
		return true, 10, fmt.Errorf("failed to get email delivery from db: %w", err)
	}
	if delivery != nil && delivery.Status == model.DeliveryCompleted {
		log.Ctx(ctx).Info().Str("date", event.Date).Msg("Summary already sent. Skipping.")
		return false, 0, nil
	}

	if err := p.emailService.SendDaySummary(ctx, p.recipient, event); err != nil {
		retries := 1
		if delivery != nil {
			retries = delivery.RetryCount + 1
		}
		if uErr := p.repo.UpdateDelivery(ctx, day, model.ChannelEmail, model.DeliveryPending, retries); uErr != nil {
			log.Ctx(ctx).Error().Err(uErr).Msg("failed to record email retry")
		}
		return true, worker.Backoff(retries), err
	}

	return false, 0, p.repo.UpdateDelivery(ctx, day, model.ChannelEmail, model.DeliveryCompleted, 0)
}
