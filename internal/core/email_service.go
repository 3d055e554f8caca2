package core

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"punchclock.service/internal/ports/messaging"
	"punchclock.service/pkg/telemetry"
)

type EmailService interface {
	SendDaySummary(ctx context.Context, to string, event messaging.DayFinishedEvent) error
	SendNotification(ctx context.Context, to, subject, body string) error
}

// SESClient is the subset of the SES API we use.
type SESClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESEmailService struct {
	client SESClient
	sender string
}

func NewSESEmailService(client SESClient, sender string) *SESEmailService {
	return &SESEmailService{client: client, sender: sender}
}

func (s *SESEmailService) SendDaySummary(ctx context.Context, to string, event messaging.DayFinishedEvent) error {
	body := fmt.Sprintf("Hello,\n\nYour workday of %s is complete.\n\nWorked: %s (%s hours)\nLunch: %d minutes\nTarget: %s\n",
		event.Date, event.WorkedTime, event.HoursWorked.StringFixed(2), event.LunchMinutes, FormatTarget(event.TargetMinutes))
	return s.SendNotification(ctx, to, "Workday Summary", body)
}

func (s *SESEmailService) SendNotification(ctx context.Context, to, subject, body string) error {
	tracer := otel.Tracer("ses-email-service")
	ctx, span := tracer.Start(ctx, "send_email", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	if date := telemetry.GetJournalDateFromContext(ctx); date != "" {
		span.SetAttributes(attribute.String("app.journal_date", date))
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(body),
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}

// FormatTarget renders a minute goal like "8h48m".
func FormatTarget(minutes int) string {
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}
