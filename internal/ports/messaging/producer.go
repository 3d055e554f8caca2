package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Producer publishes day-finished events to the export and e-mail queues.
// A queue with an empty URL is treated as disabled.
type Producer struct {
	sender MessageSender
	queues map[string]string
}

func NewProducer(sender MessageSender, exportQueueURL, emailQueueURL string) *Producer {
	return &Producer{
		sender: sender,
		queues: map[string]string{
			"export": exportQueueURL,
			"email":  emailQueueURL,
		},
	}
}

func NewSQSProducer(client SQSClient, exportQueueURL, emailQueueURL string) *Producer {
	return NewProducer(&SQSSender{client: client}, exportQueueURL, emailQueueURL)
}

func (p *Producer) PublishExport(ctx context.Context, event DayFinishedEvent) error {
	return p.publish(ctx, "export", event)
}

func (p *Producer) PublishEmail(ctx context.Context, event DayFinishedEvent) error {
	return p.publish(ctx, "email", event)
}

func (p *Producer) publish(ctx context.Context, queue string, event DayFinishedEvent) error {
	destination := p.queues[queue]
	if destination == "" {
		return nil
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("app.journal_date", event.Date),
		attribute.String("messaging.destination.name", queue),
	)

	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", queue, err)
	}
	if err := p.sender.SendMessage(ctx, destination, b); err != nil {
		return fmt.Errorf("failed to send %s event: %w", queue, err)
	}
	return nil
}
