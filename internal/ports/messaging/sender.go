package messaging

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"punchclock.service/pkg/telemetry"
)

// EventTypeDayFinished tags messages carrying a DayFinishedEvent.
const EventTypeDayFinished = "DAY_FINISHED"

// SQSSender implements MessageSender for AWS SQS. Every message carries the
// caller's trace context and its event type as message attributes.
type SQSSender struct {
	client SQSClient
}

func (s *SQSSender) SendMessage(ctx context.Context, destination string, body []byte) error {
	attrs := telemetry.InjectTraceContext(ctx)
	attrs["EventType"] = types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(EventTypeDayFinished),
	}

	input := &sqs.SendMessageInput{
		QueueUrl:          aws.String(destination),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: attrs,
	}
	_, err := s.client.SendMessage(ctx, input)
	return err
}
