package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	destination string
	body        []byte
}

type recordingSender struct {
	sent []sentMessage
	err  error
}

func (s *recordingSender) SendMessage(_ context.Context, destination string, body []byte) error {
	s.sent = append(s.sent, sentMessage{destination, body})
	return s.err
}

func TestProducer_RoutesToQueues(t *testing.T) {
	sender := &recordingSender{}
	p := NewProducer(sender, "export-queue", "email-queue")
	event := DayFinishedEvent{Date: "2026-03-10", WorkedTime: "08:48:00", LunchMinutes: 60}

	require.NoError(t, p.PublishExport(context.Background(), event))
	require.NoError(t, p.PublishEmail(context.Background(), event))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "export-queue", sender.sent[0].destination)
	assert.Equal(t, "email-queue", sender.sent[1].destination)

	var decoded DayFinishedEvent
	require.NoError(t, json.Unmarshal(sender.sent[0].body, &decoded))
	assert.Equal(t, "2026-03-10", decoded.Date)
	assert.Equal(t, "08:48:00", decoded.WorkedTime)
	assert.Equal(t, 60, decoded.LunchMinutes)
}

func TestProducer_SkipsUnconfiguredQueue(t *testing.T) {
	sender := &recordingSender{}
	p := NewProducer(sender, "", "email-queue")

	require.NoError(t, p.PublishExport(context.Background(), DayFinishedEvent{}))
	assert.Empty(t, sender.sent)
}

func TestProducer_WrapsSendError(t *testing.T) {
	boom := errors.New("queue unavailable")
	p := NewProducer(&recordingSender{err: boom}, "export-queue", "")

	err := p.PublishExport(context.Background(), DayFinishedEvent{})
	require.ErrorIs(t, err, boom)
}

type fakeSQS struct {
	input *sqs.SendMessageInput
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	return &sqs.SendMessageOutput{}, nil
}

func TestSQSSender_TagsEventType(t *testing.T) {
	client := &fakeSQS{}
	p := NewSQSProducer(client, "https://sqs.local/export", "")

	require.NoError(t, p.PublishExport(context.Background(), DayFinishedEvent{Date: "2026-03-10"}))

	require.NotNil(t, client.input)
	assert.Equal(t, "https://sqs.local/export", *client.input.QueueUrl)
	assert.JSONEq(t, string(mustJSON(t, DayFinishedEvent{Date: "2026-03-10"})), *client.input.MessageBody)
	attr, ok := client.input.MessageAttributes["EventType"]
	require.True(t, ok)
	assert.Equal(t, EventTypeDayFinished, *attr.StringValue)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestDayFinishedEvent_Day(t *testing.T) {
	d, err := DayFinishedEvent{Date: "2026-03-10"}.Day()
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 10, d.Day())

	_, err = DayFinishedEvent{Date: "yesterday"}.Day()
	assert.Error(t, err)
}
