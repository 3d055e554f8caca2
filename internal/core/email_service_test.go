package core_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"punchclock.service/internal/core"
	"punchclock.service/internal/ports/messaging"
)

type fakeSES struct {
	inputs []*ses.SendEmailInput
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, in)
	return &ses.SendEmailOutput{}, nil
}

func TestSESEmailService_SendDaySummary(t *testing.T) {
	client := &fakeSES{}
	svc := core.NewSESEmailService(client, "reminders@punchclock.local")

	err := svc.SendDaySummary(context.Background(), "me@example.com", messaging.DayFinishedEvent{
		Date:          "2026-03-10",
		WorkedTime:    "08:48:00",
		HoursWorked:   decimal.RequireFromString("8.8"),
		LunchMinutes:  60,
		TargetMinutes: 528,
	})
	require.NoError(t, err)

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "reminders@punchclock.local", *in.Source)
	assert.Equal(t, []string{"me@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "Workday Summary", *in.Message.Subject.Data)
	assert.Contains(t, *in.Message.Body.Text.Data, "Worked: 08:48:00 (8.80 hours)")
	assert.Contains(t, *in.Message.Body.Text.Data, "Target: 8h48m")
}

func TestFormatTarget(t *testing.T) {
	assert.Equal(t, "8h48m", core.FormatTarget(528))
	assert.Equal(t, "8h00m", core.FormatTarget(480))
}
