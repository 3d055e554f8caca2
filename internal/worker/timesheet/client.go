package timesheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"punchclock.service/internal/ports/messaging"
)

// Client contract for the external timesheet system
type Client interface {
	RecordDay(ctx context.Context, event messaging.DayFinishedEvent) error
}

// HTTPClient pushes finished days to the timesheet API over HTTP.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient new HTTPClient
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
	}
}

// RecordDay sends the finished day to the timesheet API.
func (c *HTTPClient) RecordDay(ctx context.Context, event messaging.DayFinishedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal timesheet payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create timesheet request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", event.JournalID.String())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call timesheet api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("timesheet api returned non-successful status code: %d", resp.StatusCode)
	}

	log.Ctx(ctx).Info().Str("date", event.Date).Msg("Recorded finished day in timesheet system")
	return nil
}
