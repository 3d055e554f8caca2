package timesheet_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"punchclock.service/internal/ports/messaging"
	"punchclock.service/internal/worker/timesheet"
)

func TestHTTPClient_RecordDay(t *testing.T) {
	journalID := uuid.New()
	var (
		gotKey   string
		gotEvent messaging.DayFinishedEvent
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotKey = r.Header.Get("Idempotency-Key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotEvent))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := timesheet.NewHTTPClient(srv.URL).RecordDay(context.Background(), messaging.DayFinishedEvent{
		JournalID: journalID,
		Date:      "2026-03-10",
	})

	require.NoError(t, err)
	assert.Equal(t, journalID.String(), gotKey)
	assert.Equal(t, "2026-03-10", gotEvent.Date)
}

func TestHTTPClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := timesheet.NewHTTPClient(srv.URL).RecordDay(context.Background(), messaging.DayFinishedEvent{Date: "2026-03-10"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
