package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"punchclock.service/internal/api/handler"
	"punchclock.service/internal/core"
	"punchclock.service/internal/core/model"
)

type stubService struct {
	journal *model.DayJournal
	view    model.StatusView
	err     error
}

func (s *stubService) RecordPunch(context.Context) (*model.DayJournal, error) {
	return s.journal, s.err
}

func (s *stubService) Status(context.Context) (model.StatusView, error) {
	return s.view, s.err
}

func TestPunch_ReturnsJournal(t *testing.T) {
	j := model.NewDayJournal(jan(1), 528)
	j.Set(model.SlotClockIn, jan(1))
	j.Status = model.StatusInProgress
	h := &handler.JourneyHandler{Service: &stubService{journal: j}}

	rec := httptest.NewRecorder()
	h.Punch(rec, httptest.NewRequest(http.MethodPost, "/api/v1/journey/punch", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body model.DayJournal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, j.ID, body.ID)
	assert.Equal(t, model.StatusInProgress, body.Status)
	assert.Nil(t, body.LunchOut)
}

func TestPunch_CompletedDayIsBadRequest(t *testing.T) {
	h := &handler.JourneyHandler{Service: &stubService{err: core.ErrJourneyAlreadyComplete}}

	rec := httptest.NewRecorder()
	h.Punch(rec, httptest.NewRequest(http.MethodPost, "/api/v1/journey/punch", nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"all 4 punches for today have already been recorded"}`, rec.Body.String())
}

func TestStatus_ReturnsView(t *testing.T) {
	view := model.StatusView{
		Message:    core.MessageJourney,
		WorkedTime: "02:00:00",
		Status:     model.StatusInProgress,
		Punches:    []string{"Entry-1: 08:00:00"},
	}
	h := &handler.JourneyHandler{Service: &stubService{view: view}}

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/api/v1/journey/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body model.StatusView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, view, body)
}

func jan(hour int) time.Time {
	return time.Date(2026, 1, 5, hour, 0, 0, 0, time.UTC)
}
