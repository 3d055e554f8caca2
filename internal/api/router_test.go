package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"punchclock.service/internal/api"
	"punchclock.service/internal/core"
	"punchclock.service/internal/core/model"
	"punchclock.service/internal/ports/messaging"
	"punchclock.service/internal/ports/repository"
)

type tickingClock struct {
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(time.Hour)
	return t
}

type nopProducer struct{}

func (nopProducer) PublishExport(context.Context, messaging.DayFinishedEvent) error { return nil }
func (nopProducer) PublishEmail(context.Context, messaging.DayFinishedEvent) error  { return nil }

func newTestRouter() http.Handler {
	clk := &tickingClock{now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)}
	svc := core.NewJourneyService(repository.NewMemoryRepository(), nopProducer{},
		core.WithClock(clk), core.WithLocation(time.UTC))
	return api.NewRouter(svc, []string{"http://localhost:5173"})
}

func TestRouter_PunchThenStatus(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/journey/punch", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/journey/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var view model.StatusView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, model.StatusInProgress, view.Status)
	// Morning time only counts once lunch-out is punched
	assert.Equal(t, "00:00:00", view.WorkedTime)
	require.NotNil(t, view.ProjectedDeparture)
	assert.True(t, view.ProjectedDeparture.Equal(time.Date(2026, 3, 10, 16, 48, 0, 0, time.UTC)))
	assert.Equal(t, []string{"Entry-1: 08:00:00"}, view.Punches)
}

func TestRouter_FifthPunchRejected(t *testing.T) {
	r := newTestRouter()
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/journey/punch", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/journey/punch", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), core.ErrJourneyAlreadyComplete.Error())
}

func TestRouter_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_WrongMethod(t *testing.T) {
	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/v1/journey/punch", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/v1/journey/status", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/api/v1/health", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/journey/unknown", http.StatusNotFound},
	}
	r := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")

	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
