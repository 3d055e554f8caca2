// Stand-in for the external timesheet API, for local runs of the export worker.
package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"punchclock.service/internal/ports/messaging"
	"punchclock.service/pkg/logger"
)

func dayHandler(w http.ResponseWriter, r *http.Request) {
	var event messaging.DayFinishedEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	log.Info().
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("date", event.Date).
		Str("worked", event.WorkedTime).
		Str("hours", event.HoursWorked.StringFixed(2)).
		Str("idempotency_key", r.Header.Get("Idempotency-Key")).
		Msg("Received finished day")
	w.WriteHeader(http.StatusCreated)
}

func main() {
	logger.Setup(true, "timesheet-mock")

	addr := ":8081"
	if v := os.Getenv("MOCK_ADDR"); v != "" {
		addr = v
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Post("/", dayHandler)

	log.Info().Str("addr", addr).Msg("Timesheet mock server starting")
	log.Fatal().Err(http.ListenAndServe(addr, r)).Msg("server stopped")
}
