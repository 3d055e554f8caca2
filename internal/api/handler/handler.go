package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"punchclock.service/internal/core/model"
)

// JourneyService is what the handlers need from the core.
type JourneyService interface {
	RecordPunch(ctx context.Context) (*model.DayJournal, error)
	Status(ctx context.Context) (model.StatusView, error)
}

type JourneyHandler struct {
	Service JourneyService
}

type errorResponse struct {
	Message string `json:"message"`
}

// Punch records the next punch of today.
func (h *JourneyHandler) Punch(w http.ResponseWriter, r *http.Request) {
	journal, err := h.Service.RecordPunch(r.Context())
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusOK, journal)
}

// Status returns the computed view of today.
func (h *JourneyHandler) Status(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Status(r.Context())
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusOK, view)
}

// writeError reports every core failure as a bad request carrying its message.
func writeError(r *http.Request, w http.ResponseWriter, err error) {
	log.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeJSON(r, w, http.StatusBadRequest, errorResponse{Message: err.Error()})
}

func writeJSON(r *http.Request, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
