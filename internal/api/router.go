package api

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"punchclock.service/internal/api/handler"
	"punchclock.service/pkg/logger"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(service handler.JourneyService, allowedOrigins []string) http.Handler {
	journeyHandler := handler.JourneyHandler{
		Service: service,
	}

	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(loggerMiddleware)

	// Routes sit on the root router with full paths: a PathPrefix subrouter
	// would answer a wrong method with 404 instead of 405.
	const prefix = "/api/v1"
	r.HandleFunc(prefix+"/journey/punch", journeyHandler.Punch).Methods(http.MethodPost)
	r.HandleFunc(prefix+"/journey/status", journeyHandler.Status).Methods(http.MethodGet)
	r.HandleFunc(prefix+"/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})(r)
}

// loggerMiddleware injects a logger carrying trace and request ids.
func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.EnrichContextWithLogger(r.Context())
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			l := log.Ctx(ctx).With().Str("request_id", reqID).Logger()
			ctx = l.WithContext(ctx)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
