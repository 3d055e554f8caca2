package logger

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Setup configures the global zerolog logger for one process. Every line
// carries the service name; local development gets colored console output.
func Setup(isLocalDev bool, service string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	base := zerolog.New(os.Stderr)
	if isLocalDev {
		level = zerolog.DebugLevel
		base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = base.With().Timestamp().Str("service", service).Logger()
	// log.Ctx falls back to this when a context has no logger attached.
	zerolog.DefaultContextLogger = &log.Logger
}

// EnrichContextWithLogger attaches a logger to ctx, tagged with the trace and
// span ids of the active span when there is one.
func EnrichContextWithLogger(ctx context.Context) context.Context {
	lc := log.With()
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		lc = lc.Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String())
	}
	return lc.Logger().WithContext(ctx)
}

// WithJournalDate tags the context logger with the day being worked on.
func WithJournalDate(ctx context.Context, date time.Time) context.Context {
	l := zerolog.Ctx(ctx).With().Str("journal_date", date.Format(time.DateOnly)).Logger()
	return l.WithContext(ctx)
}
