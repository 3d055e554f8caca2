package database

import (
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	_ "modernc.org/sqlite" // Register sqlite driver
	"punchclock.service/internal/config"
)

// NewInstrumentedConnection opens the configured SQL backend with OpenTelemetry instrumentation.
// otelsql wraps the driver to intercept queries and create spans.
func NewInstrumentedConnection(cfg config.Config) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err = otelsql.Open("sqlite", SQLiteDSN(cfg.SQLitePath),
			otelsql.WithAttributes(semconv.DBSystemSqlite),
		)
		if err == nil {
			// A single writer keeps SQLite from returning SQLITE_BUSY and
			// makes ":memory:" databases behave as one shared database.
			db.SetMaxOpenConns(1)
		}
	case config.DriverPostgres:
		db, err = otelsql.Open("pgx", DSN(cfg),
			otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
			otelsql.WithSQLCommenter(true),
		)
	default:
		return nil, fmt.Errorf("driver %q has no SQL connection", cfg.DBDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
