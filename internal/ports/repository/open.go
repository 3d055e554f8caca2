package repository

import (
	"context"
	"fmt"

	"punchclock.service/internal/config"
	"punchclock.service/pkg/database"
)

// Open builds the repository selected by DB_DRIVER. The returned close
// function releases the underlying connection.
func Open(ctx context.Context, cfg config.Config) (Repository, func() error, error) {
	if cfg.DBDriver == config.DriverMemory {
		return NewMemoryRepository(), func() error { return nil }, nil
	}

	db, err := database.NewInstrumentedConnection(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening database: %w", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		repo, err := NewSQLiteJournalRepository(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db.Close, nil
	}

	repo := &JournalRepository{DB: db}
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to migrate postgres schema: %w", err)
	}
	return repo, db.Close, nil
}
