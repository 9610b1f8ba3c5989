// Package storage opens the repository backend selected by configuration.
package storage

import (
	"context"
	"log/slog"

	portsrepo "github.com/SscSPs/smb_books_app/internal/core/ports/repositories"
	"github.com/SscSPs/smb_books_app/internal/platform/config"
	"github.com/SscSPs/smb_books_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/smb_books_app/internal/repositories/memory"
	"github.com/SscSPs/smb_books_app/pkg/database"
)

// Open builds the configured repositories. Postgres is migrated to the latest
// schema when migrate is set, before the pool is opened. The returned func
// releases the backend.
func Open(ctx context.Context, cfg *config.Config, migrate bool, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("Using in-memory storage; data is lost on exit")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil
	}

	if migrate {
		logger.Info("Running database migrations...")
		changed, err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath, true)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, err
		}
		if changed {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}
