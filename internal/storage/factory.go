package storage

import (
	"context"
	"fmt"

	"github.com/yourname/northstar/internal"
	"github.com/yourname/northstar/internal/config"
)

// New picks the backend declared in config.
func New(ctx context.Context, cfg *config.Config, logger internal.Logger) (Store, error) {
	switch cfg.StorageBackend {
	case "postgres":
		return NewPostgresStore(ctx, cfg.PostgresDSN, logger)
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
