package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/bistro_boss/internal/config"
)

// Open connects the backend selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL)
	case config.DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
