// Package bootstrap wires the process-level dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"shelfware/internal/auth"
	"shelfware/internal/cache"
	"shelfware/internal/config"
	"shelfware/internal/database"
	"shelfware/internal/middleware"
	"shelfware/internal/observability"
	"shelfware/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Seed creates the demo users and sample projects after connecting.
	Seed bool
}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
// The Redis client is nil when REDIS_URL is unset or unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	r := cache.Connect(ctx, cfg.RedisURL)

	if opts.Seed {
		if err := SeedDemoData(db); err != nil {
			_ = database.Close(db)
			return nil, nil, err
		}
	}

	return db, r, nil
}

// SeedDemoData creates the demo users and sample projects, skipping any that exist.
func SeedDemoData(db *gorm.DB) error {
	users, err := seed.Users(db, auth.NewBcryptHasher(auth.DefaultBcryptCost))
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	projects, err := seed.Projects(db)
	if err != nil {
		return fmt.Errorf("failed to seed projects: %w", err)
	}
	middleware.Logger.Info("demo data seeded", slog.Int("users", users), slog.Int("projects", projects))
	return nil
}

// InitTracing starts the tracer provider described by cfg.
func InitTracing(cfg *config.Config, version string) (func(context.Context) error, error) {
	return observability.InitTracing(observability.TracingConfig{
		ServiceName:    "shelfware-api",
		ServiceVersion: version,
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	})
}
