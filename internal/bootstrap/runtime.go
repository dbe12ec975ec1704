// Package bootstrap wires up runtime dependencies shared by the server
// entry point: database, Redis, and optional development seeding.
package bootstrap

import (
	"fmt"
	"strings"

	"codelens/internal/cache"
	"codelens/internal/config"
	"codelens/internal/database"
	"codelens/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedDemoData bool
}

// InitRuntime connects to the database and Redis and, in development,
// optionally seeds demo accounts. The Redis client may come back nil when
// the store is unreachable; callers degrade gracefully without it.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData && strings.EqualFold(cfg.Env, "development") {
		if err := seed.Run(db, seed.Options{}); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}
