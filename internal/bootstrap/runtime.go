// Package bootstrap opens and closes the process-wide datastore and Redis handles.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"forumhub/internal/cache"
	"forumhub/internal/config"
	"forumhub/internal/database"
	"forumhub/internal/middleware"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Migrate runs schema migrations after connecting.
	Migrate bool
	// RequireRedis fails startup instead of running uncached when Redis is unreachable.
	RequireRedis bool
}

// Runtime owns the connections shared by the server and tooling.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// InitRuntime connects to the database and, when REDIS_URL is set, to Redis.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.Migrate {
		if err := database.Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, err
		}
	}

	rt := &Runtime{DB: db}
	if cfg.RedisURL == "" {
		middleware.Logger.Info("REDIS_URL not set, running without cache")
		return rt, nil
	}

	rdb, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		if opts.RequireRedis {
			_ = database.Close(db)
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		middleware.Logger.Warn("redis unavailable, running without cache", slog.String("error", err.Error()))
		return rt, nil
	}
	rt.Redis = rdb

	return rt, nil
}

// Close releases Redis and the database pool.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := database.Close(r.DB); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
