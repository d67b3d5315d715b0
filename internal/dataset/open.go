package dataset

import (
	"context"
	"fmt"

	"github.com/awaistahir/smart-wash/internal/config"
	"github.com/awaistahir/smart-wash/internal/store"
	"github.com/rs/zerolog"
)

// Open builds the configured source and its cached loader.
// The returned close func releases the store and Redis connections.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Loader, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var source Source
	switch cfg.Dataset.Source {
	case "sqlite":
		st, err := store.NewStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening store: %w", err)
		}
		closers = append(closers, func() { st.Close() })
		source = NewStoreSource(st)
	default:
		source = NewCSVSource(cfg.Dataset.Path, cfg.Dataset.SkipRows)
	}

	var redisCache *RedisCache
	if cfg.Cache.Redis.Enabled {
		rc, err := NewRedisCache(ctx, RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			TTL:      config.ParseDuration(cfg.Cache.Redis.TTL, DefaultRedisTTL),
		})
		if err != nil {
			// The shared cache is optional; keep serving from the source
			logger.Warn().Err(err).Str("addr", cfg.Cache.Redis.Addr).Msg("Redis cache unavailable, continuing without it")
		} else {
			redisCache = rc
			closers = append(closers, func() { rc.Close() })
		}
	}

	loader, err := NewLoader(source, cfg.Cache.Size, redisCache, logger)
	if err != nil {
		closeAll()
		return nil, nil, err
	}

	return loader, closeAll, nil
}
