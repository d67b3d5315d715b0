package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/awaistahir/smart-wash/internal/engine"
	"github.com/awaistahir/smart-wash/internal/metrics"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// DefaultCacheSize is how many snapshots the in-memory cache keeps
const DefaultCacheSize = 8

// Loader returns the immutable dataset snapshot for a source, caching by source identity.
// Callers must not modify the returned slice.
type Loader struct {
	source Source
	cache  *lru.Cache[string, []engine.UsageRecord]
	redis  *RedisCache
	logger zerolog.Logger
}

// NewLoader creates a loader. redisCache may be nil.
func NewLoader(source Source, cacheSize int, redisCache *RedisCache, logger zerolog.Logger) (*Loader, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[string, []engine.UsageRecord](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create dataset cache: %w", err)
	}

	return &Loader{
		source: source,
		cache:  cache,
		redis:  redisCache,
		logger: logger.With().Str("component", "dataset").Logger(),
	}, nil
}

// Load returns the current snapshot
func (l *Loader) Load(ctx context.Context) ([]engine.UsageRecord, error) {
	id := l.source.ID(ctx)

	if records, ok := l.cache.Get(id); ok {
		metrics.DatasetCacheHits.WithLabelValues("memory").Inc()
		return records, nil
	}

	if l.redis != nil {
		records, ok, err := l.redis.Get(ctx, id)
		if err != nil {
			l.logger.Warn().Err(err).Str("source", id).Msg("Redis snapshot lookup failed")
		} else if ok {
			metrics.DatasetCacheHits.WithLabelValues("redis").Inc()
			l.cache.Add(id, records)
			return records, nil
		}
	}

	start := time.Now()
	records, err := l.source.Load(ctx)
	metrics.DatasetLoadDuration.WithLabelValues(l.source.Kind()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DatasetLoadsTotal.WithLabelValues(l.source.Kind(), "error").Inc()
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	metrics.DatasetLoadsTotal.WithLabelValues(l.source.Kind(), "ok").Inc()
	metrics.DatasetRecords.Set(float64(len(records)))

	l.logger.Info().
		Str("source", id).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Dataset loaded")

	l.cache.Add(id, records)

	if l.redis != nil {
		if err := l.redis.Set(ctx, id, records); err != nil {
			l.logger.Warn().Err(err).Str("source", id).Msg("Failed to store snapshot in Redis")
		}
	}

	return records, nil
}
