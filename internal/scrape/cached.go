package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// cacheKeyPrefix namespaces scraper entries in a shared cache store.
const cacheKeyPrefix = "scraped:"

// DefaultCacheTTL is how long a cached payload stays valid.
const DefaultCacheTTL = 24 * time.Hour

// CachedRunner decorates a Pipeline with a best-effort TTL cache keyed by
// normalized seed URL. Cache unavailability never fails a run: lookups and
// writes that error are logged and the pipeline proceeds uncached.
type CachedRunner struct {
	pipeline *Pipeline
	cache    Cache
	ttl      time.Duration
	logger   *zap.Logger
}

// NewCachedRunner wraps pipeline with cache. A zero ttl means DefaultCacheTTL;
// a nil cache disables caching entirely.
func NewCachedRunner(pipeline *Pipeline, cache Cache, ttl time.Duration, logger *zap.Logger) *CachedRunner {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedRunner{
		pipeline: pipeline,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// Run returns the serialized payload for seed, from cache when possible.
// The returned flag reports whether the result came from the cache. On a
// miss the pipeline runs and its result is written back with the configured
// TTL; concurrent writers to the same key may overwrite each other (last
// write wins, TTL resets).
func (r *CachedRunner) Run(ctx context.Context, seed string, opts Options) ([]byte, bool, error) {
	key, err := NormalizeCacheKey(seed)
	if err != nil {
		return nil, false, fmt.Errorf("normalize seed: %w", err)
	}
	key = cacheKeyPrefix + key

	if r.cache != nil {
		cached, hit, err := r.cache.Get(ctx, key)
		switch {
		case err != nil:
			observeCacheLookup("error")
			r.logger.Warn("cache unavailable; proceeding uncached",
				zap.String("key", key), zap.Error(err))
		case hit:
			observeCacheLookup("hit")
			r.logger.Info("cache hit", zap.String("key", key))
			return cached, true, nil
		default:
			observeCacheLookup("miss")
		}
	}

	payload, err := r.pipeline.Run(ctx, seed, opts)
	if err != nil {
		return nil, false, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, false, fmt.Errorf("marshal payload: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.Warn("cache write failed",
				zap.String("key", key), zap.Error(err))
		}
	}
	return data, false, nil
}
