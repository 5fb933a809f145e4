package scrape

import (
	"context"
	"time"
)

// SeedCrawler fetches the seed page once and returns its links and text.
type SeedCrawler interface {
	Crawl(ctx context.Context, url string) (SeedPage, error)
}

// Cache stores serialized payloads keyed by normalized seed URL.
// Implementations are best-effort: callers must tolerate errors.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
