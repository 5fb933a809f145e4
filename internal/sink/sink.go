// Package sink persists assembled payloads to a destination.
package sink

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/JakeFAU/news-scraper/internal/scrape"
)

// Sink writes one payload and returns the destination URI or path.
type Sink interface {
	Save(ctx context.Context, payload scrape.Payload) (string, error)
}

// ObjectName derives the default artifact name for a payload:
// news_<host>_<YYYYMMDD_HHMMSSZ>.json. Hosts that cannot be derived fall
// back to "news".
func ObjectName(source string, at time.Time) string {
	host := "news"
	if u, err := url.Parse(source); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("news_%s_%s.json", host, at.UTC().Format("20060102_150405Z"))
}
