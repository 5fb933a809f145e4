package scrape

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// FetcherConfig controls candidate-page fetch behavior.
type FetcherConfig struct {
	UserAgent    string
	Timeout      time.Duration
	IgnoreRobots bool
}

// Fetcher retrieves candidate pages with a bounded concurrency ceiling.
type Fetcher struct {
	cfg           FetcherConfig
	baseCollector *colly.Collector
	logger        *zap.Logger

	// fetchOne is swappable so tests can inject latency and failures.
	fetchOne func(ctx context.Context, url string) ([]byte, error)
}

// NewFetcher builds a Fetcher backed by a shared Colly collector.
func NewFetcher(cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = cfg.IgnoreRobots
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	c.WithTransport(newHTTPTransport())

	f := &Fetcher{
		cfg:           cfg,
		baseCollector: c,
		logger:        logger,
	}
	f.fetchOne = f.collyFetch
	return f
}

// FetchAll fetches every URL with at most concurrency requests in flight.
// The returned slice has the same length and order as urls; entries whose
// fetch failed (timeout, transport error, non-2xx) carry OK=false. The batch
// always runs to completion unless the context is canceled, in which case
// pending entries are reported as failed without leaking goroutines.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string, concurrency int) []FetchResult {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]FetchResult, len(urls))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, target string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = FetchResult{URL: target}
				return
			}
			body, err := f.fetchOne(ctx, target)
			if err != nil {
				f.logger.Debug("candidate fetch failed",
					zap.String("url", target), zap.Error(err))
				results[idx] = FetchResult{URL: target}
				return
			}
			results[idx] = FetchResult{URL: target, Body: body, OK: true}
		}(i, u)
	}

	wg.Wait()
	return results
}

func (f *Fetcher) collyFetch(ctx context.Context, url string) ([]byte, error) {
	collector := f.baseCollector.Clone()
	collector.SetRequestTimeout(f.cfg.Timeout)

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("visit %s: %w", url, err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", url, fetchErr)
		}
		return body, nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
