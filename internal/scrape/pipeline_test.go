package scrape

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) Now() time.Time { return c.at }

type fakeSeedCrawler struct {
	page SeedPage
	err  error
}

func (f *fakeSeedCrawler) Crawl(_ context.Context, _ string) (SeedPage, error) {
	return f.page, f.err
}

func newPipelineForTest(crawler SeedCrawler, fetchOne func(ctx context.Context, url string) ([]byte, error)) *Pipeline {
	fetcher := newTestFetcher(fetchOne)
	return NewPipeline(crawler, NewClassifier(ClassifierConfig{}), fetcher, &fakeClock{at: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}, zap.NewNop())
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	crawler := &fakeSeedCrawler{
		page: SeedPage{
			URL: "https://example.com",
			Links: LinkCollection{
				Internal: []Link{
					{Href: "https://example.com/news/a"},
					{Href: "https://example.com/news/broken"},
					{Href: "https://example.com/logo.png"},
				},
			},
		},
	}
	fetchOne := func(_ context.Context, url string) ([]byte, error) {
		if url == "https://example.com/news/broken" {
			return nil, fmt.Errorf("connection refused")
		}
		return []byte(`<head><meta property="og:title" content="Story A"></head>`), nil
	}

	p := newPipelineForTest(crawler, fetchOne)
	payload, err := p.Run(context.Background(), "https://example.com", DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, "https://example.com", payload.Source)
	require.Equal(t, 1, payload.Count)
	require.Len(t, payload.Articles, 1)
	require.Equal(t, "Story A", payload.Articles[0].Title)
	require.Equal(t, "https://example.com/news/a", payload.Articles[0].ReadMore)
	require.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), payload.GeneratedAt)

	// Referral URLs mirror the surviving articles one to one.
	require.Len(t, payload.ReferralURLs, payload.Count)
	for i, article := range payload.Articles {
		require.Equal(t, article.ReadMore, payload.ReferralURLs[i])
	}
}

func TestPipelineRunDomainRestriction(t *testing.T) {
	t.Parallel()

	crawler := &fakeSeedCrawler{
		page: SeedPage{
			URL: "https://example.com",
			Links: LinkCollection{
				Internal: []Link{{Href: "https://example.com/news/in"}},
				External: []Link{{Href: "https://other.com/news/out"}},
			},
		},
	}
	fetchOne := func(_ context.Context, url string) ([]byte, error) {
		return []byte("<title>" + url + "</title>"), nil
	}

	p := newPipelineForTest(crawler, fetchOne)

	restricted, err := p.Run(context.Background(), "https://example.com", Options{Limit: 10, Concurrency: 2, RestrictDomain: true})
	require.NoError(t, err)
	require.Equal(t, []string{"https://example.com/news/in"}, restricted.ReferralURLs)

	open, err := p.Run(context.Background(), "https://example.com", Options{Limit: 10, Concurrency: 2})
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://example.com/news/in",
		"https://other.com/news/out",
	}, open.ReferralURLs)
}

func TestPipelineRunSeedUnreachable(t *testing.T) {
	t.Parallel()

	crawler := &fakeSeedCrawler{err: fmt.Errorf("dial tcp: timeout")}
	p := newPipelineForTest(crawler, nil)

	_, err := p.Run(context.Background(), "https://example.com", DefaultOptions())
	require.ErrorIs(t, err, ErrSeedUnreachable)
}

func TestPipelineRunInvalidSeed(t *testing.T) {
	t.Parallel()

	p := newPipelineForTest(&fakeSeedCrawler{}, nil)

	for _, seed := range []string{"", "not a url", "example.com"} {
		_, err := p.Run(context.Background(), seed, DefaultOptions())
		require.ErrorIs(t, err, ErrInvalidURL, "seed %q", seed)
	}
}

func TestPipelineRunNoCandidates(t *testing.T) {
	t.Parallel()

	crawler := &fakeSeedCrawler{
		page: SeedPage{URL: "https://example.com"},
	}
	p := newPipelineForTest(crawler, func(_ context.Context, _ string) ([]byte, error) {
		t.Fatal("no fetches expected")
		return nil, nil
	})

	payload, err := p.Run(context.Background(), "https://example.com", DefaultOptions())
	require.NoError(t, err)
	require.Zero(t, payload.Count)
	require.Empty(t, payload.Articles)
	require.Empty(t, payload.ReferralURLs)
}
