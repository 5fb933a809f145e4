package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/news-scraper/internal/config"
	"github.com/JakeFAU/news-scraper/internal/publisher/memory"
	"github.com/JakeFAU/news-scraper/internal/scrape"
	"github.com/JakeFAU/news-scraper/internal/store"
)

type fakeRunner struct {
	data []byte
	hit  bool
	err  error

	lastSeed string
	lastOpts scrape.Options
}

func (f *fakeRunner) Run(_ context.Context, seed string, opts scrape.Options) ([]byte, bool, error) {
	f.lastSeed = seed
	f.lastOpts = opts
	return f.data, f.hit, f.err
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []store.RunRecord
	err     error
}

func (f *fakeRecorder) RecordRun(_ context.Context, record store.RunRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return f.err
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func samplePayload() []byte {
	payload := scrape.Payload{
		Source:      "https://example.com",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Articles: []scrape.Article{
			{Title: "A", Summary: "s", ReadMore: "https://example.com/news/a"},
		},
		ReferralURLs: []string{"https://example.com/news/a"},
		Count:        1,
	}
	data, _ := json.Marshal(payload)
	return data
}

func postScraping(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/scraping", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestScrapingSuccessEnvelope(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{data: samplePayload()}
	srv := NewServer(runner, nil, nil, fixedClock{at: time.Now()}, zap.NewNop(), testConfig(t))

	rec := postScraping(t, srv.Handler(), `{"url":"https://example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string         `json:"Status"`
		Data   scrape.Payload `json:"Data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Success", resp.Status)
	require.Equal(t, 1, resp.Data.Count)
	require.Equal(t, "https://example.com", runner.lastSeed)
	require.Equal(t, 20, runner.lastOpts.Limit)
	require.Equal(t, 8, runner.lastOpts.Concurrency)
	require.True(t, runner.lastOpts.RestrictDomain)
}

func TestScrapingBadRequests(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: fmt.Errorf("%w: bad seed", scrape.ErrInvalidURL)}
	srv := NewServer(runner, nil, nil, fixedClock{at: time.Now()}, zap.NewNop(), testConfig(t))

	// Malformed body.
	rec := postScraping(t, srv.Handler(), `{`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing url field.
	rec = postScraping(t, srv.Handler(), `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Runner rejects the seed as invalid.
	rec = postScraping(t, srv.Handler(), `{"url":"nope"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScrapingInternalError(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: fmt.Errorf("%w: crawl failed", scrape.ErrSeedUnreachable)}
	srv := NewServer(runner, nil, nil, fixedClock{at: time.Now()}, zap.NewNop(), testConfig(t))

	rec := postScraping(t, srv.Handler(), `{"url":"https://example.com"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["detail"], "Internal server error")
}

func TestScrapingRecordsRunAndPublishes(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{data: samplePayload()}
	recorder := &fakeRecorder{}
	events := memory.New()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	srv := NewServer(runner, recorder, events, fixedClock{at: at}, zap.NewNop(), testConfig(t))

	rec := postScraping(t, srv.Handler(), `{"url":"https://example.com/?q=1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, recorder.records, 1)
	record := recorder.records[0]
	require.NotEmpty(t, record.ID)
	require.Equal(t, "https://example.com/?q=1", record.Source)
	require.Equal(t, "https://example.com/", record.CacheKey)
	require.Equal(t, 1, record.Articles)
	require.False(t, record.CacheHit)
	require.Equal(t, at, record.CreatedAt)

	published := events.Events()
	require.Len(t, published, 1)
	require.Equal(t, "https://example.com", published[0].Source)
	require.Equal(t, 1, published[0].Count)
}

func TestScrapingCacheHitSkipsEvent(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{data: samplePayload(), hit: true}
	recorder := &fakeRecorder{}
	events := memory.New()
	srv := NewServer(runner, recorder, events, fixedClock{at: time.Now()}, zap.NewNop(), testConfig(t))

	rec := postScraping(t, srv.Handler(), `{"url":"https://example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, recorder.records, 1)
	require.True(t, recorder.records[0].CacheHit)
	require.Empty(t, events.Events())
}

func TestOperationalEndpoints(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeRunner{data: samplePayload()}, nil, nil, fixedClock{at: time.Now()}, zap.NewNop(), testConfig(t))

	for path, wantKey := range map[string]string{
		"/":        "Hello",
		"/healthz": "status",
		"/readyz":  "status",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Contains(t, body, wantKey, "path %s", path)
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeRunner{data: samplePayload()}, nil, nil, fixedClock{at: time.Now()}, zap.NewNop(), testConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, "caller-supplied", rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	srv := NewServer(&fakeRunner{data: samplePayload()}, nil, nil, fixedClock{at: time.Now()}, zap.NewNop(), testConfig(t))

	req := httptest.NewRequest(http.MethodOptions, "/scraping", nil)
	req.Header.Set("Origin", "https://frontend.example")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://frontend.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
