// Package api exposes the HTTP interface for the scraper service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/JakeFAU/news-scraper/internal/config"
	"github.com/JakeFAU/news-scraper/internal/publisher"
	"github.com/JakeFAU/news-scraper/internal/scrape"
	"github.com/JakeFAU/news-scraper/internal/store"
)

// Runner executes the cached scrape pipeline.
type Runner interface {
	Run(ctx context.Context, seed string, opts scrape.Options) ([]byte, bool, error)
}

// RunRecorder persists run history rows.
type RunRecorder interface {
	RecordRun(ctx context.Context, record store.RunRecord) error
}

// Server wires HTTP handlers to the pipeline runner.
type Server struct {
	router chi.Router
	runner Runner
	runs   RunRecorder
	events publisher.Publisher
	clock  scrape.Clock
	logger *zap.Logger
	cfg    config.Config
}

// NewServer constructs a Server with middleware and routes. The run
// recorder and event publisher are optional; nil disables them.
func NewServer(
	runner Runner,
	runs RunRecorder,
	events publisher.Publisher,
	clock scrape.Clock,
	logger *zap.Logger,
	cfg config.Config,
) *Server {
	s := &Server{
		runner: runner,
		runs:   runs,
		events: events,
		clock:  clock,
		logger: logger,
		cfg:    cfg,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(corsMiddleware(cfg.Server.AllowedOrigins))
	r.Use(timeoutMiddleware(cfg.RequestTimeout()))

	r.Get("/", s.root)
	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/scraping", s.scraping)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"Hello": "World"})
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type scrapingRequest struct {
	URL string `json:"url"`
}

type scrapingResponse struct {
	Status string          `json:"Status"`
	Data   json.RawMessage `json:"Data"`
}

func (s *Server) scraping(w http.ResponseWriter, r *http.Request) {
	var req scrapingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "missing or invalid url")
		return
	}

	opts := scrape.Options{
		Limit:          s.cfg.Scrape.Limit,
		Concurrency:    s.cfg.Scrape.Concurrency,
		RestrictDomain: s.cfg.Scrape.RestrictDomain,
	}

	started := s.clock.Now()
	data, cacheHit, err := s.runner.Run(r.Context(), req.URL, opts)
	if err != nil {
		switch {
		case errors.Is(err, scrape.ErrInvalidURL):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError,
				fmt.Sprintf("Internal server error: %s", err))
		}
		return
	}

	s.recordRun(r.Context(), req.URL, data, cacheHit, started)
	writeJSON(w, http.StatusOK, scrapingResponse{Status: "Success", Data: data})
}

// recordRun persists history and publishes a completion event. Both are
// best-effort: the payload has already been produced.
func (s *Server) recordRun(ctx context.Context, seed string, data []byte, cacheHit bool, started time.Time) {
	if s.runs == nil && s.events == nil {
		return
	}
	var payload scrape.Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		s.logger.Warn("decode payload for run record failed", zap.Error(err))
		return
	}

	if s.runs != nil {
		key, err := scrape.NormalizeCacheKey(seed)
		if err != nil {
			key = seed
		}
		record := store.RunRecord{
			ID:         uuid.NewString(),
			Source:     seed,
			CacheKey:   key,
			Articles:   payload.Count,
			CacheHit:   cacheHit,
			DurationMs: s.clock.Now().Sub(started).Milliseconds(),
			CreatedAt:  s.clock.Now(),
		}
		if err := s.runs.RecordRun(ctx, record); err != nil {
			s.logger.Warn("record run failed", zap.String("source", seed), zap.Error(err))
		}
	}

	if s.events != nil && !cacheHit {
		event := publisher.Event{
			Source:      payload.Source,
			Count:       payload.Count,
			GeneratedAt: payload.GeneratedAt.UTC().Format(time.RFC3339),
		}
		if _, err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("publish completion event failed",
				zap.String("source", seed), zap.Error(err))
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// The status line is already written; nothing left to do.
		_ = err
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
