package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/news-scraper/internal/api"
	"github.com/JakeFAU/news-scraper/internal/cache"
	"github.com/JakeFAU/news-scraper/internal/clock/system"
	"github.com/JakeFAU/news-scraper/internal/publisher"
	pubsubpublisher "github.com/JakeFAU/news-scraper/internal/publisher/pubsub"
	"github.com/JakeFAU/news-scraper/internal/scrape"
	"github.com/JakeFAU/news-scraper/internal/store"
)

const shutdownGrace = 15 * time.Second

// newServeCmd creates the 'serve' subcommand: the long-running HTTP service
// with the cached pipeline behind it.
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scraper HTTP service",
		Long: `Starts the HTTP service. POST /scraping runs the cached pipeline for a
seed URL; /healthz, /readyz and /metrics expose operational endpoints.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	return cmd
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := system.New()
	pipeline := buildPipeline(clock)

	var payloadCache scrape.Cache
	if cfg.Cache.Enabled {
		redisCache := cache.NewRedis(cfg.Cache.Redis)
		defer func() {
			if err := redisCache.Close(); err != nil {
				logger.Warn("close redis", zap.Error(err))
			}
		}()
		payloadCache = redisCache
		logger.Info("payload cache enabled", zap.String("addr", cfg.Cache.Redis.Addr))
	}

	runner := scrape.NewCachedRunner(pipeline, payloadCache, cfg.CacheTTL(), logger)

	var runs api.RunRecorder
	if cfg.DB.Enabled {
		runStore, err := store.NewRunStore(ctx, store.RunStoreConfig{
			DSN:   cfg.DB.DSN,
			Table: cfg.DB.Table,
		})
		if err != nil {
			return fmt.Errorf("init run store: %w", err)
		}
		defer runStore.Close()
		runs = runStore
		logger.Info("run history enabled", zap.String("table", cfg.DB.Table))
	}

	var events publisher.Publisher
	if cfg.PubSub.Enabled {
		client, err := gcppubsub.NewClient(ctx, cfg.PubSub.ProjectID)
		if err != nil {
			return fmt.Errorf("init pubsub client: %w", err)
		}
		defer func() {
			if cerr := client.Close(); cerr != nil {
				logger.Warn("close pubsub client", zap.Error(cerr))
			}
		}()
		events = pubsubpublisher.New(client.Publisher(cfg.PubSub.TopicName))
		logger.Info("completion events enabled",
			zap.String("project", cfg.PubSub.ProjectID),
			zap.String("topic", cfg.PubSub.TopicName))
	}

	server := api.NewServer(runner, runs, events, clock, logger, cfg)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errCh
}
