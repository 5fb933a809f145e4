// Package cmd defines the CLI commands for the news-scraper executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/news-scraper/internal/config"
	"github.com/JakeFAU/news-scraper/internal/logging"
	"github.com/JakeFAU/news-scraper/internal/scrape"
	"github.com/JakeFAU/news-scraper/internal/seedcrawl"
)

var (
	cfgFile string

	// Populated by the root command's PersistentPreRunE so subcommands
	// share one config and logger.
	cfg    config.Config
	logger *zap.Logger
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news-scraper",
		Short: "Scrapes news sites into structured article payloads.",
		Long: `news-scraper crawls a news site's front page, classifies its links
into likely article URLs, fetches them concurrently and extracts title and
summary metadata into a single JSON payload. It runs as a one-shot CLI or
as an HTTP service with a TTL payload cache.`,

		SilenceUsage: true,

		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err = logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},

		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	cmd.AddCommand(newScrapeCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// buildPipeline assembles the scrape pipeline from the loaded configuration.
func buildPipeline(clock scrape.Clock) *scrape.Pipeline {
	seedCrawler := seedcrawl.New(seedcrawl.Config{
		UserAgent:    cfg.Scrape.UserAgent,
		Timeout:      cfg.SeedTimeout(),
		IgnoreRobots: cfg.Scrape.IgnoreRobots,
	}, logger)

	classifier := scrape.NewClassifier(cfg.Classifier)

	fetcher := scrape.NewFetcher(scrape.FetcherConfig{
		UserAgent:    cfg.Scrape.UserAgent,
		Timeout:      cfg.FetchTimeout(),
		IgnoreRobots: cfg.Scrape.IgnoreRobots,
	}, logger)

	return scrape.NewPipeline(seedCrawler, classifier, fetcher, clock, logger)
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
