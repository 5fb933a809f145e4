package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/news-scraper/internal/clock/system"
	"github.com/JakeFAU/news-scraper/internal/scrape"
	"github.com/JakeFAU/news-scraper/internal/sink"
)

// newScrapeCmd creates the 'scrape' subcommand: a one-shot run of the
// pipeline against a single seed URL, saved to the local filesystem.
func newScrapeCmd() *cobra.Command {
	var (
		seedURL     string
		limit       int
		concurrency int
		allDomains  bool
		outputPath  string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one scrape of a seed URL and save the payload",
		Long: `Crawls the given seed URL, follows its most likely article links and
writes the assembled payload as a JSON file under the configured output
directory (or the path given by --output).`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := scrape.Options{
				Limit:          limit,
				Concurrency:    concurrency,
				RestrictDomain: !allDomains,
			}
			if opts.Limit <= 0 {
				opts.Limit = cfg.Scrape.Limit
			}
			if opts.Concurrency <= 0 {
				opts.Concurrency = cfg.Scrape.Concurrency
			}

			pipeline := buildPipeline(system.New())
			payload, err := pipeline.Run(cmd.Context(), seedURL, opts)
			if err != nil {
				return fmt.Errorf("scrape %s: %w", seedURL, err)
			}

			localCfg := cfg.Output
			if outputPath != "" {
				localCfg.Path = outputPath
			}
			local, err := sink.NewLocal(localCfg)
			if err != nil {
				return fmt.Errorf("init output sink: %w", err)
			}
			saved, err := local.Save(cmd.Context(), payload)
			if err != nil {
				return fmt.Errorf("save payload: %w", err)
			}

			logger.Info("scrape finished",
				zap.String("seed", seedURL),
				zap.Int("articles", payload.Count),
				zap.String("saved", saved))

			return json.NewEncoder(os.Stdout).Encode(map[string]any{
				"saved": saved,
				"count": payload.Count,
			})
		},
	}

	cmd.Flags().StringVar(&seedURL, "url", "", "seed URL to scrape (required)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max article links to follow (default from config)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "max simultaneous fetches (default from config)")
	cmd.Flags().BoolVar(&allDomains, "all-domains", false, "follow links off the seed's host")
	cmd.Flags().StringVar(&outputPath, "output", "", "write payload to this exact path")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
