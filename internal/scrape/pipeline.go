package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// ErrSeedUnreachable marks a failed crawl of the seed page. It is the only
// network failure that aborts a run; candidate-level failures shrink the
// result set instead.
var ErrSeedUnreachable = errors.New("seed unreachable")

// Options are the per-run pipeline knobs.
type Options struct {
	// Limit caps the number of candidate links followed.
	Limit int
	// Concurrency bounds simultaneous candidate fetches.
	Concurrency int
	// RestrictDomain keeps candidates on the seed host.
	RestrictDomain bool
}

// DefaultOptions mirrors the CLI defaults.
func DefaultOptions() Options {
	return Options{Limit: 20, Concurrency: 8, RestrictDomain: true}
}

// Pipeline composes the seed crawl, link classification, bounded fetch and
// metadata extraction stages into one run.
type Pipeline struct {
	seedCrawler SeedCrawler
	classifier  *Classifier
	fetcher     *Fetcher
	clock       Clock
	logger      *zap.Logger
}

// NewPipeline constructs a Pipeline from its collaborators.
func NewPipeline(
	seedCrawler SeedCrawler,
	classifier *Classifier,
	fetcher *Fetcher,
	clock Clock,
	logger *zap.Logger,
) *Pipeline {
	initMetrics()
	return &Pipeline{
		seedCrawler: seedCrawler,
		classifier:  classifier,
		fetcher:     fetcher,
		clock:       clock,
		logger:      logger,
	}
}

// Run executes the full pipeline for one seed URL. It fails only when the
// seed URL is invalid or the seed crawl itself fails; every candidate-level
// failure is absorbed and reflected in a smaller article set.
func (p *Pipeline) Run(ctx context.Context, seed string, opts Options) (Payload, error) {
	start := p.clock.Now()

	seedURL, err := url.Parse(seed)
	if err != nil || seedURL.Scheme == "" || seedURL.Host == "" {
		observeRun("invalid_seed", p.clock.Now().Sub(start))
		return Payload{}, fmt.Errorf("%w: seed %q", ErrInvalidURL, seed)
	}

	page, err := p.seedCrawler.Crawl(ctx, seed)
	if err != nil {
		observeRun("seed_unreachable", p.clock.Now().Sub(start))
		return Payload{}, fmt.Errorf("%w: crawl %s: %v", ErrSeedUnreachable, seed, err)
	}

	restrictHost := ""
	if opts.RestrictDomain {
		restrictHost = seedURL.Host
	}
	candidates := p.classifier.Classify(page.Links, restrictHost, opts.Limit)
	observeCandidates(len(candidates))
	p.logger.Info("candidates selected",
		zap.String("seed", seed),
		zap.Int("count", len(candidates)),
		zap.Bool("restricted", opts.RestrictDomain))

	results := p.fetcher.FetchAll(ctx, candidates, opts.Concurrency)

	articles := make([]Article, 0, len(results))
	referrals := make([]string, 0, len(results))
	for _, res := range results {
		observePage(res.OK)
		if !res.OK {
			continue
		}
		article := ExtractArticle(res.Body, res.URL)
		articles = append(articles, article)
		referrals = append(referrals, article.ReadMore)
	}

	payload := Payload{
		Source:       seed,
		GeneratedAt:  p.clock.Now().UTC(),
		Articles:     articles,
		ReferralURLs: referrals,
		Count:        len(articles),
	}
	observeRun("ok", p.clock.Now().Sub(start))
	p.logger.Info("pipeline run complete",
		zap.String("seed", seed),
		zap.Int("articles", payload.Count),
		zap.Int("dropped", len(results)-payload.Count))
	return payload, nil
}
