// Package seedcrawl implements the seed-page crawling collaborator using
// Colly. One crawl of the seed URL yields the hyperlinks on the page,
// grouped into internal and external by host, plus the page's visible text.
package seedcrawl

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/news-scraper/internal/scrape"
)

// Config controls seed crawl behavior.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	IgnoreRobots bool
}

// Crawler implements scrape.SeedCrawler with a Colly collector.
type Crawler struct {
	cfg           Config
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// New builds a Crawler.
func New(cfg Config, logger *zap.Logger) *Crawler {
	if cfg.Timeout == 0 {
		cfg.Timeout = 25 * time.Second
	}
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = cfg.IgnoreRobots
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	return &Crawler{
		cfg:           cfg,
		baseCollector: c,
		logger:        logger,
	}
}

// Crawl fetches the seed page once and returns its link collection and text.
// A failure here is fatal to the pipeline run, so errors are returned rather
// than absorbed.
func (c *Crawler) Crawl(ctx context.Context, seed string) (scrape.SeedPage, error) {
	seedURL, err := url.Parse(seed)
	if err != nil || seedURL.Host == "" {
		return scrape.SeedPage{}, fmt.Errorf("parse seed url: %w", scrape.ErrInvalidURL)
	}

	collector := c.baseCollector.Clone()
	collector.SetRequestTimeout(c.cfg.Timeout)

	page := scrape.SeedPage{URL: seed, Metadata: map[string]string{}}
	var fetchErr error

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := e.Request.AbsoluteURL(e.Attr("href"))
		if href == "" {
			return
		}
		link := scrape.Link{Href: href, Text: strings.TrimSpace(e.Text)}
		target, err := url.Parse(href)
		if err != nil {
			return
		}
		if target.Host == seedURL.Host {
			page.Links.Internal = append(page.Links.Internal, link)
		} else {
			page.Links.External = append(page.Links.External, link)
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		page.Metadata["status"] = fmt.Sprintf("%d", r.StatusCode)
		page.Metadata["content_type"] = r.Headers.Get("Content-Type")
		page.Text = visibleText(r.Body)
	})

	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(seed)
	}()

	select {
	case <-ctx.Done():
		return scrape.SeedPage{}, fmt.Errorf("seed crawl canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return scrape.SeedPage{}, fmt.Errorf("visit seed: %w", err)
		}
		if fetchErr != nil {
			return scrape.SeedPage{}, fmt.Errorf("fetch seed: %w", fetchErr)
		}
	}

	c.logger.Debug("seed crawl complete",
		zap.String("seed", seed),
		zap.Int("internal_links", len(page.Links.Internal)),
		zap.Int("external_links", len(page.Links.External)))
	return page, nil
}

// visibleText extracts the page's readable text, skipping script and style
// content.
func visibleText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(doc.Find("body").Text()), " ")
}
