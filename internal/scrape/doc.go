// Package scrape implements the article scraping pipeline: a single seed
// crawl discovers candidate links, a heuristic classifier selects the
// article-like ones, a concurrency-bounded fetcher retrieves them, and a
// metadata extractor assembles the final payload. A cache decorator keyed by
// normalized seed URL short-circuits repeated runs.
package scrape
