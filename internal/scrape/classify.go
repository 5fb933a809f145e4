package scrape

import (
	"net/url"
	"strings"
)

// ClassifierConfig holds the heuristic allow/block lists used to pick
// article-like candidates. The lists are configuration data, not invariants;
// the defaults target common news-site layouts.
type ClassifierConfig struct {
	// AllowSegments are path substrings that mark a link as article-like.
	AllowSegments []string `mapstructure:"allow_segments"`
	// BlockExtensions excludes non-document assets by URL suffix.
	BlockExtensions []string `mapstructure:"block_extensions"`
	// BlockSubstrings excludes non-article endpoints such as media players.
	BlockSubstrings []string `mapstructure:"block_substrings"`
}

// DefaultClassifierConfig returns the stock heuristic lists.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		AllowSegments: []string{
			"/news/", "/articles/", "/sport/", "/business/", "/world/", "/culture/",
		},
		BlockExtensions: []string{
			".jpg", ".jpeg", ".png", ".webp", ".gif", ".mp4", ".m3u8", ".pdf", ".css", ".js",
		},
		BlockSubstrings: []string{
			"/audio/play/", "/reel/video/", "/video", "/live/", "playlist", "/sounds/",
		},
	}
}

// Classifier selects candidate article URLs from a raw link collection.
type Classifier struct {
	cfg ClassifierConfig
}

// NewClassifier builds a Classifier; zero-valued config fields fall back to
// the defaults.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	def := DefaultClassifierConfig()
	if len(cfg.AllowSegments) == 0 {
		cfg.AllowSegments = def.AllowSegments
	}
	if len(cfg.BlockExtensions) == 0 {
		cfg.BlockExtensions = def.BlockExtensions
	}
	if len(cfg.BlockSubstrings) == 0 {
		cfg.BlockSubstrings = def.BlockSubstrings
	}
	return &Classifier{cfg: cfg}
}

// Classify returns up to limit distinct candidate URLs in discovery order.
// Internal links are considered first; external links only when no host
// restriction is set, or as a fallback while the limit is unmet. When
// restrictHost is non-empty, a candidate's host must equal it exactly.
func (c *Classifier) Classify(links LinkCollection, restrictHost string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	candidates := make([]string, 0, limit)
	seen := make(map[string]struct{}, limit)

	add := func(items []Link) {
		for _, it := range items {
			if len(candidates) >= limit {
				return
			}
			href := it.Href
			if !c.accept(href, restrictHost) {
				continue
			}
			if _, dup := seen[href]; dup {
				continue
			}
			seen[href] = struct{}{}
			candidates = append(candidates, href)
		}
	}

	add(links.Internal)
	if len(candidates) < limit {
		add(links.External)
	}
	return candidates
}

func (c *Classifier) accept(href, restrictHost string) bool {
	if href == "" {
		return false
	}
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return false
	}
	if restrictHost != "" {
		u, err := url.Parse(href)
		if err != nil || u.Host != restrictHost {
			return false
		}
	}
	lower := strings.ToLower(href)
	for _, ext := range c.cfg.BlockExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	for _, pat := range c.cfg.BlockSubstrings {
		if strings.Contains(lower, pat) {
			return false
		}
	}
	for _, seg := range c.cfg.AllowSegments {
		if strings.Contains(href, seg) {
			return true
		}
	}
	return false
}
