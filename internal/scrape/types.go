// Package scrape defines core types shared across the scraping pipeline.
package scrape

import "time"

// Link is a single hyperlink discovered on the seed page.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text,omitempty"`
}

// LinkCollection groups the links reported by the seed crawler.
// Internal links share the seed host; external links do not.
type LinkCollection struct {
	Internal []Link `json:"internal"`
	External []Link `json:"external"`
}

// SeedPage is the result of crawling the seed URL once.
type SeedPage struct {
	URL      string
	Links    LinkCollection
	Text     string
	Metadata map[string]string
}

// FetchResult pairs a candidate URL with its fetched body.
// OK is false when the fetch failed; Body is nil in that case.
type FetchResult struct {
	URL  string
	Body []byte
	OK   bool
}

// Article is the normalized summary record for one fetched page.
type Article struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	ReadMore string `json:"readMore"`
}

// Payload is the assembled pipeline result for one seed URL.
// ReferralURLs mirrors Articles positionally: ReferralURLs[i] is
// Articles[i].ReadMore.
type Payload struct {
	Source       string    `json:"source"`
	GeneratedAt  time.Time `json:"generatedAt"`
	Articles     []Article `json:"articles"`
	ReferralURLs []string  `json:"referralURLs"`
	Count        int       `json:"count"`
}
