package scrape

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// summaryRuneBudget caps the paragraph-fallback summary length.
const summaryRuneBudget = 400

// ExtractArticle derives a normalized article record from fetched page
// content. Title falls back through og:title, twitter:title and the <title>
// element before defaulting to the URL itself, so it is never empty. Summary
// falls back through description metadata to the first two non-empty
// paragraphs, and may be empty. ReadMore is always the fetched URL verbatim.
func ExtractArticle(content []byte, url string) Article {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return Article{Title: url, ReadMore: url}
	}

	title := firstMeta(doc,
		`meta[property="og:title"]`,
		`meta[name="og:title"]`,
		`meta[name="twitter:title"]`,
	)
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = url
	}

	summary := firstMeta(doc,
		`meta[name="description"]`,
		`meta[property="og:description"]`,
		`meta[name="twitter:description"]`,
	)
	if summary == "" {
		summary = leadingParagraphs(doc)
	}

	return Article{Title: title, Summary: summary, ReadMore: url}
}

func firstMeta(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if trimmed := strings.TrimSpace(content); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// leadingParagraphs joins the first two non-empty <p> texts with a single
// space and truncates to the rune budget.
func leadingParagraphs(doc *goquery.Document) string {
	var paragraphs []string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
		return len(paragraphs) < 2
	})
	joined := strings.Join(paragraphs, " ")
	runes := []rune(joined)
	if len(runes) > summaryRuneBudget {
		return string(runes[:summaryRuneBudget])
	}
	return joined
}
