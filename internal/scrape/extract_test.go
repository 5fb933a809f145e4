package scrape

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const articleURL = "https://example.com/news/a"

func TestExtractArticleMetaTags(t *testing.T) {
	t.Parallel()

	html := `<html><head>
		<meta property="og:title" content="OG Title">
		<meta name="description" content="A short description.">
		<title>Element Title</title>
	</head><body><p>Body text.</p></body></html>`

	article := ExtractArticle([]byte(html), articleURL)
	require.Equal(t, "OG Title", article.Title)
	require.Equal(t, "A short description.", article.Summary)
	require.Equal(t, articleURL, article.ReadMore)
}

func TestExtractArticleTitleFallbacks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "og name attribute",
			html: `<head><meta name="og:title" content="Name OG"></head>`,
			want: "Name OG",
		},
		{
			name: "twitter",
			html: `<head><meta name="twitter:title" content="Tweet Title"></head>`,
			want: "Tweet Title",
		},
		{
			name: "title element",
			html: `<head><title>  Element Title  </title></head>`,
			want: "Element Title",
		},
		{
			name: "url as last resort",
			html: `<body><p>no head metadata at all</p></body>`,
			want: articleURL,
		},
		{
			name: "empty meta content skipped",
			html: `<head><meta property="og:title" content="   "><title>Real</title></head>`,
			want: "Real",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			article := ExtractArticle([]byte(tt.html), articleURL)
			require.Equal(t, tt.want, article.Title)
		})
	}
}

func TestExtractArticleParagraphFallback(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<p>Hello world.</p>
		<p>   </p>
		<p>Second para.</p>
		<p>Third para never used.</p>
	</body></html>`

	article := ExtractArticle([]byte(html), articleURL)
	require.Equal(t, "Hello world. Second para.", article.Summary)
	require.Equal(t, articleURL, article.Title)
}

func TestExtractArticleSummaryTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 600)
	html := "<body><p>" + long + "</p></body>"

	article := ExtractArticle([]byte(html), articleURL)
	require.Equal(t, 400, len([]rune(article.Summary)))
	require.True(t, strings.HasPrefix(long, article.Summary))
}

func TestExtractArticleEmptyContent(t *testing.T) {
	t.Parallel()

	article := ExtractArticle(nil, articleURL)
	require.Equal(t, articleURL, article.Title)
	require.Empty(t, article.Summary)
	require.Equal(t, articleURL, article.ReadMore)
}
