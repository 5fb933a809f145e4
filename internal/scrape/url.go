package scrape

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrInvalidURL marks inputs that do not parse to an absolute URL.
var ErrInvalidURL = errors.New("invalid url")

// NormalizeCacheKey reduces a URL to a stable cache key of the form
// scheme://host/path. The query string and fragment are dropped; the path
// is kept verbatim, trailing slash included.
func NormalizeCacheKey(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: missing scheme or host in %q", ErrInvalidURL, raw)
	}
	return fmt.Sprintf("%s://%s%s", u.Scheme, u.Host, u.Path), nil
}
