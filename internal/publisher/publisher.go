// Package publisher defines the completion-event publishing interface.
package publisher

import "context"

// Event describes one completed scrape run.
type Event struct {
	Source      string `json:"source"`
	Count       int    `json:"count"`
	GeneratedAt string `json:"generatedAt"`
}

// Publisher pushes completion events to a message bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) (string, error)
}
