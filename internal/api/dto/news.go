package dto

import "time"

// NewsArticle is an enriched article from the news feed. Articles are cached
// in memory only, never persisted.
type NewsArticle struct {
	Title       string     `json:"title"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	FetchedAt   time.Time  `json:"fetched_at"`
	Summary     string     `json:"summary"`
	Sentiment   string     `json:"sentiment"`
	Tags        []string   `json:"tags"`
	URL         string     `json:"url"`
}
