package model

import "time"

// NewsItem is a single headline from the news feed.
type NewsItem struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Source      string     `json:"source,omitempty"`
	Symbol      string     `json:"symbol,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Insight is an AI generated portfolio commentary.
type Insight struct {
	Markdown    string    `json:"markdown"`
	HTML        string    `json:"html"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// NewsFeed is the merged headline list for several symbols.
// Errors holds a user-facing message per symbol whose feed could not be read.
type NewsFeed struct {
	Items  []NewsItem        `json:"items"`
	Errors map[string]string `json:"errors,omitempty"`
}
