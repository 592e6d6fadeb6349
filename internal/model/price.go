package model

import "time"

// PriceQuote is the single cached quote row kept per symbol.
type PriceQuote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previousClose"`
	Currency      string    `json:"currency,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RefreshResult reports the outcome of a price refresh run.
// Errors are user-facing strings keyed by symbol.
type RefreshResult struct {
	Updated     []PriceQuote      `json:"updated"`
	Errors      map[string]string `json:"errors"`
	StartedAt   time.Time         `json:"startedAt"`
	CompletedAt time.Time         `json:"completedAt"`
}
