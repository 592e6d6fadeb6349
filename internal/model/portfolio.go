package model

import "time"

// PortfolioSummary represents the state of the whole portfolio at the time of the request.
// All monetary values are rounded to two decimal places.
type PortfolioSummary struct {
	TotalValue        float64    `json:"totalValue"`        // Market value including cash
	InvestedValue     float64    `json:"investedValue"`     // Market value excluding cash
	CashBalance       float64    `json:"cashBalance"`       // Sum of cash asset balances
	TotalCost         float64    `json:"totalCost"`         // Cost basis of non-cash holdings
	UnrealizedGain    float64    `json:"unrealizedGain"`    // InvestedValue - TotalCost
	UnrealizedGainPct float64    `json:"unrealizedGainPct"` // UnrealizedGain / TotalCost * 100
	RealizedGain      float64    `json:"realizedGain"`      // Gains recognized on sales
	TotalIncome       float64    `json:"totalIncome"`       // Dividends and interest
	DayChange         float64    `json:"dayChange"`         // Value change against previous close
	DayChangePct      float64    `json:"dayChangePct"`      // DayChange relative to previous value
	Holdings          []Holding  `json:"holdings"`          // Per-asset breakdown
	LastPriceUpdate   *time.Time `json:"lastPriceUpdate,omitempty"`
}
