package model

import "time"

// Snapshot is the document synced to shared storage for the desktop widget.
type Snapshot struct {
	GeneratedAt    time.Time         `json:"generatedAt"`
	TotalValue     float64           `json:"totalValue"`
	TotalValueText string            `json:"totalValueText"`
	DayChange      float64           `json:"dayChange"`
	DayChangePct   float64           `json:"dayChangePct"`
	UnrealizedGain float64           `json:"unrealizedGain"`
	CashBalance    float64           `json:"cashBalance"`
	Holdings       []SnapshotHolding `json:"holdings"`
	Plans          []SnapshotPlan    `json:"plans"`
}

// SnapshotHolding is the widget view of a holding.
type SnapshotHolding struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Shares       float64 `json:"shares"`
	AverageCost  float64 `json:"averageCost"`
	CurrentPrice float64 `json:"currentPrice"`
	Value        float64 `json:"value"`
	ValueText    string  `json:"valueText"`
	DayChange    float64 `json:"dayChange"`
}

// SnapshotPlan is the widget view of an investment plan.
type SnapshotPlan struct {
	Symbol             string     `json:"symbol"`
	Status             string     `json:"status"`
	CompletedPurchases int        `json:"completedPurchases"`
	NumberOfPurchases  int        `json:"numberOfPurchases"`
	AmountPerPurchase  float64    `json:"amountPerPurchase"`
	NextPurchaseDate   *time.Time `json:"nextPurchaseDate,omitempty"`
	Overdue            bool       `json:"overdue"`
}
