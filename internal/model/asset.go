package model

import "time"

// AssetType identifies what kind of instrument an asset is.
type AssetType string

const (
	AssetTypeStock    AssetType = "stock"
	AssetTypeETF      AssetType = "etf"
	AssetTypeTreasury AssetType = "treasury"
	AssetTypeCD       AssetType = "cd"
	AssetTypeCash     AssetType = "cash"
)

// AssetTypes lists every supported asset type in display order.
var AssetTypes = []AssetType{AssetTypeStock, AssetTypeETF, AssetTypeTreasury, AssetTypeCD, AssetTypeCash}

// IsCash reports whether positions of this type are tracked in currency units.
func (t AssetType) IsCash() bool { return t == AssetTypeCash }

// IsQuoted reports whether a market quote can be fetched for this type.
// Certificates of deposit and cash are valued at book.
func (t AssetType) IsQuoted() bool {
	return t == AssetTypeStock || t == AssetTypeETF || t == AssetTypeTreasury
}

// Asset represents an asset row from the database.
// MaturityDate and InterestRate are only set for certificates of deposit.
type Asset struct {
	ID           string     `json:"id"`
	Symbol       string     `json:"symbol"`
	Type         AssetType  `json:"type"`
	Name         string     `json:"name"`
	MaturityDate *time.Time `json:"maturityDate,omitempty"`
	InterestRate *float64   `json:"interestRate,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Holding is an asset enriched with the values derived from its transaction history
// and the latest cached quote. All monetary values are rounded to two decimals.
type Holding struct {
	Asset
	TotalShares      float64    `json:"totalShares"`
	AverageCost      float64    `json:"averageCost"`
	TotalCost        float64    `json:"totalCost"`
	CurrentPrice     float64    `json:"currentPrice"`
	PreviousPrice    float64    `json:"previousPrice"`
	CurrentValue     float64    `json:"currentValue"`
	UnrealizedGain   float64    `json:"unrealizedGain"`
	RealizedGain     float64    `json:"realizedGain"`
	TotalIncome      float64    `json:"totalIncome"`
	DayChange        float64    `json:"dayChange"`
	Allocation       float64    `json:"allocation"`
	PriceUpdatedAt   *time.Time `json:"priceUpdatedAt,omitempty"`
	Matured          bool       `json:"matured"`
	TransactionCount int        `json:"transactionCount"`
}

// Valid reports whether t is a known asset type.
func (t AssetType) Valid() bool {
	for _, v := range AssetTypes {
		if t == v {
			return true
		}
	}
	return false
}
