package request

type CreatePlanRequest struct {
	AssetID           string  `json:"assetId" validate:"required,uuid"`
	TotalAmount       float64 `json:"totalAmount" validate:"gt=0"`
	NumberOfPurchases int     `json:"numberOfPurchases" validate:"gte=1,lte=1000"`
	Cadence           string  `json:"cadence" validate:"required,cadence"`
	CustomDays        int     `json:"customDays" validate:"gte=0,lte=365"`
	StartDate         string  `json:"startDate" validate:"required,datetime=2006-01-02"`
	Note              string  `json:"note" validate:"max=500"`
}

// UpdatePlanRequest edits a plan. Amount per purchase is recomputed only when
// TotalAmount or NumberOfPurchases is present.
type UpdatePlanRequest struct {
	TotalAmount       *float64 `json:"totalAmount,omitempty" validate:"omitempty,gt=0"`
	NumberOfPurchases *int     `json:"numberOfPurchases,omitempty" validate:"omitempty,gte=1,lte=1000"`
	Cadence           *string  `json:"cadence,omitempty" validate:"omitempty,cadence"`
	CustomDays        *int     `json:"customDays,omitempty" validate:"omitempty,gte=1,lte=365"`
	StartDate         *string  `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Note              *string  `json:"note,omitempty" validate:"omitempty,max=500"`
}

type PlanStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active paused cancelled"`
}

// RecordPurchaseRequest records one scheduled purchase. Quantity defaults to
// amount per purchase divided by the price.
type RecordPurchaseRequest struct {
	Date         string   `json:"date" validate:"required,datetime=2006-01-02"`
	PricePerUnit float64  `json:"pricePerUnit" validate:"gt=0"`
	Quantity     *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Note         string   `json:"note" validate:"max=500"`
}
