package request

// CreateTransactionRequest records one logical transaction.
// Buys, sells, dividends and interest use Quantity and PricePerUnit; deposits and
// withdrawals on a cash asset use Amount. LinkCash defaults to true.
type CreateTransactionRequest struct {
	AssetID      string  `json:"assetId" validate:"required,uuid"`
	Kind         string  `json:"kind" validate:"required,tx_kind"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	Quantity     float64 `json:"quantity" validate:"gte=0"`
	PricePerUnit float64 `json:"pricePerUnit" validate:"gte=0"`
	Amount       float64 `json:"amount" validate:"gte=0"`
	Note         string  `json:"note" validate:"max=500"`
	PlanID       *string `json:"planId,omitempty" validate:"omitempty,uuid"`
	LinkCash     *bool   `json:"linkCash,omitempty"`
}

type UpdateTransactionRequest struct {
	Kind         *string  `json:"kind,omitempty" validate:"omitempty,tx_kind"`
	Date         *string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Quantity     *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	PricePerUnit *float64 `json:"pricePerUnit,omitempty" validate:"omitempty,gte=0"`
	Amount       *float64 `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Note         *string  `json:"note,omitempty" validate:"omitempty,max=500"`
}
