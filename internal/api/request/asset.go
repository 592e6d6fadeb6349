package request

type CreateAssetRequest struct {
	Symbol       string   `json:"symbol" validate:"required,max=20"`
	Type         string   `json:"type" validate:"required,asset_type"`
	Name         string   `json:"name" validate:"required,max=100"`
	MaturityDate *string  `json:"maturityDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	InterestRate *float64 `json:"interestRate,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// UpdateAssetRequest edits an asset. The asset type cannot change once postings exist,
// so it is not editable.
type UpdateAssetRequest struct {
	Symbol       *string  `json:"symbol,omitempty" validate:"omitempty,min=1,max=20"`
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	MaturityDate *string  `json:"maturityDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	InterestRate *float64 `json:"interestRate,omitempty" validate:"omitempty,gte=0,lte=100"`
}
