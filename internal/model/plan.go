package model

import "time"

// Cadence is how often a plan purchase is due.
type Cadence string

const (
	CadenceWeekly   Cadence = "weekly"
	CadenceBiweekly Cadence = "biweekly"
	CadenceMonthly  Cadence = "monthly"
	CadenceCustom   Cadence = "custom"
)

// PlanStatus is the lifecycle state of an investment plan.
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanPaused    PlanStatus = "paused"
	PlanCompleted PlanStatus = "completed"
	PlanCancelled PlanStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible.
func (s PlanStatus) IsTerminal() bool {
	return s == PlanCompleted || s == PlanCancelled
}

// Plan is a dollar-cost averaging schedule for one asset.
// AmountPerPurchase is TotalAmount / NumberOfPurchases, fixed at creation and
// recomputed only when either operand is edited.
type Plan struct {
	ID                 string     `json:"id"`
	AssetID            string     `json:"assetId"`
	TotalAmount        float64    `json:"totalAmount"`
	NumberOfPurchases  int        `json:"numberOfPurchases"`
	AmountPerPurchase  float64    `json:"amountPerPurchase"`
	Cadence            Cadence    `json:"cadence"`
	CustomDays         int        `json:"customDays,omitempty"`
	StartDate          time.Time  `json:"startDate"`
	CompletedPurchases int        `json:"completedPurchases"`
	Status             PlanStatus `json:"status"`
	Note               string     `json:"note,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// PlanResponse is a plan with its derived schedule fields.
type PlanResponse struct {
	Plan
	Symbol           string     `json:"symbol"`
	NextPurchaseDate *time.Time `json:"nextPurchaseDate,omitempty"`
	Overdue          bool       `json:"overdue"`
	Progress         float64    `json:"progress"`
	InvestedAmount   float64    `json:"investedAmount"`
	RemainingAmount  float64    `json:"remainingAmount"`
}

// Valid reports whether c is a known cadence.
func (c Cadence) Valid() bool {
	switch c {
	case CadenceWeekly, CadenceBiweekly, CadenceMonthly, CadenceCustom:
		return true
	}
	return false
}

// PlanPurchase is the result of recording one scheduled purchase.
type PlanPurchase struct {
	Plan        PlanResponse `json:"plan"`
	Transaction Transaction  `json:"transaction"`
}
