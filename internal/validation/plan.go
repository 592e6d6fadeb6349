package validation

import (
	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/model"
)

// ValidateCreatePlan validates a plan creation request.
func ValidateCreatePlan(req request.CreatePlanRequest) error {
	extra := make(map[string]string)
	if model.Cadence(req.Cadence) == model.CadenceCustom && req.CustomDays < 1 {
		extra["customDays"] = "customDays must be at least 1 for a custom cadence"
	}
	return Struct(req, extra)
}

// ValidateUpdatePlan validates a plan update request.
func ValidateUpdatePlan(req request.UpdatePlanRequest) error {
	return Struct(req, nil)
}

// ValidatePlanStatus validates a status change request.
func ValidatePlanStatus(req request.PlanStatusRequest) error {
	return Struct(req, nil)
}

// ValidateRecordPurchase validates a plan purchase request.
func ValidateRecordPurchase(req request.RecordPurchaseRequest) error {
	return Struct(req, nil)
}

// ValidateUpdateSettings validates a settings update request.
func ValidateUpdateSettings(req request.UpdateSettingsRequest) error {
	return Struct(req, nil)
}
