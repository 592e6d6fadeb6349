package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/api/response"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/service"
	"github.com/ndewijer/folio/internal/validation"
)

// PlanHandler handles HTTP requests for investment plan endpoints.
type PlanHandler struct {
	planService *service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// Plans handles GET requests to list plans, optionally for one asset (?asset=).
//
// Endpoint: GET /api/plan
// Response: 200 OK with array of model.PlanResponse
func (h *PlanHandler) Plans(w http.ResponseWriter, r *http.Request) {
	assetID := r.URL.Query().Get("asset")
	if assetID != "" {
		if err := validation.ValidateUUID(assetID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
			return
		}
	}

	plans, err := h.planService.GetPlans(r.Context(), assetID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePlans.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, plans)
}

// GetPlan handles GET requests for one plan.
//
// Endpoint: GET /api/plan/{uuid}
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.planService.GetPlan(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePlan.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, plan)
}

// CreatePlan handles POST requests to create an active plan.
//
// Endpoint: POST /api/plan
// Request Body: CreatePlanRequest
// Response: 201 Created with model.PlanResponse
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePlanRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePlan(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	plan, err := h.planService.CreatePlan(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to create investment plan")
		return
	}
	response.RespondJSON(w, http.StatusCreated, plan)
}

// UpdatePlan handles PUT requests to edit a plan.
//
// Endpoint: PUT /api/plan/{uuid}
// Request Body: UpdatePlanRequest (all fields optional)
func (h *PlanHandler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdatePlanRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdatePlan(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	plan, err := h.planService.UpdatePlan(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, "failed to update investment plan")
		return
	}
	response.RespondJSON(w, http.StatusOK, plan)
}

// ChangeStatus handles POST requests to pause, resume or cancel a plan.
//
// Endpoint: POST /api/plan/{uuid}/status
// Request Body: PlanStatusRequest
// Response: 200 OK with model.PlanResponse
// Error: 409 Conflict if the transition is not allowed
func (h *PlanHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.PlanStatusRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidatePlanStatus(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	plan, err := h.planService.ChangeStatus(r.Context(), chi.URLParam(r, "uuid"), model.PlanStatus(req.Status))
	if err != nil {
		respondServiceError(w, err, "failed to change plan status")
		return
	}
	response.RespondJSON(w, http.StatusOK, plan)
}

// RecordPurchase handles POST requests to record the next scheduled purchase.
//
// Endpoint: POST /api/plan/{uuid}/purchase
// Request Body: RecordPurchaseRequest
// Response: 201 Created with model.PlanPurchase
// Error: 409 Conflict if the plan is not active
func (h *PlanHandler) RecordPurchase(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RecordPurchaseRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRecordPurchase(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	purchase, err := h.planService.RecordPurchase(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, "failed to record plan purchase")
		return
	}
	response.RespondJSON(w, http.StatusCreated, purchase)
}

// DeletePlan handles DELETE requests. Recorded purchases stay in the ledger.
//
// Endpoint: DELETE /api/plan/{uuid}
// Response: 204 No Content
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.planService.DeletePlan(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, "failed to delete investment plan")
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}
