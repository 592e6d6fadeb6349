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

// AssetHandler handles HTTP requests for asset endpoints.
type AssetHandler struct {
	assetService       *service.AssetService
	portfolioService   *service.PortfolioService
	transactionService *service.TransactionService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(
	assetService *service.AssetService,
	portfolioService *service.PortfolioService,
	transactionService *service.TransactionService,
) *AssetHandler {
	return &AssetHandler{
		assetService:       assetService,
		portfolioService:   portfolioService,
		transactionService: transactionService,
	}
}

// Assets handles GET requests to list every asset with its holding.
//
// Endpoint: GET /api/asset
// Response: 200 OK with array of model.Holding
// Error: 500 Internal Server Error if retrieval fails
func (h *AssetHandler) Assets(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.portfolioService.GetHoldings(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAssets.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, holdings)
}

// GetAsset handles GET requests for one asset and its holding.
//
// Endpoint: GET /api/asset/{uuid}
// Response: 200 OK with model.Holding
// Error: 404 Not Found if the asset does not exist
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	holding, err := h.portfolioService.GetHolding(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAsset.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, holding)
}

// AssetTransactions handles GET requests for the postings of one asset, newest first.
//
// Endpoint: GET /api/asset/{uuid}/transactions
func (h *AssetHandler) AssetTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")
	if _, err := h.assetService.GetAsset(r.Context(), id); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAsset.Error())
		return
	}

	rows, err := h.transactionService.GetTransactions(r.Context(), model.TransactionFilter{AssetID: id})
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, rows)
}

// CreateAsset handles POST requests to create an asset.
//
// Endpoint: POST /api/asset
// Request Body: CreateAssetRequest
// Response: 201 Created with model.Asset
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the symbol already exists for the type
func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAssetRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateAsset(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	asset, err := h.assetService.CreateAsset(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, "failed to create asset")
		return
	}
	response.RespondJSON(w, http.StatusCreated, asset)
}

// UpdateAsset handles PUT requests to edit an asset.
//
// Endpoint: PUT /api/asset/{uuid}
// Request Body: UpdateAssetRequest (all fields optional)
// Response: 200 OK with model.Asset
func (h *AssetHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateAssetRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	current, err := h.assetService.GetAsset(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAsset.Error())
		return
	}

	if err := validation.ValidateUpdateAsset(req, current.Type); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	asset, err := h.assetService.UpdateAsset(r.Context(), id, req)
	if err != nil {
		respondServiceError(w, err, "failed to update asset")
		return
	}
	response.RespondJSON(w, http.StatusOK, asset)
}

// DeleteAsset handles DELETE requests. The asset's plans and every logical
// transaction that touched it are removed with it.
//
// Endpoint: DELETE /api/asset/{uuid}
// Response: 204 No Content
func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.assetService.DeleteAsset(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, "failed to delete asset")
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}
