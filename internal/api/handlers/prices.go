package handlers

import (
	"net/http"
	"time"

	"github.com/ndewijer/folio/internal/api/response"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/logging"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/service"
)

// PriceHandler handles the quote cache endpoints.
type PriceHandler struct {
	priceService    *service.PriceService
	snapshotService *service.SnapshotService
}

// NewPriceHandler creates a new PriceHandler.
func NewPriceHandler(priceService *service.PriceService, snapshotService *service.SnapshotService) *PriceHandler {
	return &PriceHandler{
		priceService:    priceService,
		snapshotService: snapshotService,
	}
}

// PricesResponse is the cached quote set.
type PricesResponse struct {
	Prices      map[string]model.PriceQuote `json:"prices"`
	LastRefresh *time.Time                  `json:"lastRefresh,omitempty"`
	Refreshing  bool                        `json:"refreshing"`
}

// Prices handles GET requests for the cached quotes.
//
// Endpoint: GET /api/price
// Response: 200 OK with PricesResponse
func (h *PriceHandler) Prices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.priceService.GetPrices(r.Context())
	if err != nil {
		respondServiceError(w, err, "failed to retrieve prices")
		return
	}
	last, err := h.priceService.LastRefresh(r.Context())
	if err != nil {
		respondServiceError(w, err, "failed to retrieve prices")
		return
	}

	response.RespondJSON(w, http.StatusOK, PricesResponse{
		Prices:      prices,
		LastRefresh: last,
		Refreshing:  h.priceService.Refreshing(),
	})
}

// Refresh handles POST requests to refresh every quote now. The widget snapshot
// is synced afterwards; a failed sync is logged and does not fail the request.
//
// Endpoint: POST /api/price/refresh
// Response: 200 OK with model.RefreshResult
// Error: 409 Conflict if a refresh is already running
func (h *PriceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.priceService.Refresh(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRefreshPrices.Error())
		return
	}

	if h.snapshotService != nil {
		if _, err := h.snapshotService.Sync(r.Context()); err != nil {
			logging.Get().Warnw("snapshot sync after refresh failed", "error", err)
		}
	}

	response.RespondJSON(w, http.StatusOK, result)
}
