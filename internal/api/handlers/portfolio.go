package handlers

import (
	"net/http"

	"github.com/ndewijer/folio/internal/api/response"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/service"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// PortfolioSummary handles GET requests for the portfolio totals and holdings.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with model.PortfolioSummary
func (h *PortfolioHandler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetSummary(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPortfolioSummary.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
