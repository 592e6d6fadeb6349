package handlers

import (
	"net/http"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/api/response"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/service"
	"github.com/ndewijer/folio/internal/validation"
)

// SettingsHandler handles user preference endpoints.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings handles GET /api/settings. The AI key itself is never returned.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSettings.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT /api/settings. A new refresh interval takes effect
// immediately.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateSettingsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateSettings(req); err != nil {
		respondServiceError(w, err, "validation failed")
		return
	}

	settings, err := h.settingsService.UpdateSettings(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateSettings.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, settings)
}
