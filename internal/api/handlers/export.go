package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ndewijer/folio/internal/api/request"
	"github.com/ndewijer/folio/internal/api/response"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/service"
)

// ExportHandler serves the transaction export.
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Export handles GET requests to download postings as CSV (default) or JSON.
// Accepts the same filters as the transaction listing.
//
// Endpoint: GET /api/export?format=csv|json
// Response: 200 OK with an attachment
// Error: 400 Bad Request for an unknown format or a malformed filter
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := strings.ToLower(q.Get("format"))
	if format == "" {
		format = service.FormatCSV
	}

	filter, err := request.ParseTransactionFilters(q.Get("asset"), q.Get("kind"), q.Get("from"), q.Get("to"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid filter", err.Error())
		return
	}

	// buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := h.exportService.Export(r.Context(), &buf, format, filter); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToExport.Error())
		return
	}

	filename := fmt.Sprintf("folio-transactions-%s.%s", time.Now().UTC().Format("20060102"), format)
	w.Header().Set("Content-Type", service.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
