package handlers

import (
	"net/http"

	"github.com/ndewijer/folio/internal/api/response"
	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/service"
)

// SnapshotHandler exposes the widget snapshot.
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotService *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

// Snapshot handles GET /api/snapshot and returns a freshly built snapshot
// without writing it.
func (h *SnapshotHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshotService.Build(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSyncSnapshot.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, snap)
}

// Sync handles POST /api/snapshot/sync and rewrites the shared snapshot file.
func (h *SnapshotHandler) Sync(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshotService.Sync(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSyncSnapshot.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, snap)
}
