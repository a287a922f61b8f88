package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/templui/skilledger/internal/ctxkeys"
	"github.com/templui/skilledger/internal/service"
)

type ExportHandler struct {
	exportService *service.ExportService
}

func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Download streams the snapshot as a JSON attachment
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	snapshot, err := h.exportService.Snapshot(r.Context(), userID)
	if err != nil {
		respondError(w, r, "export ledger", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=ledger-export.json")

	err = json.NewEncoder(w).Encode(snapshot)
	if err != nil {
		slog.Error("failed to encode export", "error", err, "user_id", userID)
	}
}

// Archive writes the snapshot to object storage and returns a download link
func (h *ExportHandler) Archive(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	archive, err := h.exportService.Archive(r.Context(), userID)
	if err != nil {
		respondError(w, r, "archive ledger", err)
		return
	}

	writeJSON(w, http.StatusCreated, archive)
}
