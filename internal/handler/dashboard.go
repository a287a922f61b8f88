package handler

import (
	"net/http"

	"github.com/templui/skilledger/internal/ctxkeys"
	"github.com/templui/skilledger/internal/service"
)

type DashboardHandler struct {
	progressService *service.ProgressService
}

func NewDashboardHandler(progressService *service.ProgressService) *DashboardHandler {
	return &DashboardHandler{
		progressService: progressService,
	}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	days, err := queryDays(r)
	if err != nil {
		respondError(w, r, "load dashboard", err)
		return
	}

	summary, err := h.progressService.Summary(r.Context(), userID, days)
	if err != nil {
		respondError(w, r, "load dashboard", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
