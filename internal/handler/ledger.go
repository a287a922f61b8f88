package handler

import (
	"net/http"

	"github.com/templui/skilledger/internal/ctxkeys"
	"github.com/templui/skilledger/internal/service"
	"github.com/templui/skilledger/internal/validation"
)

type LedgerHandler struct {
	progressService *service.ProgressService
}

func NewLedgerHandler(progressService *service.ProgressService) *LedgerHandler {
	return &LedgerHandler{
		progressService: progressService,
	}
}

type logSessionRequest struct {
	Skill   string `json:"skill"`
	Minutes int    `json:"minutes"`
	Note    string `json:"note"`
}

// Percentage is required. nil means the client left it out.
type setProgressRequest struct {
	Course     string `json:"course"`
	Percentage *int   `json:"percentage"`
	Note       string `json:"note"`
}

func (h *LedgerHandler) LogSession(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req logSessionRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		respondError(w, r, "log session", err)
		return
	}

	session, err := h.progressService.LogSession(r.Context(), userID, req.Skill, req.Minutes, req.Note)
	if err != nil {
		respondError(w, r, "log session", err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *LedgerHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	days, err := queryDays(r)
	if err != nil {
		respondError(w, r, "list sessions", err)
		return
	}

	sessions, err := h.progressService.SessionsFor(r.Context(), userID, days)
	if err != nil {
		respondError(w, r, "list sessions", err)
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}

func (h *LedgerHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req setProgressRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		respondError(w, r, "set progress", err)
		return
	}

	if req.Percentage == nil {
		respondError(w, r, "set progress", &validation.Error{Field: "percentage", Message: "percentage is required"})
		return
	}

	update, err := h.progressService.SetProgress(r.Context(), userID, r.PathValue("skill"), req.Course, *req.Percentage, req.Note)
	if err != nil {
		respondError(w, r, "set progress", err)
		return
	}

	writeJSON(w, http.StatusOK, update)
}

func (h *LedgerHandler) ProgressList(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	records, err := h.progressService.ProgressFor(r.Context(), userID)
	if err != nil {
		respondError(w, r, "list progress", err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *LedgerHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	progress, err := h.progressService.Progress(r.Context(), userID, r.PathValue("skill"))
	if err != nil {
		respondError(w, r, "get progress", err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

func (h *LedgerHandler) Achievements(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	achievements, err := h.progressService.AchievementsFor(r.Context(), userID)
	if err != nil {
		respondError(w, r, "list achievements", err)
		return
	}

	writeJSON(w, http.StatusOK, achievements)
}
