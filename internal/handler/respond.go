package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/templui/skilledger/internal/ctxkeys"
	"github.com/templui/skilledger/internal/repository"
	"github.com/templui/skilledger/internal/service"
	"github.com/templui/skilledger/internal/validation"
)

const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// respondError maps service errors to status codes. Anything unexpected is
// logged with op and hidden behind a generic message.
func respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, repository.ErrProgressNotFound):
		writeError(w, http.StatusNotFound, "progress not found")
	case errors.Is(err, service.ErrExportDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("failed to "+op, "error", err, "user_id", ctxkeys.UserID(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err != nil {
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return &validation.Error{Field: "body", Message: "unknown field " + field}
		}
		return &validation.Error{Field: "body", Message: "invalid JSON body"}
	}
	return nil
}

// queryDays reads ?days=N. A missing value returns 0, which the services
// treat as the default window.
func queryDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0, &validation.Error{Field: "days", Message: "days must be a non-negative integer"}
	}
	return days, nil
}
