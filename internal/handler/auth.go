package handler

import (
	"net/http"
	"time"

	"github.com/templui/skilledger/internal/ctxkeys"
	"github.com/templui/skilledger/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// IssueCookie trades the caller's credentials for a fresh auth cookie so a
// browser front end can call the API without holding the token itself.
func (h *AuthHandler) IssueCookie(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	token, err := h.authService.GenerateJWT(userID)
	if err != nil {
		respondError(w, r, "issue token", err)
		return
	}

	expiry := time.Now().Add(h.authService.Expiry())
	h.authService.SetJWTCookie(w, token, expiry)

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":    userID,
		"expires_at": expiry.UTC(),
	})
}

func (h *AuthHandler) ClearCookie(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
