package middleware

import (
	"net/http"
	"strings"

	"github.com/templui/skilledger/internal/ctxkeys"
	"github.com/templui/skilledger/internal/service"
)

// AuthMiddleware resolves the user id from a bearer token or the auth cookie.
// Requests without valid credentials continue anonymously.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// API clients
			if token, ok := bearerToken(r); ok {
				userID, err := authService.VerifyJWT(token)
				if err != nil {
					next.ServeHTTP(w, r)
					return
				}

				ctx := ctxkeys.WithUserID(r.Context(), userID, ctxkeys.AuthMethodBearer)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Browser clients
			cookie, err := r.Cookie(service.AuthCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := authService.VerifyJWT(cookie.Value)
			if err != nil {
				// Invalid token, clear cookie and continue
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID, ctxkeys.AuthMethodCookie)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.UserID(r.Context()) == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="ledger"`)
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		next.ServeHTTP(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
