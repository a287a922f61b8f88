package routes

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/templui/skilledger/internal/app"
	"github.com/templui/skilledger/internal/handler"
	"github.com/templui/skilledger/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.Store)
	auth := handler.NewAuthHandler(app.AuthService)
	ledger := handler.NewLedgerHandler(app.ProgressService)
	dashboard := handler.NewDashboardHandler(app.ProgressService)
	export := handler.NewExportHandler(app.ExportService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)
	if app.Cfg.MetricsEnabled {
		mux.Handle("GET /metrics", app.Metrics.Handler())
	}

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Writes are rate limited per client IP
	limit := middleware.RateLimitWrites(middleware.NewRateLimiter(app.Cfg.RateLimitWrites, app.Cfg.RateLimitWindow))

	// Auth
	mux.HandleFunc("POST /api/auth/cookie", middleware.RequireAuth(auth.IssueCookie))
	mux.HandleFunc("DELETE /api/auth/cookie", auth.ClearCookie)

	// Sessions
	mux.HandleFunc("POST /api/sessions", middleware.RequireAuth(limit(ledger.LogSession)))
	mux.HandleFunc("GET /api/sessions", middleware.RequireAuth(ledger.Sessions))

	// Progress
	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(ledger.ProgressList))
	mux.HandleFunc("GET /api/progress/{skill}", middleware.RequireAuth(ledger.Progress))
	mux.HandleFunc("PUT /api/progress/{skill}", middleware.RequireAuth(limit(ledger.SetProgress)))

	// Achievements
	mux.HandleFunc("GET /api/achievements", middleware.RequireAuth(ledger.Achievements))

	// Dashboard
	mux.HandleFunc("GET /api/dashboard", middleware.RequireAuth(dashboard.Dashboard))

	// Export
	mux.HandleFunc("GET /api/export", middleware.RequireAuth(export.Download))
	mux.HandleFunc("POST /api/export", middleware.RequireAuth(limit(export.Archive)))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (needed by CSRF for the secure flag)
		middleware.RequestID,
		middleware.AuthMiddleware(app.AuthService),
		middleware.CSRFProtection,              // Only cookie-authenticated writes
		middleware.RequestLogging(app.Metrics), // Last, so the matched route pattern is visible
	)

	// Without configured origins the API stays same-origin
	if len(app.Cfg.CORSAllowedOrigins) == 0 {
		return handler
	}

	return corsHandler(app.Cfg.CORSAllowedOrigins).Handler(handler)
}

// corsHandler allows browser front ends on the configured origins
func corsHandler(origins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-CSRF-Token", "X-Request-ID"},
		ExposedHeaders:   []string{"X-CSRF-Token", "X-Request-ID"},
		AllowCredentials: true,
	})
}
