package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/skilledger/internal/ctxkeys"
	"github.com/templui/skilledger/internal/metrics"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// RequestLogging logs every request and records it in m. It must wrap the
// ServeMux directly so the matched route pattern is visible afterwards.
func RequestLogging(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)

			endpoint := r.Pattern
			if endpoint == "" {
				endpoint = "unmatched"
			}
			m.ObserveRequest(r.Method, endpoint, rw.statusCode, duration)

			if r.URL.Path == "/healthz" || r.URL.Path == "/metrics" {
				return
			}

			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"duration_ms", duration.Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"user_id", ctxkeys.UserID(r.Context()),
				"request_id", ctxkeys.RequestID(r.Context()),
			)
		})
	}
}
