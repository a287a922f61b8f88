package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/skilledger/internal/app"
	"github.com/templui/skilledger/internal/config"
	"github.com/templui/skilledger/internal/model"
	"github.com/templui/skilledger/internal/service"
)

type testServer struct {
	t       *testing.T
	app     *app.App
	handler http.Handler
	token   string
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := &config.Config{
		AppName:           "Skill Ledger",
		AppEnv:            "development",
		DBDriver:          "sqlite",
		DBConnection:      filepath.Join(t.TempDir(), "ledger.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate",
		JWTSecret:         "test-secret",
		JWTExpiry:         time.Hour,
		SessionWindowDays: 30,
		RateLimitWrites:   100,
		RateLimitWindow:   time.Minute,
		MetricsEnabled:    true,
	}
	for _, fn := range mutate {
		fn(cfg)
	}

	a, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	token, err := a.AuthService.GenerateJWT("u1")
	require.NoError(t, err)

	return &testServer{t: t, app: a, handler: SetupRoutes(a), token: token}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	s.t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	rec := s.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAPIRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	for _, path := range []string{"/api/progress", "/api/sessions", "/api/achievements", "/api/dashboard", "/api/export"} {
		rec := s.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestLogSessionAndListProgress(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/sessions", `{"skill":"Python","minutes":90}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	session := decode[model.Session](t, rec)
	assert.Equal(t, "Python", session.SkillName)
	assert.Equal(t, "u1", session.UserID)

	rec = s.do(http.MethodPost, "/api/sessions", `{"skill":"Python","minutes":30}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	records := decode[[]model.Progress](t, rec)
	require.Len(t, records, 1)
	assert.Equal(t, 120, records[0].MinutesSpent)

	rec = s.do(http.MethodGet, "/api/sessions?days=7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Session](t, rec), 2)
}

func TestLogSessionValidation(t *testing.T) {
	s := newTestServer(t)

	tests := map[string]string{
		"empty skill":  `{"skill":"","minutes":10}`,
		"zero minutes": `{"skill":"Python","minutes":0}`,
		"bad json":     `{"skill":`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/sessions", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode[map[string]string](t, rec), "error")
		})
	}

	rec := s.do(http.MethodGet, "/api/progress", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestSetProgressGrantsAchievement(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPut, "/api/progress/Python", `{"course":"Intro","percentage":100}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	update := decode[service.ProgressUpdate](t, rec)
	require.NotNil(t, update.Progress)
	assert.Equal(t, model.ProgressStatusCompleted, update.Progress.Status)
	require.NotNil(t, update.Achievement)
	assert.Equal(t, "Completed Python", update.Achievement.Name)

	rec = s.do(http.MethodPut, "/api/progress/Python", `{"course":"Intro","percentage":100}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[service.ProgressUpdate](t, rec).Achievement)

	rec = s.do(http.MethodGet, "/api/achievements", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Achievement](t, rec), 1)
}

func TestSetProgressOutOfRange(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPut, "/api/progress/SQL", `{"percentage":101}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetProgressRequiresPercentage(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPut, "/api/progress/SQL", `{"course":"Intro","percentage":80}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	tests := map[string]string{
		"missing":    `{"course":"Intro"}`,
		"misspelled": `{"course":"Intro","percent":90}`,
		"null":       `{"course":"Intro","percentage":null}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := s.do(http.MethodPut, "/api/progress/SQL", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	rec = s.do(http.MethodGet, "/api/progress/SQL", "")
	require.Equal(t, http.StatusOK, rec.Code)
	progress := decode[model.Progress](t, rec)
	assert.Equal(t, 80, progress.Percentage)
	assert.Equal(t, model.ProgressStatusInProgress, progress.Status)
}

func TestSetProgressZeroIsExplicit(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodPut, "/api/progress/SQL", `{"percentage":80}`)

	rec := s.do(http.MethodPut, "/api/progress/SQL", `{"percentage":0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 0, decode[service.ProgressUpdate](t, rec).Progress.Percentage)
}

func TestProgressLookup(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/progress/Rust", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPut, "/api/progress/Rust", `{"percentage":40}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/progress/Rust", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 40, decode[model.Progress](t, rec).Percentage)
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodPost, "/api/sessions", `{"skill":"Go","minutes":25}`)

	rec := s.do(http.MethodGet, "/api/dashboard?days=7", "")
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decode[model.Summary](t, rec)
	assert.Equal(t, 25, summary.TotalMinutes)
	assert.Equal(t, 1, summary.SkillsTracked)
	assert.Equal(t, 7, summary.WindowDays)

	rec = s.do(http.MethodGet, "/api/dashboard?days=soon", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodPost, "/api/sessions", `{"skill":"Go","minutes":25}`)

	rec := s.do(http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ledger-export.json")
	snapshot := decode[model.Snapshot](t, rec)
	assert.Equal(t, "u1", snapshot.UserID)
	assert.Len(t, snapshot.Sessions, 1)

	rec = s.do(http.MethodPost, "/api/export", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUsersAreIsolated(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodPost, "/api/sessions", `{"skill":"Go","minutes":25}`)

	other, err := s.app.AuthService.GenerateJWT("u2")
	require.NoError(t, err)
	s.token = other

	rec := s.do(http.MethodGet, "/api/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCookieFlowRequiresCSRF(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/auth/cookie", "")
	require.Equal(t, http.StatusOK, rec.Code)
	authCookie := rec.Result().Cookies()[0]
	assert.Equal(t, service.AuthCookieName, authCookie.Name)

	s.token = ""

	post := func(csrf string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(`{"skill":"Go","minutes":5}`))
		for _, c := range cookies {
			req.AddCookie(c)
		}
		if csrf != "" {
			req.Header.Set("X-CSRF-Token", csrf)
		}
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusForbidden, post("", authCookie).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
	req.AddCookie(authCookie)
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	csrf := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, csrf)
	var csrfCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "csrf_token" {
			csrfCookie = c
		}
	}
	require.NotNil(t, csrfCookie)

	assert.Equal(t, http.StatusCreated, post(csrf, authCookie, csrfCookie).Code)
}

func TestWriteRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.RateLimitWrites = 2
		c.RateLimitWindow = time.Hour
	})

	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/sessions", `{"skill":"Go","minutes":5}`).Code)
	assert.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/sessions", `{"skill":"Go","minutes":5}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(http.MethodPost, "/api/sessions", `{"skill":"Go","minutes":5}`).Code)

	// reads are not limited
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/progress", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	s.do(http.MethodPost, "/api/sessions", `{"skill":"Go","minutes":5}`)

	s.token = ""
	rec := s.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ledger_sessions_logged_total")
	assert.Contains(t, rec.Body.String(), `endpoint="POST /api/sessions"`)
}

func TestSessionMetricsIgnoreSkillNames(t *testing.T) {
	s := newTestServer(t)

	for i := range 20 {
		rec := s.do(http.MethodPost, "/api/sessions", fmt.Sprintf(`{"skill":"skill-%d","minutes":5}`, i))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(s.app.Metrics.SessionsLogged))
	assert.Equal(t, 20.0, testutil.ToFloat64(s.app.Metrics.SessionsLogged))
}

func TestMetricsDisabled(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.MetricsEnabled = false })
	s.token = ""

	rec := s.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.CORSAllowedOrigins = []string{"https://app.example"}
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/progress", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
