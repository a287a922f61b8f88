package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	SessionsLogged     prometheus.Counter
	MinutesLogged      prometheus.Counter
	ProgressUpdates    *prometheus.CounterVec
	AchievementsIssued prometheus.Counter
	Rejections         *prometheus.CounterVec
	RequestCounter     *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SessionsLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_sessions_logged_total",
			Help: "Study sessions appended to the ledger",
		}),
		MinutesLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_minutes_logged_total",
			Help: "Minutes of study time logged",
		}),
		ProgressUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_progress_updates_total",
				Help: "Explicit progress updates by resulting status",
			},
			[]string{"status"},
		),
		AchievementsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_achievements_granted_total",
			Help: "Achievements granted",
		}),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_rejections_total",
				Help: "Operations rejected by validation",
			},
			[]string{"operation"},
		),
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2},
			},
			[]string{"method", "endpoint"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SessionsLogged,
		m.MinutesLogged,
		m.ProgressUpdates,
		m.AchievementsIssued,
		m.Rejections,
		m.RequestCounter,
		m.RequestDuration,
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request. endpoint should be the
// route pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestCounter.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// SessionLogged has no skill label. Skill names are unbounded client input.
func (m *Metrics) SessionLogged(minutes int) {
	if m == nil {
		return
	}
	m.SessionsLogged.Inc()
	m.MinutesLogged.Add(float64(minutes))
}

func (m *Metrics) ProgressUpdated(status string) {
	if m == nil {
		return
	}
	m.ProgressUpdates.WithLabelValues(status).Inc()
}

func (m *Metrics) AchievementGranted() {
	if m == nil {
		return
	}
	m.AchievementsIssued.Inc()
}

func (m *Metrics) Rejected(operation string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(operation).Inc()
}
