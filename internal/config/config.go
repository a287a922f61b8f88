package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret string
	JWTExpiry time.Duration

	// Ledger
	SessionWindowDays int

	// HTTP
	RateLimitWrites    int
	RateLimitWindow    time.Duration
	TrustProxyHeaders  bool
	CORSAllowedOrigins []string

	// Observability (optional)
	SentryDSN      string
	MetricsEnabled bool

	// Export archive (optional, S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration

	// Achievement notifications (optional)
	AMQPURL      string
	AMQPExchange string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Skill Ledger"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/ledger.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"),

		// Security
		JWTSecret: envRequired("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 168*time.Hour), // 7 days

		// Ledger
		SessionWindowDays: envInt("SESSION_WINDOW_DAYS", 30),

		// HTTP
		RateLimitWrites:    envInt("RATE_LIMIT_WRITES", 60),
		RateLimitWindow:    envDuration("RATE_LIMIT_WINDOW", time.Minute),
		TrustProxyHeaders:  envBool("TRUST_PROXY_HEADERS", false), // Only behind a proxy that overwrites X-Forwarded-For
		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", nil),

		// Observability
		SentryDSN:      envString("SENTRY_DSN", ""),
		MetricsEnabled: envBool("METRICS_ENABLED", true),

		// Export archive (all empty disables archiving)
		S3Region:        envString("S3_REGION", "us-east-1"),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),

		// Notifications
		AMQPURL:      envString("AMQP_URL", ""),
		AMQPExchange: envString("AMQP_EXCHANGE", "ledger.events"),
	}

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction rejects settings that are only acceptable on a laptop.
func validateProduction(cfg *Config) {
	if len(cfg.JWTSecret) < 32 {
		slog.Error("production deployment requires a JWT_SECRET of at least 32 bytes")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return i
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

// envList splits a comma separated value, dropping blanks
func envList(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}

	var items []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ExportEnabled reports whether snapshots can be archived to object storage.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != ""
}

// NotificationsEnabled reports whether a broker is configured.
func (c *Config) NotificationsEnabled() bool {
	return c.AMQPURL != ""
}

// Sanitized returns a copy of the config with only public/safe fields.
// All secrets, credentials, and sensitive data are excluded.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		Port:    c.Port,

		DBDriver: c.DBDriver,

		SessionWindowDays: c.SessionWindowDays,

		RateLimitWrites:    c.RateLimitWrites,
		RateLimitWindow:    c.RateLimitWindow,
		TrustProxyHeaders:  c.TrustProxyHeaders,
		CORSAllowedOrigins: c.CORSAllowedOrigins,

		MetricsEnabled: c.MetricsEnabled,

		S3Bucket:   c.S3Bucket,
		S3Endpoint: c.S3Endpoint,

		AMQPExchange: c.AMQPExchange,
	}
}
