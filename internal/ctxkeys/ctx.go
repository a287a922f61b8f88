package ctxkeys

import (
	"context"

	"github.com/templui/skilledger/internal/config"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	UserIDKey     contextKey = "user_id"
	AuthMethodKey contextKey = "auth_method"
	ConfigKey     contextKey = "config"
	CSRFTokenKey  contextKey = "csrf_token"
	RequestIDKey  contextKey = "request_id"
)

const (
	AuthMethodBearer = "bearer"
	AuthMethodCookie = "cookie"
)

// UserID returns the authenticated user or "" for anonymous requests
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

func WithUserID(ctx context.Context, userID, method string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, AuthMethodKey, method)
}

func AuthMethod(ctx context.Context) string {
	method, _ := ctx.Value(AuthMethodKey).(string)
	return method
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
