package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextClientIPKey  ctxKey = "clientIP"
	ContextUserAgentKey ctxKey = "userAgent"
)

// RequestMeta is the origin metadata stored with sessions, attempts and
// audit records.
type RequestMeta struct {
	IP        string
	UserAgent string
}

func ContextWithRequestMeta(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextClientIPKey, ip)
	return context.WithValue(ctx, ContextUserAgentKey, userAgent)
}

func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta := RequestMeta{IP: "unknown", UserAgent: "unknown"}
	if ctx == nil {
		return meta
	}
	if ip, ok := ctx.Value(ContextClientIPKey).(string); ok && ip != "" {
		meta.IP = ip
	}
	if ua, ok := ctx.Value(ContextUserAgentKey).(string); ok && ua != "" {
		meta.UserAgent = ua
	}
	return meta
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
