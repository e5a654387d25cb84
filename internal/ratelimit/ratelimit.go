package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/support-desk/internal"
)

const (
	ActionLogin    = "login"
	ActionRegister = "register"
	ActionContact  = "contact"
)

// Store persists attempt timestamps per (identifier, action) key.
type Store interface {
	Purge(ctx context.Context, identifier, action string, before time.Time) error
	Count(ctx context.Context, identifier, action string, since time.Time) (int64, error)
	Add(ctx context.Context, identifier, action, ip string, at time.Time) error
	Clear(ctx context.Context, identifier, action string) error
}

// Limiter is a sliding-window brute-force guard. It fails open: when the
// store cannot be read, requests are allowed and a warning is logged.
type Limiter struct {
	store       Store
	maxAttempts int
	window      time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

func NewLimiter(store Store, cfg internal.RateLimitConfig, logger *slog.Logger) *Limiter {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = internal.DefaultMaxAttempts
	}
	window := cfg.LockoutWindow
	if window <= 0 {
		window = internal.DefaultLockoutWindow
	}
	return &Limiter{
		store:       store,
		maxAttempts: maxAttempts,
		window:      window,
		logger:      logger,
		now:         time.Now,
	}
}

func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	cp := *l
	cp.now = now
	return &cp
}

func (l *Limiter) Allow(ctx context.Context, identifier, action string) bool {
	cutoff := l.now().Add(-l.window)

	if err := l.store.Purge(ctx, identifier, action, cutoff); err != nil {
		l.logger.Warn("rate limit purge failed, allowing request",
			"action", action, "error", err)
		return true
	}

	count, err := l.store.Count(ctx, identifier, action, cutoff)
	if err != nil {
		l.logger.Warn("rate limit count failed, allowing request",
			"action", action, "error", err)
		return true
	}

	if count >= int64(l.maxAttempts) {
		l.logger.Info("rate limit exceeded", "action", action, "attempts", count)
		return false
	}
	return true
}

// Record clears the key on success and appends one attempt on failure.
func (l *Limiter) Record(ctx context.Context, identifier, action string, success bool) {
	if success {
		if err := l.store.Clear(ctx, identifier, action); err != nil {
			l.logger.Warn("rate limit clear failed", "action", action, "error", err)
		}
		return
	}

	meta := internal.RequestMetaFromContext(ctx)
	if err := l.store.Add(ctx, identifier, action, meta.IP, l.now()); err != nil {
		l.logger.Warn("rate limit record failed", "action", action, "error", err)
	}
}
