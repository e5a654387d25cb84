package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/support-desk/internal"
)

const cacheKey = "stats:dashboard"

type Repository interface {
	TicketCounts(ctx context.Context) (TicketCounts, error)
	UserCounts(ctx context.Context, w Windows) (UserCounts, error)
	ActivityCounts(ctx context.Context, w Windows) (ActivityCounts, error)
	TicketTimestamps(ctx context.Context, since time.Time) ([]time.Time, error)
}

// Cache is satisfied by *cache.Client, including a nil one.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) bool
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration)
}

type Service struct {
	repo   Repository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, cache Cache, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

// Dashboard serves from cache when possible. Counts may lag ticket writes by
// up to the cache TTL.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var cached Dashboard
	if s.ttl > 0 && s.cache != nil && s.cache.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	now := s.now()
	w := WindowsAt(now)

	tickets, err := s.repo.TicketCounts(ctx)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred while retrieving statistics", err)
	}
	users, err := s.repo.UserCounts(ctx, w)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred while retrieving statistics", err)
	}
	act, err := s.repo.ActivityCounts(ctx, w)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred while retrieving statistics", err)
	}
	stamps, err := s.repo.TicketTimestamps(ctx, w.TrendStart)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred while retrieving statistics", err)
	}

	d := NewDashboard(tickets, users, act, BucketByDay(stamps, now.Location()))
	if s.ttl > 0 && s.cache != nil {
		s.cache.SetJSON(ctx, cacheKey, d, s.ttl)
	}
	s.logger.Debug("dashboard statistics computed", "tickets", tickets.Total, "users", users.Total)
	return &d, nil
}
