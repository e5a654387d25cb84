package contact

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/activity"
	contactDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/contact"
	"github.com/frahmantamala/support-desk/internal/ratelimit"
)

type Repository interface {
	Create(ctx context.Context, inq *contactDatamodel.Inquiry) error
}

type RateLimiter interface {
	Allow(ctx context.Context, identifier, action string) bool
	Record(ctx context.Context, identifier, action string, success bool)
}

type ActivityRecorder interface {
	Record(ctx context.Context, userID *int64, action, details string)
}

type Service struct {
	repo     Repository
	limiter  RateLimiter
	activity ActivityRecorder
	logger   *slog.Logger
}

func NewService(repo Repository, limiter RateLimiter, recorder ActivityRecorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		limiter:  limiter,
		activity: recorder,
		logger:   logger,
	}
}

// Submit stores a public contact inquiry. Throttling is keyed by client IP
// and checked after validation so malformed posts do not count.
func (s *Service) Submit(ctx context.Context, dto InquiryDTO) (*Submitted, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	ip := internal.RequestMetaFromContext(ctx).IP
	if !s.limiter.Allow(ctx, ip, ratelimit.ActionContact) {
		return nil, internal.NewRateLimitedError("Too many contact submissions. Please try again later.")
	}

	inq := dto.ToDataModel()
	if err := s.repo.Create(ctx, inq); err != nil {
		s.limiter.Record(ctx, ip, ratelimit.ActionContact, false)
		return nil, internal.NewInternalError("An error occurred while submitting your message", err)
	}

	s.limiter.Record(ctx, ip, ratelimit.ActionContact, true)
	s.activity.Record(ctx, nil, activity.ActionContactSubmitted, "Contact inquiry from "+inq.Email+" ("+inq.ServiceType+")")
	s.logger.Info("contact inquiry stored", "inquiry_id", inq.ID, "service_type", inq.ServiceType)

	out := newSubmitted(inq)
	return &out, nil
}
