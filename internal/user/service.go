package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/activity"
	"github.com/frahmantamala/support-desk/internal/auth"
	userDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/user"
	"github.com/frahmantamala/support-desk/internal/ratelimit"
)

type Repository interface {
	// EmailTaken reports whether another account (not excludeID) uses email.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	AssignRole(ctx context.Context, userID int64, role string) error
	// FindByID returns internal.ErrUserNotFound when the id is unknown.
	FindByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	FindActiveByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	Roles(ctx context.Context, userID int64) ([]string, error)
	UpdateProfile(ctx context.Context, id int64, fields ProfileFields, at time.Time) error
	SetStatus(ctx context.Context, id int64, status string, at time.Time) error
	TicketStats(ctx context.Context, userID int64) (TicketStats, error)
	List(ctx context.Context) ([]ListRow, error)
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}

type RateLimiter interface {
	Allow(ctx context.Context, identifier, action string) bool
	Record(ctx context.Context, identifier, action string, success bool)
}

type ActivityRecorder interface {
	Record(ctx context.Context, userID *int64, action, details string)
}

var (
	errEmailRegistered = internal.NewValidationError("Email address is already registered", internal.ErrCodeEmailTaken)
	errEmailInUse      = internal.NewValidationError("Email address is already in use by another account", internal.ErrCodeEmailTaken)
)

type Service struct {
	repo     Repository
	limiter  RateLimiter
	activity ActivityRecorder
	security internal.SecurityConfig
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, limiter RateLimiter, recorder ActivityRecorder, security internal.SecurityConfig, logger *slog.Logger) *Service {
	if security.PasswordMinLength <= 0 {
		security.PasswordMinLength = internal.DefaultPasswordMinLength
	}
	return &Service{
		repo:     repo,
		limiter:  limiter,
		activity: recorder,
		security: security,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates a customer account. Throttling is keyed by client IP.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*Registered, error) {
	dto.Normalize()
	if err := dto.Validate(s.security.PasswordMinLength); err != nil {
		return nil, err
	}

	ip := internal.RequestMetaFromContext(ctx).IP
	if !s.limiter.Allow(ctx, ip, ratelimit.ActionRegister) {
		return nil, internal.NewRateLimitedError("Too many registration attempts. Please try again later.")
	}

	taken, err := s.repo.EmailTaken(ctx, dto.Email, 0)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred during registration", err)
	}
	if taken {
		s.limiter.Record(ctx, ip, ratelimit.ActionRegister, false)
		return nil, errEmailRegistered
	}

	hash, err := auth.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred during registration", err)
	}

	u := &userDatamodel.User{
		FirstName:     dto.FirstName,
		LastName:      dto.LastName,
		Email:         dto.Email,
		PasswordHash:  hash,
		Status:        userDatamodel.StatusActive,
		EmailVerified: s.security.AutoVerifyEmail,
	}
	if !s.security.AutoVerifyEmail {
		token, err := auth.GenerateSecureToken()
		if err != nil {
			return nil, internal.NewInternalError("An error occurred during registration", err)
		}
		u.EmailVerificationToken = &token
	}

	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, u); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if err := tx.AssignRole(ctx, u.ID, DefaultRole); err != nil {
			return fmt.Errorf("assign role: %w", err)
		}
		return nil
	})
	if err != nil {
		// a concurrent registration may have won the unique index
		if taken, lookupErr := s.repo.EmailTaken(ctx, dto.Email, 0); lookupErr == nil && taken {
			s.limiter.Record(ctx, ip, ratelimit.ActionRegister, false)
			return nil, errEmailRegistered
		}
		return nil, internal.NewInternalError("An error occurred during registration", err)
	}

	s.activity.Record(ctx, activity.UserID(u.ID), activity.ActionRegister, "User account created")
	s.limiter.Record(ctx, ip, ratelimit.ActionRegister, true)
	s.logger.Info("user registered", "user_id", u.ID, "email_verified", u.EmailVerified)

	return &Registered{
		UserID:                u.ID,
		Email:                 u.Email,
		Name:                  u.FullName(),
		EmailVerified:         u.EmailVerified,
		VerificationEmailSent: false,
	}, nil
}

func (s *Service) Profile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.repo.FindActiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("An error occurred while retrieving profile", err)
	}

	stats, err := s.repo.TicketStats(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred while retrieving profile", err)
	}

	p := NewProfile(u, stats)
	return &p, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, dto UpdateProfileDTO) (*UpdatedProfile, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindActiveByID(ctx, userID); err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("An error occurred while updating profile", err)
	}

	taken, err := s.repo.EmailTaken(ctx, dto.Email, userID)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred while updating profile", err)
	}
	if taken {
		return nil, errEmailInUse
	}

	now := s.now()
	fields := dto.Fields()
	if err := s.repo.UpdateProfile(ctx, userID, fields, now); err != nil {
		return nil, internal.NewInternalError("An error occurred while updating profile", err)
	}

	s.activity.Record(ctx, activity.UserID(userID), activity.ActionProfileUpdated, "User profile information updated")

	updated := newUpdatedProfile(fields, now)
	return &updated, nil
}

// ToggleStatus flips the target between active and inactive. Self protection
// is checked before storage is read, peer protection once the target's roles
// are known.
func (s *Service) ToggleStatus(ctx context.Context, actor *auth.Identity, dto ToggleStatusDTO) (*StatusChange, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := auth.CanToggleStatus(actor, dto.UserID, nil); err != nil {
		return nil, err
	}

	target, err := s.repo.FindByID(ctx, dto.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("An error occurred while updating user status", err)
	}

	roles, err := s.repo.Roles(ctx, target.ID)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred while updating user status", err)
	}
	if err := auth.CanToggleStatus(actor, target.ID, roles); err != nil {
		s.logger.Warn("status toggle denied", "actor_id", actor.ID, "target_id", target.ID, "error", err)
		return nil, err
	}

	next := NextStatus(target.Status)
	if err := s.repo.SetStatus(ctx, target.ID, next, s.now()); err != nil {
		return nil, internal.NewInternalError("An error occurred while updating user status", err)
	}

	name := target.FullName()
	s.activity.Record(ctx, activity.UserID(actor.ID), activity.ActionUserStatusChanged,
		fmt.Sprintf("Changed user %s (#%d) status to %s", name, target.ID, next))

	return &StatusChange{UserID: target.ID, NewStatus: next, UserName: name}, nil
}

func (s *Service) List(ctx context.Context) ([]Listed, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred while retrieving users", err)
	}

	out := make([]Listed, 0, len(rows))
	for _, r := range rows {
		out = append(out, NewListed(r))
	}
	return out, nil
}
