package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/activity"
	userDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/user"
	"github.com/frahmantamala/support-desk/internal/ratelimit"
)

type RepositoryAPI interface {
	// FindCredentialsByEmail returns internal.ErrUserNotFound unless an
	// active account has this email.
	FindCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	// GetIdentity returns internal.ErrUserNotFound unless the account is active.
	GetIdentity(ctx context.Context, userID int64) (*Identity, error)
	CreateSession(ctx context.Context, session *userDatamodel.Session) error
	DeleteSessions(ctx context.Context, userID int64) error
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
	GetPasswordHash(ctx context.Context, userID int64) (string, error)
	UpdatePassword(ctx context.Context, userID int64, hash string) error
}

type RateLimiter interface {
	Allow(ctx context.Context, identifier, action string) bool
	Record(ctx context.Context, identifier, action string, success bool)
}

type ActivityRecorder interface {
	Record(ctx context.Context, userID *int64, action, details string)
}

type Service struct {
	repo     RepositoryAPI
	codec    *TokenCodec
	limiter  RateLimiter
	activity ActivityRecorder
	security internal.SecurityConfig
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo RepositoryAPI, codec *TokenCodec, limiter RateLimiter, recorder ActivityRecorder, security internal.SecurityConfig, logger *slog.Logger) *Service {
	if security.TokenTTL <= 0 {
		security.TokenTTL = internal.DefaultTokenTTL
	}
	if security.PasswordMinLength <= 0 {
		security.PasswordMinLength = internal.DefaultPasswordMinLength
	}
	return &Service{
		repo:     repo,
		codec:    codec,
		limiter:  limiter,
		activity: recorder,
		security: security,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if !s.limiter.Allow(ctx, dto.Email, ratelimit.ActionLogin) {
		return nil, internal.NewRateLimitedError("Too many login attempts. Please try again later.")
	}

	creds, err := s.repo.FindCredentialsByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			s.limiter.Record(ctx, dto.Email, ratelimit.ActionLogin, false)
			return nil, internal.ErrInvalidCredentials
		}
		return nil, internal.NewInternalError("An error occurred during login", err)
	}

	if !VerifyPassword(creds.PasswordHash, dto.Password) {
		s.limiter.Record(ctx, dto.Email, ratelimit.ActionLogin, false)
		return nil, internal.ErrInvalidCredentials
	}

	if !creds.EmailVerified {
		return nil, internal.ErrEmailNotVerified
	}

	identity, err := s.repo.GetIdentity(ctx, creds.ID)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred during login", err)
	}

	token, expiresAt, err := s.codec.Issue(Claims{
		UserID: creds.ID,
		Email:  creds.Email,
		Name:   creds.FirstName + " " + creds.LastName,
		Roles:  identity.Roles,
	}, s.security.TokenTTL)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred during login", err)
	}

	sessionToken, err := GenerateSecureToken()
	if err != nil {
		return nil, internal.NewInternalError("An error occurred during login", err)
	}

	meta := internal.RequestMetaFromContext(ctx)
	if err := s.repo.CreateSession(ctx, &userDatamodel.Session{
		UserID:       creds.ID,
		SessionToken: sessionToken,
		ExpiresAt:    expiresAt,
		IPAddress:    meta.IP,
		UserAgent:    meta.UserAgent,
	}); err != nil {
		return nil, internal.NewInternalError("An error occurred during login", err)
	}

	if err := s.repo.TouchLastLogin(ctx, creds.ID, s.now()); err != nil {
		s.logger.Warn("failed to update last login", "user_id", creds.ID, "error", err)
	}

	s.activity.Record(ctx, activity.UserID(creds.ID), activity.ActionLogin, "User logged in successfully")
	s.limiter.Record(ctx, dto.Email, ratelimit.ActionLogin, true)

	s.logger.Info("user logged in", "user_id", creds.ID)

	return &LoginResult{
		Token:        token,
		SessionToken: sessionToken,
		ExpiresAt:    internal.FormatTime(expiresAt),
		User: LoginUser{
			ID:            creds.ID,
			Name:          creds.FirstName + " " + creds.LastName,
			FirstName:     creds.FirstName,
			LastName:      creds.LastName,
			Email:         creds.Email,
			EmailVerified: creds.EmailVerified,
			LastLogin:     internal.FormatTimePtr(creds.LastLogin),
		},
		Redirect: LandingPage(identity.Roles),
	}, nil
}

// Logout never fails. With a verifiable token every session of the user is
// removed.
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	claims, err := s.codec.Verify(token)
	if err != nil {
		return
	}
	if err := s.repo.DeleteSessions(ctx, claims.UserID); err != nil {
		s.logger.Warn("failed to delete sessions on logout", "user_id", claims.UserID, "error", err)
		return
	}
	s.activity.Record(ctx, activity.UserID(claims.UserID), activity.ActionLogout, "User logged out")
}

// Authenticate resolves a bearer token to an active identity with fresh
// roles and permissions.
func (s *Service) Authenticate(ctx context.Context, token string) (*Identity, *Claims, error) {
	if token == "" {
		return nil, nil, internal.ErrMissingToken
	}

	claims, err := s.codec.Verify(token)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return nil, nil, internal.ErrTokenExpired
		}
		return nil, nil, internal.ErrInvalidToken
	}

	identity, err := s.repo.GetIdentity(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, nil, internal.ErrUserInactive
		}
		return nil, nil, internal.NewInternalError("Database error occurred", err)
	}
	return identity, claims, nil
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*ValidationResult, error) {
	identity, claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	s.activity.Record(ctx, activity.UserID(identity.ID), activity.ActionTokenValidation, "Token validated successfully")

	return &ValidationResult{
		User:           NewIdentityView(identity),
		TokenExpiresAt: internal.FormatTime(claims.ExpiresAt.Time),
	}, nil
}

func (s *Service) ValidateAdminToken(ctx context.Context, token string) (*ValidationResult, error) {
	identity, claims, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := Authorize(identity, StaffRoles...); err != nil {
		s.logger.Warn("admin validation denied", "user_id", identity.ID, "roles", identity.Roles)
		return nil, err
	}

	s.activity.Record(ctx, activity.UserID(identity.ID), activity.ActionAdminAccess, "Admin token validated")

	return &ValidationResult{
		User:           NewIdentityView(identity).WithRoleFlags(),
		TokenExpiresAt: internal.FormatTime(claims.ExpiresAt.Time),
	}, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(s.security.PasswordMinLength); err != nil {
		return err
	}

	current, err := s.repo.GetPasswordHash(ctx, userID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return internal.ErrUserNotFound
		}
		return internal.NewInternalError("An error occurred while changing password", err)
	}

	if !VerifyPassword(current, dto.CurrentPassword) {
		return internal.NewValidationError("Current password is incorrect", internal.ErrCodeWrongPassword)
	}

	hash, err := HashPassword(dto.NewPassword)
	if err != nil {
		return internal.NewInternalError("An error occurred while changing password", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return internal.NewInternalError("An error occurred while changing password", fmt.Errorf("update password: %w", err))
	}

	s.activity.Record(ctx, activity.UserID(userID), activity.ActionPasswordChanged, "User password changed successfully")
	return nil
}

func (s *Service) Strength(password string) Strength {
	return PasswordStrength(password)
}
