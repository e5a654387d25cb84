package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/transport"
	"github.com/frahmantamala/support-desk/pkg/logger"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO) (*LoginResult, error)
	Logout(ctx context.Context, token string)
	Authenticate(ctx context.Context, token string) (*Identity, *Claims, error)
	ValidateToken(ctx context.Context, token string) (*ValidationResult, error)
	ValidateAdminToken(ctx context.Context, token string) (*ValidationResult, error)
	ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error
	Strength(password string) Strength
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	result, err := h.Service.Login(r.Context(), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Login successful", result)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Service.Logout(r.Context(), h.ExtractTokenFromHeader(r))
	h.WriteSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.ValidateToken(r.Context(), h.ExtractTokenFromHeader(r))
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Token is valid", result)
}

func (h *Handler) ValidateAdmin(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.ValidateAdminToken(r.Context(), h.ExtractTokenFromHeader(r))
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Admin token is valid", result)
}

type strengthResponse struct {
	Strength
	Acceptable bool `json:"acceptable"`
}

func (h *Handler) PasswordStrength(w http.ResponseWriter, r *http.Request) {
	var dto PasswordStrengthDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	s := h.Service.Strength(dto.Password)
	h.WriteSuccess(w, http.StatusOK, s.Label, strengthResponse{Strength: s, Acceptable: s.Acceptable()})
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		h.HandleError(w, internal.ErrMissingToken)
		return
	}

	var dto ChangePasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), identity.ID, dto); err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Password changed successfully", nil)
}

// AuthMiddleware rejects requests without a valid bearer token for an
// active account and stores the resolved identity in the context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, _, err := h.Service.Authenticate(r.Context(), h.ExtractTokenFromHeader(r))
		if err != nil {
			h.Logger.Debug("auth middleware: rejected", "path", r.URL.Path, "error", err)
			h.HandleError(w, err)
			return
		}

		ctx := WithIdentity(r.Context(), identity)
		ctx = logger.With(ctx, "user_id", identity.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles must run after AuthMiddleware.
func (h *Handler) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, _ := IdentityFromContext(r.Context())
			if err := Authorize(identity, roles...); err != nil {
				if identity != nil {
					h.Logger.Warn("access denied: missing role",
						"user_id", identity.ID,
						"required_roles", roles,
						"user_roles", identity.Roles)
				}
				h.HandleError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
