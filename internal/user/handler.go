package user

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/auth"
	"github.com/frahmantamala/support-desk/internal/transport"
	"github.com/frahmantamala/support-desk/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Register(ctx context.Context, dto RegisterDTO) (*Registered, error)
	Profile(ctx context.Context, userID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, dto UpdateProfileDTO) (*UpdatedProfile, error)
	ToggleStatus(ctx context.Context, actor *auth.Identity, dto ToggleStatusDTO) (*StatusChange, error)
	List(ctx context.Context) ([]Listed, error)
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

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	registered, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Registration successful! You can now log in.", registered)
}

// GetProfile handles GET /profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.HandleError(w, internal.ErrMissingToken)
		return
	}

	profile, err := h.Service.Profile(r.Context(), identity.ID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.HandleError(w, internal.ErrMissingToken)
		return
	}

	var dto UpdateProfileDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	updated, err := h.Service.UpdateProfile(r.Context(), identity.ID, dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Profile updated successfully", updated)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Users retrieved successfully", users)
}

// ToggleStatus takes the target from the path, or from "userId" in the body
// on the legacy route.
func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.HandleError(w, internal.ErrMissingToken)
		return
	}

	var dto ToggleStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	if raw := chi.URLParam(r, "id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.HandleError(w, internal.NewValidationError("User ID is required", internal.ErrCodeValidationFailed))
			return
		}
		dto.UserID = id
	}

	change, err := h.Service.ToggleStatus(r.Context(), identity, dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "User status changed to "+change.NewStatus+" successfully", change)
}
