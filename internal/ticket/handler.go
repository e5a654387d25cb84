package ticket

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
	Create(ctx context.Context, userID int64, dto CreateTicketDTO) (*Created, error)
	Reply(ctx context.Context, staffID int64, dto ReplyDTO) error
	UpdateStatus(ctx context.Context, staffID int64, dto StatusDTO) (*AdminView, error)
	List(ctx context.Context, filter Filter) ([]AdminView, error)
	Details(ctx context.Context, id int64) (*Details, error)
	MyTickets(ctx context.Context, userID int64) ([]View, error)
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

var errInvalidTicketID = internal.NewValidationError("Valid ticket ID is required", internal.ErrCodeValidationFailed)

// ticketIDFromPath returns 0 when the route carries no id, so the body value
// is used instead.
func ticketIDFromPath(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidTicketID
	}
	return id, nil
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.HandleError(w, internal.ErrMissingToken)
		return
	}

	var dto CreateTicketDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	created, err := h.Service.Create(r.Context(), identity.ID, dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Support ticket created successfully", created)
}

func (h *Handler) MyTickets(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.HandleError(w, internal.ErrMissingToken)
		return
	}

	tickets, err := h.Service.MyTickets(r.Context(), identity.ID)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Tickets retrieved successfully", tickets)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tickets, err := h.Service.List(r.Context(), Filter{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
	})
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Tickets retrieved successfully", tickets)
}

func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	id, err := ticketIDFromPath(r)
	if err == nil && id == 0 {
		id, err = strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
		if err != nil || id <= 0 {
			err = errInvalidTicketID
		}
	}
	if err != nil {
		h.HandleError(w, err)
		return
	}

	details, err := h.Service.Details(r.Context(), id)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Ticket details retrieved successfully", details)
}

func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.HandleError(w, internal.ErrMissingToken)
		return
	}

	var dto ReplyDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	id, err := ticketIDFromPath(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	if id != 0 {
		dto.TicketID = id
	}

	if err := h.Service.Reply(r.Context(), identity.ID, dto); err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Reply sent and ticket updated successfully", nil)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.HandleError(w, internal.ErrMissingToken)
		return
	}

	var dto StatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	id, err := ticketIDFromPath(r)
	if err != nil {
		h.HandleError(w, err)
		return
	}
	if id != 0 {
		dto.TicketID = id
	}

	view, err := h.Service.UpdateStatus(r.Context(), identity.ID, dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusOK, "Ticket status updated successfully", view)
}
