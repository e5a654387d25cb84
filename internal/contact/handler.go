package contact

import (
	"context"
	"net/http"

	"github.com/frahmantamala/support-desk/internal/transport"
	"github.com/frahmantamala/support-desk/pkg/logger"
)

type ServiceAPI interface {
	Submit(ctx context.Context, dto InquiryDTO) (*Submitted, error)
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

// Submit handles POST /contact
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var dto InquiryDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleError(w, err)
		return
	}

	submitted, err := h.Service.Submit(r.Context(), dto)
	if err != nil {
		h.HandleError(w, err)
		return
	}

	h.WriteSuccess(w, http.StatusCreated, "Contact form submitted successfully", submitted)
}
