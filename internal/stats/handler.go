package stats

import (
	"context"
	"net/http"

	"github.com/frahmantamala/support-desk/internal/transport"
	"github.com/frahmantamala/support-desk/pkg/logger"
)

type ServiceAPI interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
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

// Dashboard handles GET /admin/stats
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Service.Dashboard(r.Context())
	if err != nil {
		h.HandleError(w, err)
		return
	}
	h.WriteSuccess(w, http.StatusOK, "Statistics retrieved successfully", d)
}
