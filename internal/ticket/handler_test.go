package ticket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/auth"
	"github.com/frahmantamala/support-desk/internal/transport"
	"github.com/frahmantamala/support-desk/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeService struct {
	lastReply  ReplyDTO
	lastStatus StatusDTO
	lastFilter Filter
	err        error
}

func (f *fakeService) Create(ctx context.Context, userID int64, dto CreateTicketDTO) (*Created, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Created{TicketID: 7, Subject: dto.Title, Status: StatusOpen}, nil
}

func (f *fakeService) Reply(ctx context.Context, staffID int64, dto ReplyDTO) error {
	f.lastReply = dto
	return f.err
}

func (f *fakeService) UpdateStatus(ctx context.Context, staffID int64, dto StatusDTO) (*AdminView, error) {
	f.lastStatus = dto
	if f.err != nil {
		return nil, f.err
	}
	return &AdminView{View: View{ID: dto.TicketID, Status: dto.Status}}, nil
}

func (f *fakeService) List(ctx context.Context, filter Filter) ([]AdminView, error) {
	f.lastFilter = filter
	return []AdminView{}, f.err
}

func (f *fakeService) Details(ctx context.Context, id int64) (*Details, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Details{AdminView: AdminView{View: View{ID: id}}, Messages: []MessageView{}}, nil
}

func (f *fakeService) MyTickets(ctx context.Context, userID int64) ([]View, error) {
	return []View{}, f.err
}

var _ = Describe("Handler", func() {
	var (
		svc    *fakeService
		router chi.Router
	)

	withIdentity := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Test-Anonymous") == "" {
				r = r.WithContext(auth.WithIdentity(r.Context(), &auth.Identity{ID: 42, Roles: []string{auth.RoleSupport}}))
			}
			next.ServeHTTP(w, r)
		})
	}

	do := func(method, path, body string, headers ...string) (*httptest.ResponseRecorder, transport.Envelope) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		for i := 0; i+1 < len(headers); i += 2 {
			req.Header.Set(headers[i], headers[i+1])
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		var env transport.Envelope
		Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
		return rec, env
	}

	BeforeEach(func() {
		svc = &fakeService{}
		h := NewHandler(svc)
		h.Logger = logger.Discard()

		router = chi.NewRouter()
		router.Use(withIdentity)
		router.Post("/tickets", h.Create)
		router.Get("/tickets", h.MyTickets)
		router.Get("/admin/tickets", h.List)
		router.Get("/admin/tickets/{id}", h.Details)
		router.Post("/admin/tickets/{id}/reply", h.Reply)
		router.Post("/admin/tickets/{id}/status", h.UpdateStatus)
	})

	It("answers 201 with the envelope on create", func() {
		rec, env := do(http.MethodPost, "/tickets", `{"subject":"general","priority":"low","title":"Hi","message":"Hello"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(env.Success).To(BeTrue())
		Expect(env.Message).To(Equal("Support ticket created successfully"))
	})

	It("requires an identity", func() {
		rec, env := do(http.MethodPost, "/tickets", `{}`, "X-Test-Anonymous", "1")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(env.Success).To(BeFalse())
	})

	It("rejects malformed JSON", func() {
		rec, env := do(http.MethodPost, "/tickets", `{"subject":`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Message).To(Equal("Invalid JSON data"))
	})

	It("prefers the path id over the body on reply", func() {
		rec, _ := do(http.MethodPost, "/admin/tickets/9/reply", `{"ticketId":3,"message":"ok"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(svc.lastReply.TicketID).To(Equal(int64(9)))
	})

	It("rejects a non-numeric id", func() {
		rec, env := do(http.MethodPost, "/admin/tickets/abc/status", `{"status":"open"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Message).To(Equal("Valid ticket ID is required"))
	})

	It("passes query filters through", func() {
		rec, _ := do(http.MethodGet, "/admin/tickets?status=open&priority=urgent", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(svc.lastFilter).To(Equal(Filter{Status: "open", Priority: "urgent"}))
	})

	It("maps a missing ticket to 404", func() {
		svc.err = internal.ErrTicketNotFound
		rec, env := do(http.MethodGet, "/admin/tickets/5", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(env.Message).To(Equal("Ticket not found"))
	})

	It("hides storage failures", func() {
		svc.err = internal.NewInternalError("An error occurred while sending reply", context.DeadlineExceeded)
		rec, env := do(http.MethodPost, "/admin/tickets/5/reply", `{"message":"x"}`)
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(env.Message).To(Equal("An internal error occurred"))
	})
})
