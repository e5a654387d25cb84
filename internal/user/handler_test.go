package user

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
	lastToggle ToggleStatusDTO
	lastActor  *auth.Identity
	err        error
}

func (f *fakeService) Register(ctx context.Context, dto RegisterDTO) (*Registered, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Registered{UserID: 11, Email: dto.Email, Name: dto.FirstName + " " + dto.LastName, EmailVerified: true}, nil
}

func (f *fakeService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Profile{ID: userID}, nil
}

func (f *fakeService) UpdateProfile(ctx context.Context, userID int64, dto UpdateProfileDTO) (*UpdatedProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &UpdatedProfile{Email: dto.Email}, nil
}

func (f *fakeService) ToggleStatus(ctx context.Context, actor *auth.Identity, dto ToggleStatusDTO) (*StatusChange, error) {
	f.lastToggle, f.lastActor = dto, actor
	if f.err != nil {
		return nil, f.err
	}
	return &StatusChange{UserID: dto.UserID, NewStatus: "inactive", UserName: "Cam Staff"}, nil
}

func (f *fakeService) List(ctx context.Context) ([]Listed, error) {
	return []Listed{}, f.err
}

var _ = Describe("Handler", func() {
	var (
		svc    *fakeService
		router chi.Router
	)

	withIdentity := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Test-Anonymous") == "" {
				r = r.WithContext(auth.WithIdentity(r.Context(), &auth.Identity{ID: 3, Roles: []string{auth.RoleManager}}))
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
		router.Post("/register", h.Register)
		router.Group(func(r chi.Router) {
			r.Use(withIdentity)
			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.UpdateProfile)
			r.Get("/admin/users", h.List)
			r.Post("/admin/users/{id}/toggle-status", h.ToggleStatus)
			r.Post("/admin/users/toggle-status", h.ToggleStatus)
		})
	})

	It("registers with 201", func() {
		rec, env := do(http.MethodPost, "/register", `{"firstName":"Ada","lastName":"L","email":"ada@example.com"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(env.Message).To(Equal("Registration successful! You can now log in."))
		Expect(env.Data).To(HaveKeyWithValue("user_id", BeNumerically("==", 11)))
	})

	It("surfaces validation details", func() {
		svc.err = internal.NewValidationFieldError("email", "Invalid email format", internal.ErrCodeInvalidEmail)
		rec, env := do(http.MethodPost, "/register", `{}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(env.Success).To(BeFalse())
		Expect(env.Data).To(HaveKey("errors"))
	})

	It("reads the profile of the caller", func() {
		rec, env := do(http.MethodGet, "/profile", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(HaveKeyWithValue("id", BeNumerically("==", 3)))
	})

	It("rejects anonymous profile reads", func() {
		rec, _ := do(http.MethodGet, "/profile", "", "X-Test-Anonymous", "1")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("maps a missing user to 404", func() {
		svc.err = internal.ErrUserNotFound
		rec, env := do(http.MethodGet, "/profile", "")
		Expect(rec.Code).To(Equal(http.StatusNotFound))
		Expect(env.Success).To(BeFalse())
	})

	It("updates the profile", func() {
		rec, env := do(http.MethodPut, "/profile", `{"firstName":"A","lastName":"B","email":"new@example.com"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Profile updated successfully"))
	})

	It("lists users as an array", func() {
		rec, env := do(http.MethodGet, "/admin/users", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(env.Data).To(BeEmpty())
		Expect(env.Data).NotTo(BeNil())
	})

	Describe("ToggleStatus", func() {
		It("takes the target from the path", func() {
			rec, env := do(http.MethodPost, "/admin/users/9/toggle-status", `{"userId":1}`)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(env.Message).To(Equal("User status changed to inactive successfully"))
			Expect(svc.lastToggle.UserID).To(Equal(int64(9)))
			Expect(svc.lastActor.ID).To(Equal(int64(3)))
		})

		It("falls back to the body on the legacy route", func() {
			rec, _ := do(http.MethodPost, "/admin/users/toggle-status", `{"userId":12}`)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(svc.lastToggle.UserID).To(Equal(int64(12)))
		})

		It("rejects a non-numeric path id", func() {
			rec, _ := do(http.MethodPost, "/admin/users/abc/toggle-status", "")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("reports self protection as forbidden", func() {
			svc.err = internal.ErrSelfProtection
			rec, env := do(http.MethodPost, "/admin/users/3/toggle-status", "")
			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(env.Message).To(Equal("You cannot change your own account status"))
		})
	})
})
