package contact_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/activity"
	"github.com/frahmantamala/support-desk/internal/contact"
	contactDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/contact"
	"github.com/frahmantamala/support-desk/internal/ratelimit"
	"github.com/frahmantamala/support-desk/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, inq *contactDatamodel.Inquiry) error {
	args := m.Called(ctx, inq)
	if args.Error(0) == nil {
		inq.ID = 31
	}
	return args.Error(0)
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, identifier, action string) bool {
	return m.Called(identifier, action).Bool(0)
}

func (m *mockLimiter) Record(ctx context.Context, identifier, action string, success bool) {
	m.Called(identifier, action, success)
}

type recordedAction struct {
	userID *int64
	action string
}

type stubRecorder struct {
	entries []recordedAction
}

func (s *stubRecorder) Record(ctx context.Context, userID *int64, action, details string) {
	s.entries = append(s.entries, recordedAction{userID: userID, action: action})
}

var _ = Describe("Service", func() {
	var (
		repo     *mockRepository
		limiter  *mockLimiter
		recorder *stubRecorder
		svc      *contact.Service
		ctx      context.Context
		dto      contact.InquiryDTO
	)

	BeforeEach(func() {
		repo = &mockRepository{}
		limiter = &mockLimiter{}
		recorder = &stubRecorder{}
		svc = contact.NewService(repo, limiter, recorder, logger.Discard())
		ctx = internal.ContextWithRequestMeta(context.Background(), "203.0.113.9", "ginkgo")
		dto = contact.InquiryDTO{
			Name: "  Lin ", Email: "lin@example.com", Subject: "Sponsorship", Message: "Hi there",
			ServiceType: "sponsoring",
		}
	})

	It("stores the inquiry and answers with the expected response time", func() {
		limiter.On("Allow", "203.0.113.9", ratelimit.ActionContact).Return(true)
		limiter.On("Record", "203.0.113.9", ratelimit.ActionContact, true).Return()
		repo.On("Create", mock.Anything, mock.MatchedBy(func(inq *contactDatamodel.Inquiry) bool {
			return inq.Name == "Lin" && inq.ServiceType == contact.ServiceSponsoring && inq.Status == contact.StatusNew
		})).Return(nil)

		out, err := svc.Submit(ctx, dto)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.InquiryID).To(Equal(int64(31)))
		Expect(out.ExpectedResponseTime).To(Equal("24 hours"))
		Expect(recorder.entries).To(HaveLen(1))
		Expect(recorder.entries[0].action).To(Equal(activity.ActionContactSubmitted))
		Expect(recorder.entries[0].userID).To(BeNil())
		limiter.AssertExpectations(GinkgoT())
		repo.AssertExpectations(GinkgoT())
	})

	It("falls back to the general service type", func() {
		dto.ServiceType = "catering"
		limiter.On("Allow", mock.Anything, mock.Anything).Return(true)
		limiter.On("Record", mock.Anything, mock.Anything, true).Return()
		repo.On("Create", mock.Anything, mock.MatchedBy(func(inq *contactDatamodel.Inquiry) bool {
			return inq.ServiceType == contact.ServiceGeneral
		})).Return(nil)

		_, err := svc.Submit(ctx, dto)
		Expect(err).NotTo(HaveOccurred())
	})

	It("validates before touching the limiter", func() {
		_, err := svc.Submit(ctx, contact.InquiryDTO{Email: "nope"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(400))
		Expect(appErr.Details.(internal.ValidationErrors).Errors).To(HaveLen(4))
		limiter.AssertNotCalled(GinkgoT(), "Allow", mock.Anything, mock.Anything)
	})

	It("throttles by client address", func() {
		limiter.On("Allow", "203.0.113.9", ratelimit.ActionContact).Return(false)

		_, err := svc.Submit(ctx, dto)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(429))
		Expect(appErr.Message).To(Equal("Too many contact submissions. Please try again later."))
		repo.AssertNotCalled(GinkgoT(), "Create", mock.Anything, mock.Anything)
	})

	It("counts a storage failure against the address", func() {
		limiter.On("Allow", mock.Anything, mock.Anything).Return(true)
		limiter.On("Record", "203.0.113.9", ratelimit.ActionContact, false).Return()
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := svc.Submit(ctx, dto)
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(500))
		Expect(recorder.entries).To(BeEmpty())
		limiter.AssertExpectations(GinkgoT())
	})
})
