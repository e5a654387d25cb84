package ticket

import (
	"time"

	"github.com/frahmantamala/support-desk/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ticket rules", func() {
	now := time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC)
	earlier := now.Add(-48 * time.Hour)

	Describe("ResolvedAtFor", func() {
		It("stamps when entering a resolved state", func() {
			Expect(ResolvedAtFor(StatusOpen, StatusResolved, nil, now)).To(Equal(&now))
			Expect(ResolvedAtFor(StatusInProgress, StatusClosed, nil, now)).To(Equal(&now))
		})

		It("keeps the stamp between resolved and closed", func() {
			Expect(ResolvedAtFor(StatusResolved, StatusClosed, &earlier, now)).To(Equal(&earlier))
			Expect(ResolvedAtFor(StatusClosed, StatusClosed, &earlier, now)).To(Equal(&earlier))
		})

		It("repairs a missing stamp on a resolved ticket", func() {
			Expect(ResolvedAtFor(StatusResolved, StatusResolved, nil, now)).To(Equal(&now))
		})

		It("clears the stamp when reopening", func() {
			Expect(ResolvedAtFor(StatusResolved, StatusOpen, &earlier, now)).To(BeNil())
			Expect(ResolvedAtFor(StatusClosed, StatusInProgress, &earlier, now)).To(BeNil())
			Expect(ResolvedAtFor(StatusOpen, StatusInProgress, nil, now)).To(BeNil())
		})
	})

	It("ranks urgent above everything", func() {
		Expect(PriorityRank(PriorityUrgent)).To(BeNumerically("<", PriorityRank(PriorityHigh)))
		Expect(PriorityRank(PriorityHigh)).To(BeNumerically("<", PriorityRank(PriorityMedium)))
		Expect(PriorityRank(PriorityMedium)).To(BeNumerically("<", PriorityRank(PriorityLow)))
		Expect(PriorityRank("whatever")).To(BeNumerically(">", PriorityRank(PriorityLow)))
	})

	Describe("Filter", func() {
		views := []AdminView{
			{View: View{ID: 4, Priority: PriorityUrgent, Status: StatusOpen}},
			{View: View{ID: 2, Priority: PriorityUrgent, Status: StatusResolved}},
			{View: View{ID: 3, Priority: PriorityHigh, Status: StatusOpen}},
			{View: View{ID: 1, Priority: PriorityLow, Status: StatusOpen}},
		}

		ids := func(vs []AdminView) []int64 {
			out := make([]int64, 0, len(vs))
			for _, v := range vs {
				out = append(out, v.ID)
			}
			return out
		}

		It("keeps order and leaves the input alone", func() {
			Expect(ids(Filter{Status: StatusOpen}.Apply(views))).To(Equal([]int64{4, 3, 1}))
			Expect(ids(Filter{Priority: PriorityUrgent}.Apply(views))).To(Equal([]int64{4, 2}))
			Expect(ids(Filter{}.Apply(views))).To(Equal([]int64{4, 2, 3, 1}))
			Expect(views).To(HaveLen(4))
		})

		It("rejects unknown values", func() {
			Expect(Filter{Status: "pending"}.Validate()).NotTo(BeNil())
			Expect(Filter{Priority: "critical"}.Validate()).NotTo(BeNil())
			Expect(Filter{}.Validate()).To(BeNil())
		})
	})

	Describe("DTO validation", func() {
		It("maps subject to category and checks enums", func() {
			dto := CreateTicketDTO{Subject: "billing", Priority: "high", Title: "Invoice", Message: "Wrong amount"}
			dto.Normalize()
			Expect(dto.Category).To(Equal("billing"))
			Expect(dto.Validate()).To(BeNil())
		})

		It("reports every missing field", func() {
			err := CreateTicketDTO{}.Validate()
			Expect(err).NotTo(BeNil())
			Expect(err.Details.(internal.ValidationErrors).Errors).To(HaveLen(4))
		})

		It("rejects an unknown category", func() {
			dto := CreateTicketDTO{Subject: "sales", Priority: "high", Title: "x", Message: "y"}
			dto.Normalize()
			err := dto.Validate()
			Expect(err).NotTo(BeNil())
			Expect(err.GetDetailedMessage()).To(Equal("Invalid subject category"))
		})

		It("defaults the reply status to in_progress", func() {
			dto := ReplyDTO{TicketID: 1, Message: "On it"}
			dto.Normalize()
			Expect(dto.Status).To(Equal(StatusInProgress))
			Expect(dto.Validate()).To(BeNil())
		})

		It("rejects an unknown reply status", func() {
			dto := ReplyDTO{TicketID: 1, Message: "On it", Status: "pending"}
			dto.Normalize()
			Expect(dto.Validate()).NotTo(BeNil())
		})
	})
})
