package user

import (
	"github.com/frahmantamala/support-desk/internal"
	userDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DTOs", func() {
	Describe("RegisterDTO", func() {
		valid := func() RegisterDTO {
			return RegisterDTO{
				FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
				Password: "Engine#1843", ConfirmPassword: "Engine#1843",
			}
		}

		It("accepts a complete registration", func() {
			Expect(valid().Validate(8)).To(BeNil())
		})

		It("requires matching passwords", func() {
			dto := valid()
			dto.ConfirmPassword = "Engine#1844"
			err := dto.Validate(8)
			Expect(err).NotTo(BeNil())
			Expect(err.GetDetailedMessage()).To(Equal("Passwords do not match"))
		})

		It("applies the password policy", func() {
			dto := valid()
			dto.Password, dto.ConfirmPassword = "engineengine", "engineengine"
			Expect(dto.Validate(8)).NotTo(BeNil())
		})

		It("rejects a malformed email", func() {
			dto := valid()
			dto.Email = "ada at example"
			err := dto.Validate(8)
			Expect(err).NotTo(BeNil())
			Expect(err.Details.(internal.ValidationErrors).Errors[0].Code).To(Equal(string(internal.ErrCodeInvalidEmail)))
		})
	})

	Describe("UpdateProfileDTO", func() {
		It("lets optional fields be blank", func() {
			dto := UpdateProfileDTO{FirstName: "Ada", LastName: "L", Email: "ada@example.com"}
			Expect(dto.Validate()).To(BeNil())
			Expect(dto.Fields().Phone).To(BeEmpty())
		})

		It("requires names and email", func() {
			err := UpdateProfileDTO{}.Validate()
			Expect(err).NotTo(BeNil())
			Expect(err.Details.(internal.ValidationErrors).Errors).To(HaveLen(3))
		})
	})

	It("flips status", func() {
		Expect(NextStatus(userDatamodel.StatusActive)).To(Equal(userDatamodel.StatusInactive))
		Expect(NextStatus(userDatamodel.StatusInactive)).To(Equal(userDatamodel.StatusActive))
	})
})
