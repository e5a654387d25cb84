package auth

import (
	"strings"

	"github.com/frahmantamala/support-desk/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Credential store", func() {
	Describe("HashPassword and VerifyPassword", func() {
		It("produces salted argon2id hashes", func() {
			h1, err := HashPassword("Sup3r$ecret")
			Expect(err).NotTo(HaveOccurred())
			h2, err := HashPassword("Sup3r$ecret")
			Expect(err).NotTo(HaveOccurred())

			Expect(h1).To(HavePrefix("$argon2id$v=19$"))
			Expect(h1).NotTo(Equal(h2))
			Expect(VerifyPassword(h1, "Sup3r$ecret")).To(BeTrue())
			Expect(VerifyPassword(h1, "Sup3r$ecreT")).To(BeFalse())
		})

		It("still accepts bcrypt hashes", func() {
			legacy, err := bcrypt.GenerateFromPassword([]byte("Legacy#123"), bcrypt.MinCost)
			Expect(err).NotTo(HaveOccurred())

			Expect(VerifyPassword(string(legacy), "Legacy#123")).To(BeTrue())
			Expect(VerifyPassword(string(legacy), "legacy#123")).To(BeFalse())
		})

		It("rejects unknown or corrupted hashes", func() {
			Expect(VerifyPassword("plaintext", "plaintext")).To(BeFalse())
			Expect(VerifyPassword("$argon2id$v=19$m=65536,t=1,p=4$%%%$%%%", "x")).To(BeFalse())
			Expect(VerifyPassword("", "")).To(BeFalse())
		})
	})

	Describe("GenerateSecureToken", func() {
		It("returns 64 hex characters and never repeats", func() {
			a, err := GenerateSecureToken()
			Expect(err).NotTo(HaveOccurred())
			b, err := GenerateSecureToken()
			Expect(err).NotTo(HaveOccurred())

			Expect(a).To(MatchRegexp(`^[0-9a-f]{64}$`))
			Expect(a).NotTo(Equal(b))
		})
	})

	Describe("PasswordStrength", func() {
		DescribeTable("scores one point per rule, capped at four",
			func(password string, score int, label string, acceptable bool) {
				s := PasswordStrength(password)
				Expect(s.Score).To(Equal(score))
				Expect(s.Label).To(Equal(label))
				Expect(s.Acceptable()).To(Equal(acceptable))
			},
			Entry("empty", "", 0, "Very Weak", false),
			Entry("lowercase only", "abc", 1, "Weak", false),
			Entry("long lowercase", "abcdefgh", 2, "Fair", false),
			Entry("long mixed case", "Abcdefgh", 3, "Good", true),
			Entry("short with every class", "Ab1!", 4, "Strong", true),
			Entry("everything", "Abcdef1!", 4, "Strong", true),
		)

		It("lists what is missing", func() {
			s := PasswordStrength("abc")
			Expect(s.Missing).To(ConsistOf("at least 8 characters", "uppercase letters", "numbers", "special characters"))
		})
	})

	Describe("CheckPasswordPolicy", func() {
		It("enforces the configured minimum length first", func() {
			err := CheckPasswordPolicy("password", "Ab1!xyz", 8)
			Expect(err).NotTo(BeNil())
			Expect(err.Code).To(Equal(internal.ErrCodeValidationFailed))
			Expect(err.GetDetailedMessage()).To(ContainSubstring("at least 8 characters"))
		})

		It("rejects a long but weak password", func() {
			err := CheckPasswordPolicy("password", strings.Repeat("a", 12), 8)
			Expect(err).NotTo(BeNil())
			Expect(err.GetDetailedMessage()).To(ContainSubstring("too weak"))
		})

		It("accepts a strong password", func() {
			Expect(CheckPasswordPolicy("password", "Str0ng!Pass", 8)).To(BeNil())
		})
	})
})
