package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testSecret = "test-secret-key-that-is-long-enough-123"

var _ = Describe("TokenCodec", func() {
	var (
		codec *TokenCodec
		now   time.Time
	)

	BeforeEach(func() {
		now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
		codec = NewTokenCodec(testSecret).WithClock(func() time.Time { return now })
	})

	It("round-trips claims before the ttl elapses", func() {
		token, expiresAt, err := codec.Issue(Claims{UserID: 17, Email: "jane@example.com", Name: "Jane Doe", Roles: []string{"customer"}}, time.Hour)
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.Count(token, ".")).To(Equal(2))
		Expect(expiresAt).To(Equal(now.Add(time.Hour)))

		now = now.Add(59 * time.Minute)
		claims, err := codec.Verify(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.UserID).To(Equal(int64(17)))
		Expect(claims.Subject).To(Equal("17"))
		Expect(claims.Email).To(Equal("jane@example.com"))
		Expect(claims.Roles).To(ConsistOf("customer"))
		Expect(claims.IssuedAt.Time).To(BeTemporally("==", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)))
	})

	It("fails with ErrTokenExpired after the ttl", func() {
		token, _, err := codec.Issue(Claims{UserID: 1, Email: "a@b.io"}, time.Minute)
		Expect(err).NotTo(HaveOccurred())

		now = now.Add(2 * time.Minute)
		_, err = codec.Verify(token)
		Expect(err).To(MatchError(ErrTokenExpired))
	})

	It("rejects a payload altered after issuance", func() {
		token, _, err := codec.Issue(Claims{UserID: 5, Email: "user@example.com"}, time.Hour)
		Expect(err).NotTo(HaveOccurred())

		parts := strings.Split(token, ".")
		raw, err := base64.RawURLEncoding.DecodeString(parts[1])
		Expect(err).NotTo(HaveOccurred())

		var payload map[string]interface{}
		Expect(json.Unmarshal(raw, &payload)).To(Succeed())
		payload["user_id"] = 1
		forged, err := json.Marshal(payload)
		Expect(err).NotTo(HaveOccurred())

		tampered := parts[0] + "." + base64.RawURLEncoding.EncodeToString(forged) + "." + parts[2]
		claims, err := codec.Verify(tampered)
		Expect(err).To(MatchError(ErrInvalidSignature))
		Expect(claims).To(BeNil())
	})

	It("rejects a token signed with another secret", func() {
		other := NewTokenCodec("another-secret-key-that-is-long-enough").WithClock(func() time.Time { return now })
		token, _, err := other.Issue(Claims{UserID: 5}, time.Hour)
		Expect(err).NotTo(HaveOccurred())

		_, err = codec.Verify(token)
		Expect(err).To(MatchError(ErrInvalidSignature))
	})

	It("rejects the none algorithm", func() {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			UserID:           5,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		Expect(err).NotTo(HaveOccurred())

		_, err = codec.Verify(token)
		Expect(err).To(HaveOccurred())
	})

	It("requires an expiry claim", func() {
		t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 5})
		token, err := t.SignedString([]byte(testSecret))
		Expect(err).NotTo(HaveOccurred())

		_, err = codec.Verify(token)
		Expect(err).To(HaveOccurred())
	})

	DescribeTable("fails closed on malformed input",
		func(token string) {
			claims, err := codec.Verify(token)
			Expect(err).To(MatchError(ErrTokenMalformed))
			Expect(claims).To(BeNil())
		},
		Entry("empty", ""),
		Entry("one part", "abc"),
		Entry("two parts", "abc.def"),
		Entry("bad encoding", "!!!.@@@.###"),
		Entry("four parts", "a.b.c.d"),
	)
})
