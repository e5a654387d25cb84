package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/frahmantamala/support-desk/internal"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	argonSaltLen        = 16

	// MinAcceptableScore is the lowest strength score the server accepts.
	MinAcceptableScore = 3
)

var ErrUnknownHashFormat = errors.New("unknown password hash format")

// HashPassword returns an argon2id hash in PHC string format.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyPassword reports whether password matches the stored hash. bcrypt
// hashes from older rows are still accepted.
func VerifyPassword(hash, password string) bool {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		ok, err := verifyArgon2id(hash, password)
		return err == nil && ok
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	default:
		return false
	}
}

func verifyArgon2id(encoded, password string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, ErrUnknownHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrUnknownHashFormat
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, ErrUnknownHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrUnknownHashFormat
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrUnknownHashFormat
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// GenerateSecureToken returns 32 random bytes, hex encoded.
func GenerateSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var strengthLabels = [...]string{"Very Weak", "Weak", "Fair", "Good", "Strong"}

type Strength struct {
	Score   int      `json:"score"`
	Label   string   `json:"label"`
	Missing []string `json:"missing"`
}

func (s Strength) Acceptable() bool {
	return s.Score >= MinAcceptableScore
}

// PasswordStrength scores one point per satisfied rule, capped at 4.
func PasswordStrength(password string) Strength {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case !unicode.IsSpace(r) && !unicode.IsLetter(r):
			hasSymbol = true
		}
	}

	checks := []struct {
		ok   bool
		hint string
	}{
		{len(password) >= 8, "at least 8 characters"},
		{hasUpper, "uppercase letters"},
		{hasLower, "lowercase letters"},
		{hasDigit, "numbers"},
		{hasSymbol, "special characters"},
	}

	points := 0
	missing := make([]string, 0, len(checks))
	for _, c := range checks {
		if c.ok {
			points++
		} else {
			missing = append(missing, c.hint)
		}
	}
	if points > 4 {
		points = 4
	}

	return Strength{Score: points, Label: strengthLabels[points], Missing: missing}
}

// CheckPasswordPolicy is the server-side gate for new passwords.
func CheckPasswordPolicy(field, password string, minLength int) *internal.AppError {
	if len(password) < minLength {
		return internal.NewValidationFieldError(field,
			fmt.Sprintf("Password must be at least %d characters long", minLength), internal.ErrCodeWeakPassword)
	}
	s := PasswordStrength(password)
	if !s.Acceptable() {
		return internal.NewValidationFieldError(field,
			"Password is too weak. Please include "+strings.Join(s.Missing, ", "), internal.ErrCodeWeakPassword)
	}
	return nil
}
