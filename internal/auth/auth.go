package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

// Identity is the authenticated subject of a request. Roles and permissions
// are resolved from storage on every request.
type Identity struct {
	ID            int64      `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	EmailVerified bool       `json:"email_verified"`
	Status        string     `json:"status"`
	LastLogin     *time.Time `json:"last_login"`
	Roles         []string   `json:"roles"`
	Permissions   []string   `json:"permissions"`
}

func (i *Identity) Name() string {
	return i.FirstName + " " + i.LastName
}

func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (i *Identity) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if i.HasRole(r) {
			return true
		}
	}
	return false
}

// Credentials is what login needs from the user row.
type Credentials struct {
	ID            int64
	FirstName     string
	LastName      string
	Email         string
	PasswordHash  string
	EmailVerified bool
	LastLogin     *time.Time
}

// Claims carried inside the signed token.
type Claims struct {
	UserID int64    `json:"user_id"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, identity)
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(ContextIdentityKey).(*Identity)
	return identity, ok && identity != nil
}
