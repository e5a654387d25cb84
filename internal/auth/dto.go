package auth

import (
	"strings"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/core/common/validation"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Normalize() {
	d.Email = strings.TrimSpace(d.Email)
}

func (d LoginDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", d.Email).Required().Email()
	v.Field("password", d.Password).Required()
	return v.Validate()
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (d ChangePasswordDTO) Validate(minLength int) *internal.AppError {
	v := validation.NewValidator()
	v.Field("currentPassword", d.CurrentPassword).Required()
	v.Field("newPassword", d.NewPassword).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return CheckPasswordPolicy("newPassword", d.NewPassword, minLength)
}

type PasswordStrengthDTO struct {
	Password string `json:"password"`
}

type LoginUser struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	EmailVerified bool    `json:"email_verified"`
	LastLogin     *string `json:"last_login"`
}

type LoginResult struct {
	Token        string    `json:"token"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    string    `json:"expires_at"`
	User         LoginUser `json:"user"`
	Redirect     string    `json:"redirect"`
}

type IdentityView struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Email         string   `json:"email"`
	EmailVerified bool     `json:"email_verified"`
	Status        string   `json:"status"`
	LastLogin     *string  `json:"last_login"`
	Roles         []string `json:"roles"`
	Permissions   []string `json:"permissions"`
	IsAdmin       *bool    `json:"is_admin,omitempty"`
	IsManager     *bool    `json:"is_manager,omitempty"`
	IsSupport     *bool    `json:"is_support,omitempty"`
}

type ValidationResult struct {
	User           IdentityView `json:"user"`
	TokenExpiresAt string       `json:"token_expires_at"`
}

func NewIdentityView(i *Identity) IdentityView {
	roles := i.Roles
	if roles == nil {
		roles = []string{}
	}
	perms := i.Permissions
	if perms == nil {
		perms = []string{}
	}
	return IdentityView{
		ID:            i.ID,
		Name:          i.Name(),
		FirstName:     i.FirstName,
		LastName:      i.LastName,
		Email:         i.Email,
		EmailVerified: i.EmailVerified,
		Status:        i.Status,
		LastLogin:     internal.FormatTimePtr(i.LastLogin),
		Roles:         roles,
		Permissions:   perms,
	}
}

func (v IdentityView) WithRoleFlags() IdentityView {
	has := func(role string) *bool {
		for _, r := range v.Roles {
			if r == role {
				b := true
				return &b
			}
		}
		b := false
		return &b
	}
	v.IsAdmin = has(RoleAdmin)
	v.IsManager = has(RoleManager)
	v.IsSupport = has(RoleSupport)
	return v
}
