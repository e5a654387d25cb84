package user

import (
	"strings"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/auth"
	"github.com/frahmantamala/support-desk/internal/core/common/validation"
)

type RegisterDTO struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (d *RegisterDTO) Normalize() {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
}

func (d RegisterDTO) Validate(minPasswordLength int) *internal.AppError {
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).Required().MaxLength(100)
	v.Field("lastName", d.LastName).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("password", d.Password).Required()
	v.Field("confirmPassword", d.ConfirmPassword).Required()
	if err := v.Validate(); err != nil {
		return err
	}

	if d.Password != d.ConfirmPassword {
		return internal.NewValidationFieldError("confirmPassword", "Passwords do not match", internal.ErrCodePasswordMismatch)
	}
	return auth.CheckPasswordPolicy("password", d.Password, minPasswordLength)
}

type UpdateProfileDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	JobTitle  string `json:"jobTitle"`
	Bio       string `json:"bio"`
}

func (d *UpdateProfileDTO) Normalize() {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Company = strings.TrimSpace(d.Company)
	d.JobTitle = strings.TrimSpace(d.JobTitle)
	d.Bio = strings.TrimSpace(d.Bio)
}

func (d UpdateProfileDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("firstName", d.FirstName).Required().MaxLength(100)
	v.Field("lastName", d.LastName).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("phone", d.Phone).MaxLength(50)
	v.Field("company", d.Company).MaxLength(255)
	v.Field("jobTitle", d.JobTitle).MaxLength(255)
	return v.Validate()
}

func (d UpdateProfileDTO) Fields() ProfileFields {
	return ProfileFields{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Phone:     d.Phone,
		Company:   d.Company,
		JobTitle:  d.JobTitle,
		Bio:       d.Bio,
	}
}

type ToggleStatusDTO struct {
	UserID int64 `json:"userId"`
}

func (d ToggleStatusDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("userId", d.UserID).Required()
	return v.Validate()
}
