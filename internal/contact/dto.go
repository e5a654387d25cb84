package contact

import (
	"strings"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/core/common/validation"
	contactDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/contact"
)

type InquiryDTO struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	ServiceType string `json:"service_type"`
}

func (d *InquiryDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Subject = strings.TrimSpace(d.Subject)
	d.Message = strings.TrimSpace(d.Message)
	d.ServiceType = NormalizeServiceType(strings.TrimSpace(d.ServiceType))
}

func (d InquiryDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("subject", d.Subject).Required().MaxLength(255)
	v.Field("message", d.Message).Required()
	return v.Validate()
}

func (d InquiryDTO) ToDataModel() *contactDatamodel.Inquiry {
	return &contactDatamodel.Inquiry{
		Name:        d.Name,
		Email:       d.Email,
		Subject:     d.Subject,
		Message:     d.Message,
		ServiceType: d.ServiceType,
		Status:      StatusNew,
	}
}
