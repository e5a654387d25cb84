package contact

import (
	contactDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/contact"
)

const (
	ServiceSponsoring = "sponsoring"
	ServiceHosting    = "hosting"
	ServiceGeneral    = "general"

	StatusNew = "new"

	ExpectedResponseTime = "24 hours"
)

var ServiceTypes = []string{ServiceSponsoring, ServiceHosting, ServiceGeneral}

// NormalizeServiceType maps anything outside the known set to general.
func NormalizeServiceType(s string) string {
	for _, t := range ServiceTypes {
		if s == t {
			return s
		}
	}
	return ServiceGeneral
}

type Submitted struct {
	InquiryID            int64  `json:"inquiry_id"`
	Message              string `json:"message"`
	ExpectedResponseTime string `json:"expected_response_time"`
}

func newSubmitted(inq *contactDatamodel.Inquiry) Submitted {
	return Submitted{
		InquiryID:            inq.ID,
		Message:              "Thank you for contacting us! We will get back to you within " + ExpectedResponseTime + ".",
		ExpectedResponseTime: ExpectedResponseTime,
	}
}
