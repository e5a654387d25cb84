package ticket

import (
	"strings"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/core/common/validation"
)

// CreateTicketDTO keeps the public field names: "subject" carries the
// category and "title" the ticket subject line. "category" is accepted too.
type CreateTicketDTO struct {
	Subject  string `json:"subject"`
	Category string `json:"category"`
	Priority string `json:"priority"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}

func (d *CreateTicketDTO) Normalize() {
	if strings.TrimSpace(d.Category) == "" {
		d.Category = d.Subject
	}
	d.Category = strings.TrimSpace(d.Category)
	d.Priority = strings.TrimSpace(d.Priority)
	d.Title = strings.TrimSpace(d.Title)
	d.Message = strings.TrimSpace(d.Message)
}

func (d CreateTicketDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("subject", d.Category).Required().
		OneOf(Categories, "Invalid subject category", internal.ErrCodeInvalidCategory)
	v.Field("priority", d.Priority).Required().
		OneOf(Priorities, "Invalid priority level", internal.ErrCodeInvalidPriority)
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("message", d.Message).Required()
	return v.Validate()
}

type ReplyDTO struct {
	TicketID int64  `json:"ticketId"`
	Message  string `json:"message"`
	Status   string `json:"status"`
}

func (d *ReplyDTO) Normalize() {
	d.Message = strings.TrimSpace(d.Message)
	d.Status = strings.TrimSpace(d.Status)
	if d.Status == "" {
		d.Status = StatusInProgress
	}
}

func (d ReplyDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("ticketId", d.TicketID).Required()
	v.Field("message", d.Message).Required()
	v.Field("status", d.Status).OneOf(Statuses, "Invalid status", internal.ErrCodeInvalidStatus)
	return v.Validate()
}

type StatusDTO struct {
	TicketID int64  `json:"ticketId"`
	Status   string `json:"status"`
}

func (d *StatusDTO) Normalize() {
	d.Status = strings.TrimSpace(d.Status)
}

func (d StatusDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("ticketId", d.TicketID).Required()
	v.Field("status", d.Status).Required().
		OneOf(Statuses, "Invalid status", internal.ErrCodeInvalidStatus)
	return v.Validate()
}

func (f Filter) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("status", f.Status).OneOf(Statuses, "Invalid status filter", internal.ErrCodeInvalidStatus)
	v.Field("priority", f.Priority).OneOf(Priorities, "Invalid priority filter", internal.ErrCodeInvalidPriority)
	return v.Validate()
}
