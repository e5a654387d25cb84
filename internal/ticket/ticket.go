package ticket

import (
	"time"

	"github.com/frahmantamala/support-desk/internal"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	CategoryTechnical = "technical"
	CategoryBilling   = "billing"
	CategoryHosting   = "hosting"
	CategoryMarketing = "marketing"
	CategoryGeneral   = "general"
)

var (
	Statuses   = []string{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
	Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	Categories = []string{CategoryTechnical, CategoryBilling, CategoryHosting, CategoryMarketing, CategoryGeneral}
)

// PriorityRank orders urgent first. Unknown priorities sort last.
func PriorityRank(priority string) int {
	switch priority {
	case PriorityUrgent:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	default:
		return 5
	}
}

// IsResolved reports whether status counts as finished work.
func IsResolved(status string) bool {
	return status == StatusResolved || status == StatusClosed
}

// ResolvedAtFor keeps resolved_at non-null exactly while the ticket sits in
// resolved or closed. Moving between those two keeps the original stamp.
func ResolvedAtFor(current, next string, resolvedAt *time.Time, now time.Time) *time.Time {
	if !IsResolved(next) {
		return nil
	}
	if IsResolved(current) && resolvedAt != nil {
		return resolvedAt
	}
	return &now
}

// Row is a ticket joined with its owner and assignee names.
type Row struct {
	ID                int64
	UserID            int64
	Category          string
	Subject           string
	Description       string
	Priority          string
	Status            string
	AssignedTo        *int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ResolvedAt        *time.Time
	OwnerFirstName    string
	OwnerLastName     string
	OwnerEmail        string
	OwnerPhone        *string
	OwnerCompany      *string
	AssigneeFirstName *string
	AssigneeLastName  *string
}

// MessageRow is one thread entry. IsAdmin is computed from the author's roles
// when the row is read.
type MessageRow struct {
	ID              int64
	UserID          int64
	Message         string
	IsInternal      bool
	IsAdmin         bool
	CreatedAt       time.Time
	SenderFirstName string
	SenderLastName  string
}

type View struct {
	ID          int64   `json:"id"`
	Subject     string  `json:"subject"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	Category    string  `json:"category"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
	ResolvedAt  *string `json:"resolved_at"`
}

type AdminView struct {
	View
	AssignedTo        *int64  `json:"assigned_to"`
	AssignedAdminName *string `json:"assigned_admin_name"`
	UserName          string  `json:"user_name"`
	UserEmail         string  `json:"user_email"`
}

type MessageView struct {
	ID         int64  `json:"id"`
	Message    string `json:"message"`
	IsInternal bool   `json:"is_internal"`
	IsAdmin    bool   `json:"is_admin"`
	SenderName string `json:"sender_name"`
	CreatedAt  string `json:"created_at"`
}

type Details struct {
	AdminView
	UserPhone   *string       `json:"user_phone"`
	UserCompany *string       `json:"user_company"`
	Messages    []MessageView `json:"messages"`
}

type Created struct {
	TicketID  int64  `json:"ticket_id"`
	Subject   string `json:"subject"`
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func newView(r Row) View {
	return View{
		ID:          r.ID,
		Subject:     r.Subject,
		Description: r.Description,
		Priority:    r.Priority,
		Status:      r.Status,
		Category:    r.Category,
		CreatedAt:   internal.FormatTime(r.CreatedAt),
		UpdatedAt:   internal.FormatTime(r.UpdatedAt),
		ResolvedAt:  internal.FormatTimePtr(r.ResolvedAt),
	}
}

func NewAdminView(r Row) AdminView {
	v := AdminView{
		View:       newView(r),
		AssignedTo: r.AssignedTo,
		UserName:   r.OwnerFirstName + " " + r.OwnerLastName,
		UserEmail:  r.OwnerEmail,
	}
	if r.AssignedTo != nil && r.AssigneeFirstName != nil {
		name := *r.AssigneeFirstName
		if r.AssigneeLastName != nil {
			name += " " + *r.AssigneeLastName
		}
		v.AssignedAdminName = &name
	}
	return v
}

func NewDetails(r Row, messages []MessageRow) Details {
	d := Details{
		AdminView:   NewAdminView(r),
		UserPhone:   r.OwnerPhone,
		UserCompany: r.OwnerCompany,
		Messages:    make([]MessageView, 0, len(messages)),
	}
	for _, m := range messages {
		d.Messages = append(d.Messages, MessageView{
			ID:         m.ID,
			Message:    m.Message,
			IsInternal: m.IsInternal,
			IsAdmin:    m.IsAdmin,
			SenderName: m.SenderFirstName + " " + m.SenderLastName,
			CreatedAt:  internal.FormatTime(m.CreatedAt),
		})
	}
	return d
}

// Filter narrows an already ordered listing. Empty fields match everything.
type Filter struct {
	Status   string
	Priority string
}

func (f Filter) Match(v AdminView) bool {
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	if f.Priority != "" && v.Priority != f.Priority {
		return false
	}
	return true
}

// Apply returns the matching views in their original order. The input slice
// is not modified.
func (f Filter) Apply(views []AdminView) []AdminView {
	out := make([]AdminView, 0, len(views))
	for _, v := range views {
		if f.Match(v) {
			out = append(out, v)
		}
	}
	return out
}
