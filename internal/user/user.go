package user

import (
	"time"

	"github.com/frahmantamala/support-desk/internal"
	userDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/user"
)

// DefaultRole is granted to every self-registered account.
const DefaultRole = "customer"

type TicketStats struct {
	TotalTickets    int64 `json:"total_tickets"`
	ActiveTickets   int64 `json:"active_tickets"`
	ResolvedTickets int64 `json:"resolved_tickets"`
}

type Profile struct {
	ID            int64       `json:"id"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Company       string      `json:"company"`
	JobTitle      string      `json:"job_title"`
	Bio           string      `json:"bio"`
	ProfileImage  string      `json:"profile_image"`
	EmailVerified bool        `json:"email_verified"`
	Status        string      `json:"status"`
	LastLogin     *string     `json:"last_login"`
	CreatedAt     string      `json:"created_at"`
	Stats         TicketStats `json:"stats"`
}

type Registered struct {
	UserID                int64  `json:"user_id"`
	Email                 string `json:"email"`
	Name                  string `json:"name"`
	EmailVerified         bool   `json:"email_verified"`
	VerificationEmailSent bool   `json:"verification_email_sent"`
}

type UpdatedProfile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company"`
	JobTitle  string `json:"job_title"`
	Bio       string `json:"bio"`
	UpdatedAt string `json:"updated_at"`
}

type StatusChange struct {
	UserID    int64  `json:"user_id"`
	NewStatus string `json:"new_status"`
	UserName  string `json:"user_name"`
}

// Listed is one row of the staff user directory.
type Listed struct {
	ID            int64    `json:"id"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Company       string   `json:"company"`
	Status        string   `json:"status"`
	EmailVerified bool     `json:"email_verified"`
	LastLogin     *string  `json:"last_login"`
	CreatedAt     string   `json:"created_at"`
	Roles         []string `json:"roles"`
	TicketCount   int64    `json:"ticket_count"`
}

// ListRow is what storage returns for the directory before formatting.
type ListRow struct {
	userDatamodel.User
	Roles       []string
	TicketCount int64
}

// ProfileFields are the columns a user may edit on their own account.
type ProfileFields struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	JobTitle  string
	Bio       string
}

func NewProfile(u *userDatamodel.User, stats TicketStats) Profile {
	return Profile{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Name:          u.FullName(),
		Email:         u.Email,
		Phone:         u.Phone,
		Company:       u.Company,
		JobTitle:      u.JobTitle,
		Bio:           u.Bio,
		ProfileImage:  u.ProfileImage,
		EmailVerified: u.EmailVerified,
		Status:        u.Status,
		LastLogin:     internal.FormatTimePtr(u.LastLogin),
		CreatedAt:     internal.FormatTime(u.CreatedAt),
		Stats:         stats,
	}
}

func NewListed(r ListRow) Listed {
	roles := r.Roles
	if roles == nil {
		roles = []string{}
	}
	return Listed{
		ID:            r.ID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Name:          r.FullName(),
		Email:         r.Email,
		Phone:         r.Phone,
		Company:       r.Company,
		Status:        r.Status,
		EmailVerified: r.EmailVerified,
		LastLogin:     internal.FormatTimePtr(r.LastLogin),
		CreatedAt:     internal.FormatTime(r.CreatedAt),
		Roles:         roles,
		TicketCount:   r.TicketCount,
	}
}

func newUpdatedProfile(f ProfileFields, at time.Time) UpdatedProfile {
	return UpdatedProfile{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Name:      f.FirstName + " " + f.LastName,
		Email:     f.Email,
		Phone:     f.Phone,
		Company:   f.Company,
		JobTitle:  f.JobTitle,
		Bio:       f.Bio,
		UpdatedAt: internal.FormatTime(at),
	}
}

// NextStatus flips an account between active and inactive.
func NextStatus(current string) string {
	if current == userDatamodel.StatusActive {
		return userDatamodel.StatusInactive
	}
	return userDatamodel.StatusActive
}
