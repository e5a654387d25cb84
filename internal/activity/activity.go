package activity

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/support-desk/internal"
	activityDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/activity"
	"github.com/frahmantamala/support-desk/internal/core/events"
)

const (
	ActionLogin               = "login"
	ActionLogout              = "logout"
	ActionRegister            = "register"
	ActionTokenValidation     = "token_validation"
	ActionAdminAccess         = "admin_access"
	ActionPasswordChanged     = "password_changed"
	ActionProfileUpdated      = "profile_updated"
	ActionTicketCreated       = "ticket_created"
	ActionTicketReplied       = "ticket_replied"
	ActionTicketStatusUpdated = "ticket_status_updated"
	ActionUserStatusChanged   = "user_status_changed"
	ActionContactSubmitted    = "contact_submitted"
)

type Repository interface {
	Create(ctx context.Context, entry *activityDatamodel.Log) error
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Recorder appends audit entries. Failures are logged and never returned:
// a missing audit row must not fail the operation that produced it.
type Recorder struct {
	repo   Repository
	bus    Publisher
	logger *slog.Logger
}

func NewRecorder(repo Repository, bus Publisher, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, bus: bus, logger: logger}
}

func (r *Recorder) Record(ctx context.Context, userID *int64, action, details string) {
	meta := internal.RequestMetaFromContext(ctx)
	entry := &activityDatamodel.Log{
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	}

	if err := r.repo.Create(ctx, entry); err != nil {
		r.logger.Error("failed to write activity log", "action", action, "error", err)
		return
	}

	if r.bus == nil {
		return
	}
	ev := events.NewActivityRecordedEvent(entry.ID, userID, action, details, meta.IP, meta.UserAgent)
	if err := r.bus.Publish(ctx, ev); err != nil {
		r.logger.Warn("failed to publish activity event", "action", action, "error", err)
	}
}

// UserID is a helper for call sites holding a plain id.
func UserID(id int64) *int64 {
	return &id
}
