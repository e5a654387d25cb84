package ticket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/activity"
	ticketDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/ticket"
)

type Repository interface {
	Create(ctx context.Context, t *ticketDatamodel.Ticket) error
	// FindByID returns internal.ErrTicketNotFound when the id is unknown.
	FindByID(ctx context.Context, id int64) (*Row, error)
	// List returns every ticket ordered by priority rank, then newest first.
	List(ctx context.Context) ([]Row, error)
	ListByUser(ctx context.Context, userID int64) ([]Row, error)
	Messages(ctx context.Context, ticketID int64, staffRoles []string) ([]MessageRow, error)
	UpdateStatus(ctx context.Context, id int64, status string, resolvedAt *time.Time, at time.Time) error
	// ClaimAssignment sets assigned_to only while it is still empty.
	ClaimAssignment(ctx context.Context, id, staffID int64) (bool, error)
	AddMessage(ctx context.Context, m *ticketDatamodel.Message) error
	// WithTx runs fn against a repository bound to one transaction. Any error
	// rolls the whole unit back.
	WithTx(ctx context.Context, fn func(tx Repository) error) error
}

type ActivityRecorder interface {
	Record(ctx context.Context, userID *int64, action, details string)
}

type Service struct {
	repo       Repository
	activity   ActivityRecorder
	staffRoles []string
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires the workflow. staffRoles decides which message authors are
// shown as staff in a thread.
func NewService(repo Repository, recorder ActivityRecorder, staffRoles []string, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		activity:   recorder,
		staffRoles: staffRoles,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

func (s *Service) Create(ctx context.Context, userID int64, dto CreateTicketDTO) (*Created, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	t := &ticketDatamodel.Ticket{
		UserID:      userID,
		Category:    dto.Category,
		Subject:     dto.Title,
		Description: dto.Message,
		Priority:    dto.Priority,
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, internal.NewInternalError("An error occurred while creating the ticket", err)
	}

	s.activity.Record(ctx, activity.UserID(userID), activity.ActionTicketCreated,
		fmt.Sprintf("Support ticket #%d created", t.ID))
	s.logger.Info("ticket created", "ticket_id", t.ID, "user_id", userID, "priority", t.Priority)

	return &Created{
		TicketID:  t.ID,
		Subject:   t.Subject,
		Category:  t.Category,
		Priority:  t.Priority,
		Status:    t.Status,
		CreatedAt: internal.FormatTime(t.CreatedAt),
	}, nil
}

// Reply posts a staff message and moves the ticket in one transaction. The
// first replier on an unassigned ticket claims it.
func (s *Service) Reply(ctx context.Context, staffID int64, dto ReplyDTO) error {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return err
	}

	now := s.now()
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		current, err := tx.FindByID(ctx, dto.TicketID)
		if err != nil {
			return err
		}

		resolvedAt := ResolvedAtFor(current.Status, dto.Status, current.ResolvedAt, now)
		if err := tx.UpdateStatus(ctx, dto.TicketID, dto.Status, resolvedAt, now); err != nil {
			return fmt.Errorf("update ticket: %w", err)
		}

		if _, err := tx.ClaimAssignment(ctx, dto.TicketID, staffID); err != nil {
			return fmt.Errorf("claim ticket: %w", err)
		}

		if err := tx.AddMessage(ctx, &ticketDatamodel.Message{
			TicketID:   dto.TicketID,
			UserID:     staffID,
			Message:    dto.Message,
			IsInternal: false,
			CreatedAt:  now,
		}); err != nil {
			return fmt.Errorf("append message: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, internal.ErrTicketNotFound) {
			return internal.ErrTicketNotFound
		}
		return internal.NewInternalError("An error occurred while sending reply", err)
	}

	s.activity.Record(ctx, activity.UserID(staffID), activity.ActionTicketReplied,
		fmt.Sprintf("Replied to ticket #%d and updated status to %s", dto.TicketID, dto.Status))
	s.logger.Info("ticket replied", "ticket_id", dto.TicketID, "staff_id", staffID, "status", dto.Status)
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, staffID int64, dto StatusDTO) (*AdminView, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	var updated *Row
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		current, err := tx.FindByID(ctx, dto.TicketID)
		if err != nil {
			return err
		}

		resolvedAt := ResolvedAtFor(current.Status, dto.Status, current.ResolvedAt, now)
		if err := tx.UpdateStatus(ctx, dto.TicketID, dto.Status, resolvedAt, now); err != nil {
			return fmt.Errorf("update ticket: %w", err)
		}

		updated, err = tx.FindByID(ctx, dto.TicketID)
		return err
	})
	if err != nil {
		if errors.Is(err, internal.ErrTicketNotFound) {
			return nil, internal.ErrTicketNotFound
		}
		return nil, internal.NewInternalError("An error occurred while updating ticket status", err)
	}

	s.activity.Record(ctx, activity.UserID(staffID), activity.ActionTicketStatusUpdated,
		fmt.Sprintf("Updated ticket #%d status to %s", dto.TicketID, dto.Status))

	view := NewAdminView(*updated)
	return &view, nil
}

// List returns the staff queue. The filter only narrows the ordered result.
func (s *Service) List(ctx context.Context, filter Filter) ([]AdminView, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred while retrieving tickets", err)
	}

	views := make([]AdminView, 0, len(rows))
	for _, r := range rows {
		views = append(views, NewAdminView(r))
	}
	return filter.Apply(views), nil
}

func (s *Service) Details(ctx context.Context, id int64) (*Details, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrTicketNotFound) {
			return nil, internal.ErrTicketNotFound
		}
		return nil, internal.NewInternalError("An error occurred while retrieving ticket details", err)
	}

	messages, err := s.repo.Messages(ctx, id, s.staffRoles)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred while retrieving ticket details", err)
	}

	d := NewDetails(*row, messages)
	return &d, nil
}

func (s *Service) MyTickets(ctx context.Context, userID int64) ([]View, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("An error occurred while retrieving tickets", err)
	}

	views := make([]View, 0, len(rows))
	for _, r := range rows {
		views = append(views, newView(r))
	}
	return views, nil
}
