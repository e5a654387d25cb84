package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/support-desk/internal"
	ticketDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/ticket"
	"github.com/frahmantamala/support-desk/internal/ticket"
	"gorm.io/gorm"
)

const rowColumns = `support_tickets.id, support_tickets.user_id, support_tickets.category,
	support_tickets.subject, support_tickets.description, support_tickets.priority,
	support_tickets.status, support_tickets.assigned_to, support_tickets.created_at,
	support_tickets.updated_at, support_tickets.resolved_at,
	owner.first_name AS owner_first_name, owner.last_name AS owner_last_name,
	owner.email AS owner_email, owner.phone AS owner_phone, owner.company AS owner_company,
	assignee.first_name AS assignee_first_name, assignee.last_name AS assignee_last_name`

// priorityOrder is portable across postgres, mysql and sqlite.
const priorityOrder = `CASE support_tickets.priority
	WHEN 'urgent' THEN 1
	WHEN 'high' THEN 2
	WHEN 'medium' THEN 3
	WHEN 'low' THEN 4
	ELSE 5 END`

// TicketRepository implements ticket.Repository using GORM
type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) ticket.Repository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("support_tickets").
		Select(rowColumns).
		Joins("JOIN users owner ON owner.id = support_tickets.user_id").
		Joins("LEFT JOIN users assignee ON assignee.id = support_tickets.assigned_to")
}

func (r *TicketRepository) Create(ctx context.Context, t *ticketDatamodel.Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TicketRepository) FindByID(ctx context.Context, id int64) (*ticket.Row, error) {
	var rows []ticket.Row
	err := r.joined(ctx).
		Where("support_tickets.id = ?", id).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, internal.ErrTicketNotFound
	}
	return &rows[0], nil
}

func (r *TicketRepository) List(ctx context.Context) ([]ticket.Row, error) {
	var rows []ticket.Row
	err := r.joined(ctx).
		Order(priorityOrder).
		Order("support_tickets.created_at DESC").
		Order("support_tickets.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *TicketRepository) ListByUser(ctx context.Context, userID int64) ([]ticket.Row, error) {
	var rows []ticket.Row
	err := r.joined(ctx).
		Where("support_tickets.user_id = ?", userID).
		Order("support_tickets.created_at DESC").
		Order("support_tickets.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *TicketRepository) Messages(ctx context.Context, ticketID int64, staffRoles []string) ([]ticket.MessageRow, error) {
	var rows []ticket.MessageRow
	err := r.db.WithContext(ctx).
		Table("support_ticket_messages AS m").
		Select(`m.id, m.user_id, m.message, m.is_internal, m.created_at,
			u.first_name AS sender_first_name, u.last_name AS sender_last_name,
			EXISTS (
				SELECT 1 FROM user_roles ur
				JOIN roles ro ON ro.id = ur.role_id
				WHERE ur.user_id = m.user_id AND ro.name IN ?
			) AS is_admin`, staffRoles).
		Joins("JOIN users u ON u.id = m.user_id").
		Where("m.ticket_id = ?", ticketID).
		Order("m.created_at ASC").
		Order("m.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, id int64, status string, resolvedAt *time.Time, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&ticketDatamodel.Ticket{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"status":      status,
			"resolved_at": resolvedAt,
			"updated_at":  at,
		}).Error
}

func (r *TicketRepository) ClaimAssignment(ctx context.Context, id, staffID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&ticketDatamodel.Ticket{}).
		Where("id = ? AND assigned_to IS NULL", id).
		UpdateColumn("assigned_to", staffID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *TicketRepository) AddMessage(ctx context.Context, m *ticketDatamodel.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *TicketRepository) WithTx(ctx context.Context, fn func(tx ticket.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&TicketRepository{db: tx})
	})
}

