package ticket

import "time"

type Ticket struct {
	ID          int64      `gorm:"primaryKey"`
	UserID      int64      `gorm:"column:user_id;not null;index"`
	Category    string     `gorm:"column:category;not null"`
	Subject     string     `gorm:"column:subject;not null"`
	Description string     `gorm:"column:description;not null"`
	Priority    string     `gorm:"column:priority;not null;default:medium"`
	Status      string     `gorm:"column:status;not null;default:open"`
	AssignedTo  *int64     `gorm:"column:assigned_to"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	ResolvedAt  *time.Time `gorm:"column:resolved_at"`
}

func (Ticket) TableName() string {
	return "support_tickets"
}

type Message struct {
	ID         int64     `gorm:"primaryKey"`
	TicketID   int64     `gorm:"column:ticket_id;not null;index"`
	UserID     int64     `gorm:"column:user_id;not null"`
	Message    string    `gorm:"column:message;not null"`
	IsInternal bool      `gorm:"column:is_internal;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Message) TableName() string {
	return "support_ticket_messages"
}
