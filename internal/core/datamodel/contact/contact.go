package contact

import "time"

type Inquiry struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Email       string    `gorm:"column:email;not null"`
	Subject     string    `gorm:"column:subject;not null"`
	Message     string    `gorm:"column:message;not null"`
	ServiceType string    `gorm:"column:service_type;default:general"`
	Status      string    `gorm:"column:status;default:new"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Inquiry) TableName() string {
	return "contact_inquiries"
}
