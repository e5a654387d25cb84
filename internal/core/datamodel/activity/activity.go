package activity

import "time"

type Log struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    *int64    `gorm:"column:user_id;index"`
	Action    string    `gorm:"column:action;not null"`
	Details   string    `gorm:"column:details"`
	IPAddress string    `gorm:"column:ip_address"`
	UserAgent string    `gorm:"column:user_agent"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Log) TableName() string {
	return "activity_logs"
}
