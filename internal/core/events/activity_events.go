package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeActivityRecorded = "activity.recorded"
)

// ActivityRecordedEvent mirrors one persisted activity_logs row.
type ActivityRecordedEvent struct {
	BaseEvent
	LogID     int64  `json:"log_id"`
	UserID    *int64 `json:"user_id,omitempty"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

func NewActivityRecordedEvent(logID int64, userID *int64, action, details, ip, userAgent string) *ActivityRecordedEvent {
	data := map[string]interface{}{
		"log_id":     logID,
		"action":     action,
		"details":    details,
		"ip_address": ip,
		"user_agent": userAgent,
	}
	if userID != nil {
		data["user_id"] = *userID
	}

	return &ActivityRecordedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeActivityRecorded,
			Timestamp: time.Now().UTC(),
			Data:      data,
		},
		LogID:     logID,
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
	}
}
