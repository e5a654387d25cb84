package postgres

import (
	"context"
	"time"

	userDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/user"
	"github.com/frahmantamala/support-desk/internal/ratelimit"
	"gorm.io/gorm"
)

// AttemptRepository stores attempts in the login_attempts table.
type AttemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) ratelimit.Store {
	return &AttemptRepository{db: db}
}

// Purge drops every expired row, not only the ones for this key, so the
// table stays bounded without a separate cleanup job.
func (r *AttemptRepository) Purge(ctx context.Context, _, _ string, before time.Time) error {
	return r.db.WithContext(ctx).
		Where("attempted_at < ?", before).
		Delete(&userDatamodel.LoginAttempt{}).Error
}

func (r *AttemptRepository) Count(ctx context.Context, identifier, action string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userDatamodel.LoginAttempt{}).
		Where("identifier = ? AND action = ? AND attempted_at >= ?", identifier, action, since).
		Count(&count).Error
	return count, err
}

func (r *AttemptRepository) Add(ctx context.Context, identifier, action, ip string, at time.Time) error {
	return r.db.WithContext(ctx).Create(&userDatamodel.LoginAttempt{
		Identifier:  identifier,
		Action:      action,
		IPAddress:   ip,
		AttemptedAt: at,
	}).Error
}

func (r *AttemptRepository) Clear(ctx context.Context, identifier, action string) error {
	return r.db.WithContext(ctx).
		Where("identifier = ? AND action = ?", identifier, action).
		Delete(&userDatamodel.LoginAttempt{}).Error
}
