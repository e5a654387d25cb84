package postgres

import (
	"context"

	"github.com/frahmantamala/support-desk/internal/activity"
	activityDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/activity"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.Repository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, entry *activityDatamodel.Log) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
