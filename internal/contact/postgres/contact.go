package postgres

import (
	"context"

	"github.com/frahmantamala/support-desk/internal/contact"
	contactDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/contact"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) contact.Repository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, inq *contactDatamodel.Inquiry) error {
	return r.db.WithContext(ctx).Create(inq).Error
}
