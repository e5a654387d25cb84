package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/auth"
	userDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) activeUser(ctx context.Context, userID int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", userID, userDatamodel.StatusActive).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) FindCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND status = ?", email, userDatamodel.StatusActive).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &auth.Credentials{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		EmailVerified: u.EmailVerified,
		LastLogin:     u.LastLogin,
	}, nil
}

type roleRow struct {
	Name        string
	Permissions string
}

func (r *Repository) GetIdentity(ctx context.Context, userID int64) (*auth.Identity, error) {
	u, err := r.activeUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []roleRow
	err = r.db.WithContext(ctx).
		Table("roles").
		Select("roles.name, roles.permissions").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	identity := &auth.Identity{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		EmailVerified: u.EmailVerified,
		Status:        u.Status,
		LastLogin:     u.LastLogin,
		Roles:         make([]string, 0, len(rows)),
		Permissions:   []string{},
	}

	seen := make(map[string]struct{})
	for _, row := range rows {
		identity.Roles = append(identity.Roles, row.Name)

		var perms []string
		if row.Permissions == "" {
			continue
		}
		// malformed permission lists are ignored, role membership still counts
		if err := json.Unmarshal([]byte(row.Permissions), &perms); err != nil {
			continue
		}
		for _, p := range perms {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			identity.Permissions = append(identity.Permissions, p)
		}
	}

	return identity, nil
}

func (r *Repository) CreateSession(ctx context.Context, session *userDatamodel.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *Repository) DeleteSessions(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&userDatamodel.Session{}).Error
}

func (r *Repository) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login", at).Error
}

func (r *Repository) GetPasswordHash(ctx context.Context, userID int64) (string, error) {
	u, err := r.activeUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.PasswordHash, nil
}

func (r *Repository) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": hash,
			"updated_at":    time.Now(),
		}).Error
}
