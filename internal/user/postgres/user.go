package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/support-desk/internal"
	ticketDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/ticket"
	userDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/user"
	"github.com/frahmantamala/support-desk/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements user.Repository using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where("email = ?", email)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) AssignRole(ctx context.Context, userID int64, role string) error {
	var found userDatamodel.Role
	if err := r.db.WithContext(ctx).Where("name = ?", role).First(&found).Error; err != nil {
		return fmt.Errorf("role %q: %w", role, err)
	}
	return r.db.WithContext(ctx).Create(&userDatamodel.UserRole{UserID: userID, RoleID: found.ID}).Error
}

func (r *UserRepository) find(ctx context.Context, query string, args ...interface{}) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	return r.find(ctx, "id = ?", id)
}

func (r *UserRepository) FindActiveByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	return r.find(ctx, "id = ? AND status = ?", id, userDatamodel.StatusActive)
}

func (r *UserRepository) Roles(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("roles").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.id").
		Pluck("roles.name", &names).Error
	return names, err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, f user.ProfileFields, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"first_name": f.FirstName,
			"last_name":  f.LastName,
			"email":      f.Email,
			"phone":      f.Phone,
			"company":    f.Company,
			"job_title":  f.JobTitle,
			"bio":        f.Bio,
			"updated_at": at,
		}).Error
}

func (r *UserRepository) SetStatus(ctx context.Context, id int64, status string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&userDatamodel.User{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"status":     status,
			"updated_at": at,
		}).Error
}

func (r *UserRepository) TicketStats(ctx context.Context, userID int64) (user.TicketStats, error) {
	var stats user.TicketStats
	err := r.db.WithContext(ctx).
		Model(&ticketDatamodel.Ticket{}).
		Select(`COUNT(*) AS total_tickets,
			COALESCE(SUM(CASE WHEN status IN ('open', 'in_progress') THEN 1 ELSE 0 END), 0) AS active_tickets,
			COALESCE(SUM(CASE WHEN status IN ('resolved', 'closed') THEN 1 ELSE 0 END), 0) AS resolved_tickets`).
		Where("user_id = ?", userID).
		Scan(&stats).Error
	return stats, err
}

type roleMembership struct {
	UserID int64
	Name   string
}

type ticketCount struct {
	UserID int64
	Total  int64
}

// List assembles roles and ticket counts in Go so the query stays portable
// across drivers that disagree on string aggregation.
func (r *UserRepository) List(ctx context.Context) ([]user.ListRow, error) {
	var users []userDatamodel.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, err
	}

	var memberships []roleMembership
	err := r.db.WithContext(ctx).
		Table("user_roles").
		Select("user_roles.user_id, roles.name").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Order("roles.id").
		Scan(&memberships).Error
	if err != nil {
		return nil, err
	}

	var counts []ticketCount
	err = r.db.WithContext(ctx).
		Model(&ticketDatamodel.Ticket{}).
		Select("user_id, COUNT(*) AS total").
		Group("user_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	rolesByUser := make(map[int64][]string)
	for _, m := range memberships {
		rolesByUser[m.UserID] = append(rolesByUser[m.UserID], m.Name)
	}
	countByUser := make(map[int64]int64, len(counts))
	for _, c := range counts {
		countByUser[c.UserID] = c.Total
	}

	rows := make([]user.ListRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, user.ListRow{
			User:        u,
			Roles:       rolesByUser[u.ID],
			TicketCount: countByUser[u.ID],
		})
	}
	return rows, nil
}

func (r *UserRepository) WithTx(ctx context.Context, fn func(tx user.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UserRepository{db: tx})
	})
}
