package user

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type User struct {
	ID                     int64      `gorm:"primaryKey"`
	FirstName              string     `gorm:"column:first_name;not null"`
	LastName               string     `gorm:"column:last_name;not null"`
	Email                  string     `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash           string     `gorm:"column:password_hash;not null"`
	Phone                  string     `gorm:"column:phone"`
	Company                string     `gorm:"column:company"`
	JobTitle               string     `gorm:"column:job_title"`
	Bio                    string     `gorm:"column:bio"`
	ProfileImage           string     `gorm:"column:profile_image"`
	EmailVerified          bool       `gorm:"column:email_verified;default:false"`
	EmailVerificationToken *string    `gorm:"column:email_verification_token"`
	Status                 string     `gorm:"column:status;default:active"`
	LastLogin              *time.Time `gorm:"column:last_login"`
	CreatedAt              time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Role.Permissions is a JSON array stored as text.
type Role struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"column:name;uniqueIndex;not null"`
	Description string `gorm:"column:description"`
	Permissions string `gorm:"column:permissions;default:'[]'"`
}

func (Role) TableName() string {
	return "roles"
}

type UserRole struct {
	ID     int64 `gorm:"primaryKey"`
	UserID int64 `gorm:"column:user_id;not null;uniqueIndex:idx_user_role"`
	RoleID int64 `gorm:"column:role_id;not null;uniqueIndex:idx_user_role"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

type Session struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;index"`
	SessionToken string    `gorm:"column:session_token;uniqueIndex;not null"`
	ExpiresAt    time.Time `gorm:"column:expires_at;not null"`
	IPAddress    string    `gorm:"column:ip_address"`
	UserAgent    string    `gorm:"column:user_agent"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Session) TableName() string {
	return "user_sessions"
}

type LoginAttempt struct {
	ID          int64     `gorm:"primaryKey"`
	Identifier  string    `gorm:"column:identifier;not null;index:idx_attempt_key"`
	Action      string    `gorm:"column:action;not null;index:idx_attempt_key"`
	IPAddress   string    `gorm:"column:ip_address"`
	AttemptedAt time.Time `gorm:"column:attempted_at;not null"`
}

func (LoginAttempt) TableName() string {
	return "login_attempts"
}
