package cmd

import (
	"fmt"

	"github.com/frahmantamala/support-desk/internal"
	activityDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/activity"
	contactDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/contact"
	ticketDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/ticket"
	userDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/user"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// models lists every table the service owns, in dependency order.
var models = []interface{}{
	&userDatamodel.User{},
	&userDatamodel.Role{},
	&userDatamodel.UserRole{},
	&userDatamodel.Session{},
	&userDatamodel.LoginAttempt{},
	&ticketDatamodel.Ticket{},
	&ticketDatamodel.Message{},
	&activityDatamodel.Log{},
	&contactDatamodel.Inquiry{},
}

// sqlxDriverName maps the configured driver to the name sqlx uses to pick
// its bindvar style.
func sqlxDriverName(driver string) string {
	switch driver {
	case "mysql":
		return "mysql"
	case "sqlite":
		return "sqlite3"
	default:
		return "pgx"
	}
}

func dialector(cfg internal.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "postgres":
		return postgres.Open(cfg.Source), nil
	case "mysql":
		return mysql.Open(cfg.Source), nil
	case "sqlite":
		return sqlite.Open(cfg.Source), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// openDatabase opens the gorm connection and an sqlx handle sharing its pool.
func openDatabase(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, sqlx.NewDb(sqlDB, sqlxDriverName(cfg.Driver)), nil
}
