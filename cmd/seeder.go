package cmd

import (
	"fmt"
	"log"

	"github.com/frahmantamala/support-desk/internal/auth"
	activityDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/activity"
	contactDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/contact"
	ticketDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/ticket"
	userDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/user"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with staff accounts",
	Long:  `Seed roles and one account per staff role for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, sqlDB, err := openDatabase(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		if clearData {
			if err := clearWorkData(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("cleared tickets, messages, inquiries and activity")
		}

		if err := ensureRoles(db); err != nil {
			log.Fatalf("failed to seed roles: %v", err)
		}

		for _, s := range staffSeeds {
			if err := seedStaff(db, s); err != nil {
				log.Fatalf("failed to seed %s: %v", s.email, err)
			}
		}

		fmt.Println("seed complete; staff password is", seedPassword)
	},
}

const seedPassword = "Password123!"

type roleSeed struct {
	name        string
	description string
	permissions string
}

var roleSeeds = []roleSeed{
	{auth.RoleAdmin, "Full system access", `["manage_users","manage_tickets","view_stats","manage_settings"]`},
	{auth.RoleManager, "Manages users and support staff", `["manage_users","manage_tickets","view_stats"]`},
	{auth.RoleSupport, "Works support tickets", `["manage_tickets","view_stats"]`},
	{auth.RoleCustomer, "Submits and follows own tickets", `["create_tickets","view_own_tickets"]`},
}

type staffSeed struct {
	first, last string
	email       string
	role        string
}

var staffSeeds = []staffSeed{
	{"Ada", "Admin", "admin@support.local", auth.RoleAdmin},
	{"Max", "Manager", "manager@support.local", auth.RoleManager},
	{"Sam", "Support", "support@support.local", auth.RoleSupport},
}

func ensureRoles(db *gorm.DB) error {
	for _, r := range roleSeeds {
		role := userDatamodel.Role{Name: r.name}
		if err := db.Where(userDatamodel.Role{Name: r.name}).
			Attrs(userDatamodel.Role{Description: r.description, Permissions: r.permissions}).
			FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("role %s: %w", r.name, err)
		}
	}
	return nil
}

func seedStaff(db *gorm.DB, s staffSeed) error {
	hash, err := auth.HashPassword(seedPassword)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var role userDatamodel.Role
		if err := tx.Where("name = ?", s.role).First(&role).Error; err != nil {
			return fmt.Errorf("lookup role: %w", err)
		}

		u := userDatamodel.User{Email: s.email}
		result := tx.Where(userDatamodel.User{Email: s.email}).
			Attrs(userDatamodel.User{
				FirstName:     s.first,
				LastName:      s.last,
				PasswordHash:  hash,
				EmailVerified: true,
				Status:        userDatamodel.StatusActive,
			}).
			FirstOrCreate(&u)
		if result.Error != nil {
			return fmt.Errorf("upsert user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			fmt.Println(s.email, "already exists; will ensure role")
		}

		link := userDatamodel.UserRole{UserID: u.ID, RoleID: role.ID}
		return tx.Where(link).FirstOrCreate(&link).Error
	})
}

// clearWorkData removes operational rows and keeps accounts and roles.
func clearWorkData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&ticketDatamodel.Message{},
			&ticketDatamodel.Ticket{},
			&contactDatamodel.Inquiry{},
			&activityDatamodel.Log{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
