package cmd

import (
	"time"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/internal/auth"
	ticketDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/ticket"
	userDatamodel "github.com/frahmantamala/support-desk/internal/core/datamodel/user"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("database bootstrap", func() {
	It("maps drivers to sqlx bindvar names", func() {
		Expect(sqlxDriverName("postgres")).To(Equal("pgx"))
		Expect(sqlxDriverName("")).To(Equal("pgx"))
		Expect(sqlxDriverName("mysql")).To(Equal("mysql"))
		Expect(sqlxDriverName("sqlite")).To(Equal("sqlite3"))
	})

	It("rejects unknown drivers", func() {
		_, err := dialector(internal.DatabaseConfig{Driver: "oracle"})
		Expect(err).To(MatchError(ContainSubstring("unsupported database driver")))
	})

	Context("with sqlite", func() {
		var (
			db    *gorm.DB
			sqlDB *sqlx.DB
		)

		BeforeEach(func() {
			var err error
			db, sqlDB, err = openDatabase(internal.DatabaseConfig{
				Driver:          "sqlite",
				Source:          ":memory:",
				MaxOpenConns:    1,
				MaxIdleConns:    1,
				ConnMaxLifetime: time.Hour,
				ConnMaxIdleTime: time.Hour,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(db.AutoMigrate(models...)).To(Succeed())
		})

		AfterEach(func() {
			Expect(sqlDB.Close()).To(Succeed())
		})

		It("shares one pool between gorm and sqlx", func() {
			Expect(sqlDB.DriverName()).To(Equal("sqlite3"))
			Expect(ensureRoles(db)).To(Succeed())

			var n int
			Expect(sqlDB.Get(&n, sqlDB.Rebind("SELECT COUNT(*) FROM roles WHERE name = ?"), auth.RoleCustomer)).To(Succeed())
			Expect(n).To(Equal(1))
		})

		It("seeds roles and staff idempotently", func() {
			for i := 0; i < 2; i++ {
				Expect(ensureRoles(db)).To(Succeed())
				for _, s := range staffSeeds {
					Expect(seedStaff(db, s)).To(Succeed())
				}
			}

			var roles, users, links int64
			Expect(db.Model(&userDatamodel.Role{}).Count(&roles).Error).NotTo(HaveOccurred())
			Expect(db.Model(&userDatamodel.User{}).Count(&users).Error).NotTo(HaveOccurred())
			Expect(db.Model(&userDatamodel.UserRole{}).Count(&links).Error).NotTo(HaveOccurred())
			Expect(roles).To(Equal(int64(4)))
			Expect(users).To(Equal(int64(len(staffSeeds))))
			Expect(links).To(Equal(int64(len(staffSeeds))))

			var admin userDatamodel.User
			Expect(db.Where("email = ?", "admin@support.local").First(&admin).Error).NotTo(HaveOccurred())
			Expect(admin.EmailVerified).To(BeTrue())
			Expect(admin.Status).To(Equal(userDatamodel.StatusActive))
			Expect(auth.VerifyPassword(admin.PasswordHash, seedPassword)).To(BeTrue())
		})

		It("clears work data and keeps accounts", func() {
			Expect(ensureRoles(db)).To(Succeed())
			Expect(seedStaff(db, staffSeeds[0])).To(Succeed())

			t := ticketDatamodel.Ticket{UserID: 1, Category: "general", Subject: "s", Description: "d", Priority: "low", Status: "open"}
			Expect(db.Create(&t).Error).NotTo(HaveOccurred())
			Expect(db.Create(&ticketDatamodel.Message{TicketID: t.ID, UserID: 1, Message: "hi"}).Error).NotTo(HaveOccurred())

			Expect(clearWorkData(db)).To(Succeed())

			var tickets, messages, users int64
			db.Model(&ticketDatamodel.Ticket{}).Count(&tickets)
			db.Model(&ticketDatamodel.Message{}).Count(&messages)
			db.Model(&userDatamodel.User{}).Count(&users)
			Expect(tickets).To(BeZero())
			Expect(messages).To(BeZero())
			Expect(users).To(Equal(int64(1)))
		})
	})
})
