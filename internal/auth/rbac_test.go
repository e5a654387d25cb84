package auth

import (
	"github.com/frahmantamala/support-desk/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RBAC gate", func() {
	admin := &Identity{ID: 1, Roles: []string{RoleAdmin}}
	manager := &Identity{ID: 2, Roles: []string{RoleManager}}
	support := &Identity{ID: 3, Roles: []string{RoleSupport}}
	customer := &Identity{ID: 4, Roles: []string{RoleCustomer}}
	adminSupport := &Identity{ID: 5, Roles: []string{RoleSupport, RoleAdmin}}

	Describe("Authorize", func() {
		It("grants on any matching role", func() {
			Expect(Authorize(support, StaffRoles...)).To(Succeed())
			Expect(Authorize(adminSupport, UserManagerRoles...)).To(Succeed())
		})

		It("forbids without a matching role", func() {
			Expect(Authorize(customer, StaffRoles...)).To(MatchError(internal.ErrInsufficientRole))
			Expect(Authorize(support, UserManagerRoles...)).To(MatchError(internal.ErrInsufficientRole))
		})

		It("treats a missing identity as unauthenticated", func() {
			Expect(Authorize(nil, StaffRoles...)).To(MatchError(internal.ErrMissingToken))
		})
	})

	Describe("CanToggleStatus", func() {
		It("never lets an actor toggle their own account", func() {
			Expect(CanToggleStatus(admin, admin.ID, admin.Roles)).To(MatchError(internal.ErrSelfProtection))
			Expect(CanToggleStatus(manager, manager.ID, manager.Roles)).To(MatchError(internal.ErrSelfProtection))
		})

		It("stops a non-admin from toggling an admin", func() {
			Expect(CanToggleStatus(manager, 9, []string{RoleAdmin})).To(MatchError(internal.ErrPeerProtection))
			Expect(CanToggleStatus(manager, 9, []string{RoleSupport, RoleAdmin})).To(MatchError(internal.ErrPeerProtection))
		})

		It("lets an admin toggle another admin", func() {
			Expect(CanToggleStatus(admin, 9, []string{RoleAdmin})).To(Succeed())
		})

		It("lets a manager toggle a customer", func() {
			Expect(CanToggleStatus(manager, 9, []string{RoleCustomer})).To(Succeed())
		})

		It("requires a user-manager role before anything else", func() {
			Expect(CanToggleStatus(support, 9, []string{RoleAdmin})).To(MatchError(internal.ErrInsufficientRole))
			Expect(CanToggleStatus(support, support.ID, nil)).To(MatchError(internal.ErrInsufficientRole))
		})
	})

	It("routes staff to the admin page after login", func() {
		Expect(LandingPage([]string{RoleSupport})).To(Equal("admin.html"))
		Expect(LandingPage([]string{RoleCustomer})).To(Equal("index.html"))
		Expect(LandingPage(nil)).To(Equal("index.html"))
	})
})
