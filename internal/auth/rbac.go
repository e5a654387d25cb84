package auth

import (
	"github.com/frahmantamala/support-desk/internal"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleSupport  = "support"
	RoleCustomer = "customer"
)

var (
	// StaffRoles may work tickets and read dashboard statistics.
	StaffRoles = []string{RoleAdmin, RoleManager, RoleSupport}
	// UserManagerRoles may list accounts and toggle their status.
	UserManagerRoles = []string{RoleAdmin, RoleManager}
)

// Authorize grants access when the identity holds any of the required roles.
func Authorize(identity *Identity, required ...string) error {
	if identity == nil {
		return internal.ErrMissingToken
	}
	if len(required) == 0 || identity.HasAnyRole(required...) {
		return nil
	}
	return internal.ErrInsufficientRole
}

func IsStaff(identity *Identity) bool {
	return identity != nil && identity.HasAnyRole(StaffRoles...)
}

// CanToggleStatus layers self and peer protection over the user-manager
// role check. It must run before the target account is mutated.
func CanToggleStatus(actor *Identity, targetID int64, targetRoles []string) error {
	if err := Authorize(actor, UserManagerRoles...); err != nil {
		return err
	}
	if actor.ID == targetID {
		return internal.ErrSelfProtection
	}
	if !actor.HasRole(RoleAdmin) {
		for _, r := range targetRoles {
			if r == RoleAdmin {
				return internal.ErrPeerProtection
			}
		}
	}
	return nil
}

// LandingPage picks the client page to open after login.
func LandingPage(roles []string) string {
	id := Identity{Roles: roles}
	if IsStaff(&id) {
		return "admin.html"
	}
	return "index.html"
}
