// Package entity contains the core business objects of the project.
package entity

// Role represents the type of role an account can have in the system.
type Role string

const (
	// RoleCustomer indicates a regular shopper account. New registrations
	// always start with this role.
	RoleCustomer Role = "customer"
	// RoleAdmin indicates an administrative account allowed to manage
	// other accounts.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleAdmin:
		return true
	default:
		return false
	}
}
