// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the core entity in the system, representing one registered
// shopper or administrator. The email is normalized to lowercase at every
// entry point, so the value stored here is always the canonical form.
type Account struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the account.
	Email        string    // Canonical (lowercased) login identifier, unique across accounts.
	FirstName    string    // The account holder's given name.
	LastName     string    // The account holder's family name.
	Role         Role      // Authorization role; defaults to RoleCustomer.
	Verified     bool      // True once the email verification flow has completed. One-way transition.
	PasswordHash string    // Salted bcrypt digest. Never serialized; see Public().
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification to this account.
}

// PublicAccount is the projection of an Account that is safe to return
// across the service boundary. It deliberately has no password hash field,
// so a credential can never leak through a response payload.
type PublicAccount struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	Role      Role      `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the boundary-safe projection of the account.
func (a *Account) Public() *PublicAccount {
	if a == nil {
		return nil
	}

	return &PublicAccount{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
		Verified:  a.Verified,
		CreatedAt: a.CreatedAt,
	}
}
