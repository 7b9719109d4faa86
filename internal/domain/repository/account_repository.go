// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// AccountFilter narrows a listing. Empty fields are ignored; non-empty
// fields are already lowercased by the caller and matched case-insensitively
// by the implementation.
type AccountFilter struct {
	FirstName string
	LastName  string
	Email     string
}

// AccountRepository defines the standard operations for account persistence.
// The application layer will depend on this interface, not the concrete implementation.
type AccountRepository interface {
	// FindByID retrieves a single account by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail retrieves a single account by its canonical email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// Find retrieves accounts matching the filter; an empty filter returns all.
	Find(ctx context.Context, filter AccountFilter) ([]*entity.Account, error)

	// Create persists a new account. Email uniqueness is enforced by the
	// storage layer; a conflict surfaces as the already-exists domain error.
	Create(ctx context.Context, account *entity.Account) error

	// Update modifies an existing account in the storage.
	Update(ctx context.Context, account *entity.Account) error

	// Delete removes the account with the given ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
