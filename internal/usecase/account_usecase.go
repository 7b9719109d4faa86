// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginInput defines the data required for an account holder to log in.
type LoginInput struct {
	Email    string
	Password string
}

// VerifyEmailInput carries the verification token from the emailed link.
type VerifyEmailInput struct {
	Token string
}

// ListAccountsInput narrows the account listing. All fields are optional.
type ListAccountsInput struct {
	FirstName string
	LastName  string
	Email     string
}

// RequestPasswordResetInput identifies the account asking for a reset.
type RequestPasswordResetInput struct {
	Email string
}

// CompletePasswordResetInput carries the mailed reset token and the
// replacement password.
type CompletePasswordResetInput struct {
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account's public projection.
type RegisterOutput struct {
	Account *entity.PublicAccount
}

// LoginOutput returns the session token after a successful login.
type LoginOutput struct {
	Message string
	Token   string
	Account *entity.PublicAccount
}

// VerifyEmailOutput returns the account whose email was just confirmed.
type VerifyEmailOutput struct {
	Account *entity.PublicAccount
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	VerifyEmail(ctx context.Context, input VerifyEmailInput) (*VerifyEmailOutput, error)
	ListAccounts(ctx context.Context, input ListAccountsInput) ([]*entity.PublicAccount, error)
	RequestPasswordReset(ctx context.Context, input RequestPasswordResetInput) error
	CompletePasswordReset(ctx context.Context, input CompletePasswordResetInput) error
	DeleteAccount(ctx context.Context, id uuid.UUID) error
}
