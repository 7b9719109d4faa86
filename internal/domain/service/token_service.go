package service

import (
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// Token kinds. A token of one kind is never accepted where the other is
// expected; the kind is a signed claim, checked on validation.
const (
	TokenKindSession           = "session"
	TokenKindEmailVerification = "email_verification"
)

// SessionClaims is the decoded identity carried by a session token.
type SessionClaims struct {
	AccountID uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Role      entity.Role
}

// TokenService defines the interface for issuing and validating the signed
// tokens used by the account flows. Sessions and email verification use
// separate secrets and TTLs; password reset proof is an opaque random token
// stored server-side, for which only generation and hashing live here.
type TokenService interface {
	// IssueSession creates a signed session token embedding the account's
	// public identity claims.
	IssueSession(account *entity.Account) (string, error)

	// IssueVerification creates a signed email-verification token for the
	// given account.
	IssueVerification(accountID uuid.UUID) (string, error)

	// ValidateSession checks a session token and returns its claims.
	ValidateSession(token string) (*SessionClaims, error)

	// ValidateVerification checks an email-verification token and returns
	// the subject account ID.
	ValidateVerification(token string) (uuid.UUID, error)

	// NewResetToken generates an opaque single-use reset token, returning
	// both the plaintext (mailed to the account holder) and its hash (the
	// only form ever persisted).
	NewResetToken() (plain string, hash string, err error)

	// HashToken returns the storage hash of an opaque token.
	HashToken(token string) string
}
