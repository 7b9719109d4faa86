package entity

import (
	"time"

	"github.com/google/uuid"
)

// PasswordReset records one outstanding password reset request. The opaque
// token mailed to the account holder is never stored; only its SHA-256 hash
// is, so a database leak cannot be replayed as a reset proof.
type PasswordReset struct {
	ID        uuid.UUID  // Unique identifier for the reset request.
	AccountID uuid.UUID  // The account this reset applies to.
	TokenHash string     // SHA-256 hex digest of the opaque reset token.
	ExpiresAt time.Time  // Requests are only honored before this instant.
	UsedAt    *time.Time // Set when the reset is consumed; a reset is single-use.
	CreatedAt time.Time  // Timestamp of when the reset was requested.
}

// Used reports whether the reset has already been consumed.
func (r *PasswordReset) Used() bool {
	return r.UsedAt != nil
}

// Expired reports whether the reset is past its validity window at the
// given instant.
func (r *PasswordReset) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
