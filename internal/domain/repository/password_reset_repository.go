package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrResetNotFound is returned when no password reset matches a token hash.
var ErrResetNotFound = errors.New("password reset not found")

// PasswordResetRepository persists outstanding password reset requests.
// Tokens are stored hashed; lookups take the hash, never the plaintext.
type PasswordResetRepository interface {
	// Create persists a new reset request.
	Create(ctx context.Context, reset *entity.PasswordReset) error

	// FindByTokenHash retrieves a reset request by the hash of its token.
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.PasswordReset, error)

	// MarkUsed stamps the reset as consumed so it cannot be replayed.
	MarkUsed(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes reset requests that expired before the cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) error
}
