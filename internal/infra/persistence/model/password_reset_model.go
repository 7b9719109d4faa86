package model

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetModel mirrors the 'password_resets' table. Only the SHA-256
// hash of the mailed token is stored.
type PasswordResetModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	UsedAt    *time.Time
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (PasswordResetModel) TableName() string {
	return "password_resets"
}
