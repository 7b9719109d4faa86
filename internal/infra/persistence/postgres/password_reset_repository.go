package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// passwordResetRepository implements the domain.PasswordResetRepository interface.
type passwordResetRepository struct {
	db *gorm.DB
}

// NewPasswordResetRepository is the constructor for passwordResetRepository.
func NewPasswordResetRepository(db *gorm.DB) repository.PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

// Create persists a new password reset request.
func (repo *passwordResetRepository) Create(ctx context.Context, reset *entity.PasswordReset) error {
	resetM := fromPasswordResetDomain(reset)

	if err := repo.db.WithContext(ctx).Create(resetM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrAccountNotFound.WrapMessage("invalid account reference")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create password reset")
	}

	// Update the entity with generated values
	reset.ID = resetM.ID
	reset.CreatedAt = resetM.CreatedAt

	return nil
}

// FindByTokenHash retrieves a reset request by the hash of its token.
func (repo *passwordResetRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.PasswordReset, error) {
	var resetM model.PasswordResetModel
	if err := repo.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		First(&resetM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrResetNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toPasswordResetDomain(&resetM), nil
}

// MarkUsed stamps the reset as consumed so it cannot be replayed.
func (repo *passwordResetRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PasswordResetModel{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", time.Now())
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to mark password reset used")
	}

	// Zero rows means the reset was missing or already consumed.
	if result.RowsAffected == 0 {
		return repository.ErrResetNotFound
	}

	return nil
}

// DeleteExpired removes reset requests that expired before the cutoff.
func (repo *passwordResetRepository) DeleteExpired(ctx context.Context, cutoff time.Time) error {
	if err := repo.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&model.PasswordResetModel{}).Error; err != nil {
		return errors.Wrap(err, "failed to delete expired password resets")
	}

	return nil
}

// --- Mapper Functions ---

// toPasswordResetDomain converts a GORM PasswordResetModel to a domain PasswordReset entity.
func toPasswordResetDomain(data *model.PasswordResetModel) *entity.PasswordReset {
	if data == nil {
		return nil
	}

	return &entity.PasswordReset{
		ID:        data.ID,
		AccountID: data.AccountID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		UsedAt:    data.UsedAt,
		CreatedAt: data.CreatedAt,
	}
}

// fromPasswordResetDomain converts a domain PasswordReset entity to a GORM PasswordResetModel.
func fromPasswordResetDomain(data *entity.PasswordReset) *model.PasswordResetModel {
	if data == nil {
		return nil
	}

	return &model.PasswordResetModel{
		ID:        data.ID,
		AccountID: data.AccountID,
		TokenHash: data.TokenHash,
		ExpiresAt: data.ExpiresAt,
		UsedAt:    data.UsedAt,
		CreatedAt: data.CreatedAt,
	}
}
