package postgres

import (
	"context"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the domain.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a domain.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByID retrieves a single account by its unique ID.
func (repo *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&accountM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toAccountDomain(&accountM), nil
}

// FindByEmail retrieves a single account by its canonical email.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	if err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&accountM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

// Find retrieves accounts matching the filter. Filter values arrive already
// lowercased; matching compares against the lowercased column so listing is
// case-insensitive.
func (repo *accountRepository) Find(ctx context.Context, filter repository.AccountFilter) ([]*entity.Account, error) {
	query := repo.db.WithContext(ctx).Model(&model.AccountModel{})

	if filter.FirstName != "" {
		query = query.Where("lower(first_name) = ?", filter.FirstName)
	}
	if filter.LastName != "" {
		query = query.Where("lower(last_name) = ?", filter.LastName)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	var accountModels []*model.AccountModel
	if err := query.Order("created_at ASC").Find(&accountModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	accounts := make([]*entity.Account, 0, len(accountModels))
	for _, accountM := range accountModels {
		accounts = append(accounts, toAccountDomain(accountM))
	}

	return accounts, nil
}

// Create persists a new account entity to the database.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	// Map the pure domain entity to a GORM persistence model.
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAccountExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.NewMissingFieldError("account")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	// Update the account entity with the generated ID and timestamps
	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Update modifies an existing account entity in the database.
func (repo *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Save(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAccountExists.WrapMessage("email already exists")
		}
		// For other database errors, return a generic database error
		return domainerrors.NewDatabaseExecuteError(err, "failed to update account")
	}

	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Delete removes the account with the given ID.
func (repo *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.AccountModel{})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete account")
	}

	// If no rows were affected, the account was not found.
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:           data.ID,
		Email:        data.Email,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Role:         entity.Role(data.Role),
		Verified:     data.Verified,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel for persistence.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:           data.ID,
		Email:        data.Email,
		FirstName:    data.FirstName,
		LastName:     data.LastName,
		Role:         data.Role.String(),
		Verified:     data.Verified,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}
