package repository

import (
	"context"
	"errors"

	"forumhub/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	GetOrCreate(ctx context.Context, user *models.User) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID always reads the database. The auth gate resolves token subjects
// through it, so a deleted user must stop resolving immediately.
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err, "User")
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, translateError(err, "User")
	}
	return &user, nil
}

// Create inserts a user, returning a Conflict error when the email is taken.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return models.NewConflictError("User already exists with this email")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetOrCreate returns the user with user.ID, inserting user when absent.
// A concurrent insert of the same id resolves to the stored row.
func (r *userRepository) GetOrCreate(ctx context.Context, user *models.User) (*models.User, error) {
	existing, err := r.GetByID(ctx, user.ID)
	if err == nil {
		return existing, nil
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		return nil, err
	}

	createErr := r.db.WithContext(ctx).Create(user).Error
	if createErr == nil {
		return user, nil
	}
	if !isUniqueViolation(createErr) {
		return nil, models.NewInternalError(createErr)
	}

	var stored models.User
	if err := r.db.WithContext(ctx).Where("id = ?", user.ID).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The id is free, so the email belongs to someone else.
			return nil, models.NewConflictError("User already exists with this email")
		}
		return nil, models.NewInternalError(err)
	}
	return &stored, nil
}
