package repository

import (
	"context"
	"errors"

	"shelfware/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// GetByEmail returns nil, nil when no user has the email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
	instrumented
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, instrumented: newInstrumented("users")}
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (user *models.User, err error) {
	ctx, finish := r.start(ctx, r.db, "get_by_id")
	defer func() { finish(err) }()

	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "User")
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user *models.User, err error) {
	ctx, finish := r.start(ctx, r.db, "get_by_email")
	defer func() { finish(err) }()

	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (err error) {
	ctx, finish := r.start(ctx, r.db, "create")
	defer func() { finish(err) }()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Email is already in use")
		}
		return models.NewInternalError(err)
	}
	return nil
}
