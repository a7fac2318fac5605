package service

import (
	"context"
	"errors"
	"testing"

	"shelfware/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRepoStub struct {
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*models.User, error)
	getByEmailFn func(ctx context.Context, email string) (*models.User, error)
	createFn     func(ctx context.Context, user *models.User) error
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(context.Context, uuid.UUID) (*models.User, error) {
			return nil, models.NewNotFoundError("User")
		},
		getByEmailFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn: func(_ context.Context, u *models.User) error {
			if u.ID == uuid.Nil {
				u.ID = uuid.New()
			}
			return nil
		},
	}
}

func (s *userRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

type projectRepoStub struct {
	listByOwnerFn func(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error)
	listUnownedFn func(ctx context.Context) ([]models.Project, error)
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*models.Project, error)
	createFn      func(ctx context.Context, project *models.Project) error
	updateFn      func(ctx context.Context, project *models.Project) error
	deleteFn      func(ctx context.Context, id uuid.UUID) error
}

func noopProjectRepo() *projectRepoStub {
	return &projectRepoStub{
		listByOwnerFn: func(context.Context, uuid.UUID) ([]models.Project, error) { return []models.Project{}, nil },
		listUnownedFn: func(context.Context) ([]models.Project, error) { return []models.Project{}, nil },
		getByIDFn: func(context.Context, uuid.UUID) (*models.Project, error) {
			return nil, models.NewNotFoundError("Project")
		},
		createFn: func(context.Context, *models.Project) error { return nil },
		updateFn: func(context.Context, *models.Project) error { return nil },
		deleteFn: func(context.Context, uuid.UUID) error { return nil },
	}
}

func (s *projectRepoStub) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	return s.listByOwnerFn(ctx, ownerID)
}

func (s *projectRepoStub) ListUnowned(ctx context.Context) ([]models.Project, error) {
	return s.listUnownedFn(ctx)
}

func (s *projectRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.getByIDFn(ctx, id)
}

func (s *projectRepoStub) Create(ctx context.Context, project *models.Project) error {
	return s.createFn(ctx, project)
}

func (s *projectRepoStub) Update(ctx context.Context, project *models.Project) error {
	return s.updateFn(ctx, project)
}

func (s *projectRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

// plainHasher stores passwords with a fixed prefix so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

func assertAppError(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected *models.AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}
