package repository

import (
	"context"

	"shelfware/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectRepository defines persistence operations for projects.
// Ownership rules live in the service layer; the repository only filters.
type ProjectRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error)
	ListUnowned(ctx context.Context) ([]models.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// replaceableProjectColumns are overwritten by a full-replace update.
var replaceableProjectColumns = []string{
	"title", "status", "description", "github_url", "deployed_url", "docs_url", "hardware_info", "updated_at",
}

type projectRepository struct {
	db *gorm.DB
	instrumented
}

// NewProjectRepository returns a new ProjectRepository implementation.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db, instrumented: newInstrumented("projects")}
}

func (r *projectRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) (projects []models.Project, err error) {
	ctx, finish := r.start(ctx, r.db, "list_by_owner")
	defer func() { finish(err) }()

	projects = []models.Project{}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, translateError(err, "Project")
	}
	return projects, nil
}

func (r *projectRepository) ListUnowned(ctx context.Context) (projects []models.Project, err error) {
	ctx, finish := r.start(ctx, r.db, "list_unowned")
	defer func() { finish(err) }()

	projects = []models.Project{}
	if err := r.db.WithContext(ctx).
		Where("user_id IS NULL").
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, translateError(err, "Project")
	}
	return projects, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (project *models.Project, err error) {
	ctx, finish := r.start(ctx, r.db, "get_by_id")
	defer func() { finish(err) }()

	var p models.Project
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Project")
	}
	return &p, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) (err error) {
	ctx, finish := r.start(ctx, r.db, "create")
	defer func() { finish(err) }()

	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return translateError(err, "Project")
	}
	return nil
}

// Update overwrites every replaceable column, including ones set to nil.
// Ownership and creation time are never touched.
func (r *projectRepository) Update(ctx context.Context, project *models.Project) (err error) {
	ctx, finish := r.start(ctx, r.db, "update")
	defer func() { finish(err) }()

	result := r.db.WithContext(ctx).
		Model(project).
		Select(replaceableProjectColumns).
		Updates(project)
	if result.Error != nil {
		return translateError(result.Error, "Project")
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Project")
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, finish := r.start(ctx, r.db, "delete")
	defer func() { finish(err) }()

	result := r.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "Project")
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Project")
	}
	return nil
}
