package service

import (
	"context"

	"shelfware/internal/models"
	"shelfware/internal/observability"
	"shelfware/internal/repository"
	"shelfware/internal/validation"

	"github.com/google/uuid"
)

const (
	msgAccessDenied = "You do not have permission to access this project"
	msgModifyDenied = "You do not have permission to modify this project"
	msgDeleteDenied = "You do not have permission to delete this project"
)

// ProjectService enforces project ownership. A project with an owner is visible and mutable
// only to that owner; unowned projects are open to any authenticated caller.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo}
}

// List returns the viewer's projects, or only unowned projects when viewer is nil.
func (s *ProjectService) List(ctx context.Context, viewer *uuid.UUID) (projects []models.Project, err error) {
	defer func() { recordProjectOperation("list", err) }()

	if viewer == nil {
		return s.projectRepo.ListUnowned(ctx)
	}
	return s.projectRepo.ListByOwner(ctx, *viewer)
}

func (s *ProjectService) Get(ctx context.Context, id, userID uuid.UUID) (project *models.Project, err error) {
	defer func() { recordProjectOperation("get", err) }()

	return s.loadAccessible(ctx, id, userID, msgAccessDenied)
}

// Create stores a new project owned by ownerID.
func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, in validation.ProjectRequest) (project *models.Project, err error) {
	defer func() { recordProjectOperation("create", err) }()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	project = &models.Project{UserID: &ownerID}
	in.Apply(project)
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Update replaces every editable field of the project. Ownership never changes.
func (s *ProjectService) Update(ctx context.Context, id, userID uuid.UUID, in validation.ProjectRequest) (project *models.Project, err error) {
	defer func() { recordProjectOperation("update", err) }()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	project, err = s.loadAccessible(ctx, id, userID, msgModifyDenied)
	if err != nil {
		return nil, err
	}

	in.Apply(project)
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id, userID uuid.UUID) (err error) {
	defer func() { recordProjectOperation("delete", err) }()

	if _, err := s.loadAccessible(ctx, id, userID, msgDeleteDenied); err != nil {
		return err
	}
	return s.projectRepo.Delete(ctx, id)
}

func (s *ProjectService) loadAccessible(ctx context.Context, id, userID uuid.UUID, deniedMsg string) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.AccessibleBy(userID) {
		return nil, models.NewForbiddenError(deniedMsg)
	}
	return project, nil
}

func recordProjectOperation(operation string, err error) {
	observability.ProjectOperations.WithLabelValues(operation, outcomeFor(err)).Inc()
}
