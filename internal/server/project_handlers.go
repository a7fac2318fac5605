package server

import (
	"shelfware/internal/middleware"
	"shelfware/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListProjects handles GET /api/projects
// @Summary List projects
// @Description With a bearer token, the caller's projects; without one, only unowned projects. Newest first.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Project
// @Failure 500 {object} models.ErrorResponse
// @Router /projects [get]
func (s *Server) ListProjects(c *fiber.Ctx) error {
	var viewer *uuid.UUID
	if id, ok := middleware.UserID(c); ok {
		viewer = &id
	}

	projects, err := s.projectService.List(c.UserContext(), viewer)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(projects)
}

// GetProject handles GET /api/projects/:id
// @Summary Get a project
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id} [get]
func (s *Server) GetProject(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id", "project")
	if err != nil {
		return nil
	}
	userID, err := currentUserID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	project, err := s.projectService.Get(c.UserContext(), id, userID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(project)
}

// CreateProject handles POST /api/projects
// @Summary Create a project
// @Description The caller becomes the owner.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body validation.ProjectRequest true "Project"
// @Success 201 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /projects [post]
func (s *Server) CreateProject(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	var req validation.ProjectRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	project, err := s.projectService.Create(c.UserContext(), userID, req)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// UpdateProject handles PUT /api/projects/:id
// @Summary Replace a project
// @Description Every editable field is overwritten; omitted optional fields are cleared.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body validation.ProjectRequest true "Project"
// @Success 200 {object} models.Project
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id} [put]
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id", "project")
	if err != nil {
		return nil
	}
	userID, err := currentUserID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	var req validation.ProjectRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	project, err := s.projectService.Update(c.UserContext(), id, userID, req)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(project)
}

// DeleteProject handles DELETE /api/projects/:id
// @Summary Delete a project
// @Tags projects
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /projects/{id} [delete]
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id", "project")
	if err != nil {
		return nil
	}
	userID, err := currentUserID(c)
	if err != nil {
		return s.respondError(c, err)
	}

	if err := s.projectService.Delete(c.UserContext(), id, userID); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
