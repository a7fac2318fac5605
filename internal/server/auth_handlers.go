package server

import (
	"shelfware/internal/middleware"
	"shelfware/internal/models"
	"shelfware/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Register handles POST /api/auth/register
// @Summary Register a user
// @Description Create an account and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.RegisterRequest true "Registration request"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 429 {object} object{error=string}
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req validation.RegisterRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	result, err := s.authService.Register(c.UserContext(), req)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Verify email and password and return a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body validation.LoginRequest true "Login credentials"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req validation.LoginRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	result, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(result)
}

// Profile handles GET /api/auth/profile
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/profile [get]
func (s *Server) Profile(c *fiber.Ctx) error {
	// RequireAuth loads the user on every request.
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return s.respondError(c, models.NewUnauthorizedError("Authorization required"))
	}
	return c.JSON(user)
}
