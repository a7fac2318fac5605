package server

import (
	"context"
	"log/slog"
	"time"

	"shelfware/internal/database"
	"shelfware/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck handles liveness probe requests
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string}
// @Router /health [get]
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "UP"})
}

// ReadinessCheck reports 503 when the database cannot be reached.
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} object{status=string,checks=object{database=string}}
// @Failure 503 {object} object{status=string,checks=object{database=string},error=string}
// @Router /ready [get]
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	if err := database.Ping(ctx, s.db); err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "readiness check failed", slog.String("error", err.Error()))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "UNAVAILABLE",
			"checks": fiber.Map{"database": "FAILING"},
			"error":  "Database connection failed",
		})
	}

	return c.JSON(fiber.Map{
		"status": "READY",
		"checks": fiber.Map{"database": "OK"},
	})
}

// Root answers GET / when no frontend bundle is configured.
func (s *Server) Root(c *fiber.Ctx) error {
	return c.SendString("Shelfware API is running")
}
