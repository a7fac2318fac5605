package server

import (
	"errors"
	"log/slog"

	"shelfware/internal/middleware"
	"shelfware/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseUUID extracts a route parameter as a UUID.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseUUID(c *fiber.Ctx, param, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewInvalidIDError(resource, err))
		return uuid.Nil, errResponseWritten
	}
	return id, nil
}

// parseBody decodes the JSON body into out, writing a 400 on malformed input.
func (s *Server) parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// respondError writes err with the status its code maps to. Server errors are logged,
// and their detail is withheld from clients in production.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request error",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		if s.config.IsProduction() {
			err = models.Sanitize(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// currentUserID returns the caller's id. Routes using it are behind RequireAuth.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return uuid.Nil, models.NewUnauthorizedError("Authorization required")
	}
	return id, nil
}
