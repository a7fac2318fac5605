package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", NewValidationError("Title and status are required"), fiber.StatusBadRequest},
		{"invalid id", NewInvalidIDError("project", errors.New("bad uuid")), fiber.StatusBadRequest},
		{"unauthorized", NewUnauthorizedError("Invalid credentials"), fiber.StatusUnauthorized},
		{"forbidden", NewForbiddenError("nope"), fiber.StatusForbidden},
		{"not found", NewNotFoundError("Project"), fiber.StatusNotFound},
		{"internal", NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{"wrapped", fmt.Errorf("service: %w", NewNotFoundError("User")), fiber.StatusNotFound},
		{"plain", errors.New("plain"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, StatusFor(tt.err))
		})
	}
}

func TestSanitize(t *testing.T) {
	notFound := NewNotFoundError("Project")
	assert.Same(t, notFound, Sanitize(notFound))

	sanitized := Sanitize(NewInternalError(errors.New("pq: relation \"projects\" does not exist")))
	var appErr *AppError
	require.ErrorAs(t, sanitized, &appErr)
	assert.Equal(t, InternalErrorMessage, appErr.Message)
	assert.NoError(t, appErr.Err)
}

func TestRespondWithError(t *testing.T) {
	app := fiber.New()
	app.Get("/app", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, NewInternalError(errors.New("db down")))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusTeapot, errors.New("short and stout"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/app", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, ErrorResponse{Error: "Internal server error", Code: CodeInternal, Details: "db down"}, out)

	resp, err = app.Test(httptest.NewRequest("GET", "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "short and stout", out.Error)
	assert.Empty(t, out.Code)
}
