package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelfware/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authenticatorFunc func(ctx context.Context, token string) (*models.User, error)

func (f authenticatorFunc) AuthenticateToken(ctx context.Context, token string) (*models.User, error) {
	return f(ctx, token)
}

func newTestAuthenticator(valid string, user *models.User) Authenticator {
	return authenticatorFunc(func(_ context.Context, token string) (*models.User, error) {
		switch token {
		case valid:
			return user, nil
		case "store-down":
			return nil, models.NewInternalError(errors.New("pq: connection refused"))
		}
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	})
}

func TestRequireAuth(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "demo@example.com"}
	app := fiber.New()
	app.Get("/test", RequireAuth(newTestAuthenticator("good-token", user)), func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		require.True(t, ok)
		ctxID, _ := c.UserContext().Value(UserIDKey).(uuid.UUID)
		current, _ := CurrentUser(c)
		return c.JSON(fiber.Map{"userID": id, "ctxUserID": ctxID, "email": current.Email})
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedError  string
	}{
		{"Happy Path", "Bearer good-token", http.StatusOK, ""},
		{"Lowercase Scheme", "bearer good-token", http.StatusOK, ""},
		{"Missing Header", "", http.StatusUnauthorized, "Authorization header required"},
		{"Invalid Format", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "Invalid authorization header format"},
		{"Extra Parts", "Bearer good-token extra", http.StatusUnauthorized, "Invalid authorization header format"},
		{"Rejected Token", "Bearer malformed.token.here", http.StatusUnauthorized, "Invalid or expired token"},
		{"Store Failure", "Bearer store-down", http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusInternalServerError {
				return
			}

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, user.ID.String(), body["userID"])
				assert.Equal(t, user.ID.String(), body["ctxUserID"])
				assert.Equal(t, user.Email, body["email"])
			} else {
				assert.Equal(t, tt.expectedError, body["error"])
				assert.Equal(t, models.CodeUnauthorized, body["code"])
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	user := &models.User{ID: uuid.New()}
	app := fiber.New()
	app.Get("/test", OptionalAuth(newTestAuthenticator("good-token", user)), func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(id.String())
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		expected   string
	}{
		{"Valid Token", "Bearer good-token", http.StatusOK, user.ID.String()},
		{"No Header", "", http.StatusOK, "anonymous"},
		{"Bad Token", "Bearer nope", http.StatusOK, "anonymous"},
		{"Bad Format", "Token good-token", http.StatusOK, "anonymous"},
		{"Store Failure", "Bearer store-down", http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus != http.StatusOK {
				return
			}

			buf := new(bytes.Buffer)
			_, _ = buf.ReadFrom(resp.Body)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}
