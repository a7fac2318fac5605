// Package middleware provides logging, authentication, rate limiting and tracing middleware for the application.
package middleware

import (
	"context"
	"strings"

	"shelfware/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys set by the auth middleware.
const (
	LocalUser   = "user"
	LocalUserID = "userID"
)

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	AuthenticateToken(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth rejects the request with 401 unless it carries a valid bearer token.
func RequireAuth(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		if err := resolve(c, authn, token); err != nil {
			if isStoreFailure(err) {
				return err
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		return c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid bearer token is present and
// otherwise continues anonymously. A token that cannot be checked because the store
// failed is an error, not an anonymous request.
func OptionalAuth(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, err := bearerToken(c); err == nil {
			if err := resolve(c, authn, token); err != nil {
				if isStoreFailure(err) {
					return err
				}
				Logger.DebugContext(c.UserContext(), "optional auth ignored token", "error", err)
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user id, if any.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(LocalUserID).(uuid.UUID)
	return id, ok
}

// CurrentUser returns the authenticated user, if any.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(LocalUser).(*models.User)
	return user, ok && user != nil
}

func resolve(c *fiber.Ctx, authn Authenticator, token string) error {
	user, err := authn.AuthenticateToken(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(LocalUser, user)
	c.Locals(LocalUserID, user.ID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, user.ID))
	return nil
}

// isStoreFailure separates server-side failures from rejected credentials.
func isStoreFailure(err error) bool {
	return models.StatusFor(err) >= fiber.StatusInternalServerError
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return "", models.NewUnauthorizedError("Authorization header required")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", models.NewUnauthorizedError("Invalid authorization header format")
	}
	return parts[1], nil
}
