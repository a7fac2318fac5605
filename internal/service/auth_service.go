// Package service implements authentication and project use cases on top of the repositories.
package service

import (
	"context"
	"errors"
	"strings"

	"shelfware/internal/models"
	"shelfware/internal/observability"
	"shelfware/internal/repository"
	"shelfware/internal/validation"

	"github.com/google/uuid"
)

// ErrInvalidCredentials is returned for an unknown email and for a wrong password alike.
var ErrInvalidCredentials = models.NewUnauthorizedError("Invalid credentials")

// ErrUnauthenticated is returned when a bearer token cannot be resolved to a user.
var ErrUnauthenticated = models.NewUnauthorizedError("Invalid or expired token")

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenManager issues and verifies bearer tokens bound to a user id.
type TokenManager interface {
	Issue(userID uuid.UUID) (string, error)
	Verify(token string) (uuid.UUID, error)
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type AuthService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenManager
}

func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher, tokens TokenManager) *AuthService {
	return &AuthService{userRepo: userRepo, hasher: hasher, tokens: tokens}
}

// Register creates a user and issues a token for it.
func (s *AuthService) Register(ctx context.Context, in validation.RegisterRequest) (result *AuthResult, err error) {
	defer func() { recordAuthAttempt("register", err) }()

	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Email is already in use")
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:    in.Email,
		Password: hashed,
		Name:     optionalName(in.Name),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, in validation.LoginRequest) (result *AuthResult, err error) {
	if err := in.Validate(); err != nil {
		recordAuthAttempt("login", err)
		return nil, err
	}

	user, err := s.AuthenticateCredentials(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// AuthenticateCredentials looks the user up by exact email and verifies the password.
func (s *AuthService) AuthenticateCredentials(ctx context.Context, email, password string) (user *models.User, err error) {
	defer func() { recordAuthAttempt("login", err) }()

	user, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// AuthenticateToken verifies a bearer token and loads its user.
func (s *AuthService) AuthenticateToken(ctx context.Context, token string) (user *models.User, err error) {
	defer func() { recordAuthAttempt("token", err) }()

	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err = s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if codeOf(err) == models.CodeNotFound {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// optionalName stores a blank name as absent.
func optionalName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func recordAuthAttempt(method string, err error) {
	observability.AuthAttempts.WithLabelValues(method, outcomeFor(err)).Inc()
}

func codeOf(err error) string {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

func outcomeFor(err error) string {
	if err == nil {
		return observability.OutcomeSuccess
	}
	switch codeOf(err) {
	case models.CodeValidation, models.CodeInvalidID:
		return observability.OutcomeInvalid
	case models.CodeForbidden:
		return observability.OutcomeForbidden
	case models.CodeNotFound:
		return observability.OutcomeNotFound
	default:
		return observability.OutcomeFailure
	}
}
