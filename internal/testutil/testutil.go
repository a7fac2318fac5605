// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"testing"
	"time"

	"shelfware/internal/config"
	"shelfware/internal/database"
	"shelfware/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB returns an isolated in-memory SQLite database with the schema applied.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(&config.Config{
		DatabaseURL: "sqlite::memory:",
		Env:         "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// CreateUser inserts a user with the given email. The stored password is not a valid hash.
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{Email: email, Password: "not-a-hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject inserts a project owned by ownerID, or an unowned one when ownerID is nil.
// createdAt controls list ordering.
func CreateProject(t *testing.T, db *gorm.DB, title string, ownerID *uuid.UUID, createdAt time.Time) *models.Project {
	t.Helper()

	project := &models.Project{
		Title:     title,
		Status:    models.StatusPlanning,
		UserID:    ownerID,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: createdAt.UTC(),
	}
	require.NoError(t, db.Create(project).Error)
	return project
}
