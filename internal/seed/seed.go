// Package seed provides database seeding utilities for development and demos.
package seed

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"shelfware/internal/auth"
	"shelfware/internal/middleware"
	"shelfware/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

//go:embed fixtures/projects.yaml
var projectsYAML []byte

// DemoUser is an account created by Users.
type DemoUser struct {
	Email    string
	Password string
	Name     string
}

// DemoUsers are the accounts every seeded environment gets.
var DemoUsers = []DemoUser{
	{Email: "demo@example.com", Password: "password123", Name: "Demo User"},
	{Email: "admin@example.com", Password: "admin123", Name: "Admin"},
}

// ProjectFixture is one entry of fixtures/projects.yaml.
type ProjectFixture struct {
	Title        string            `yaml:"title"`
	Status       string            `yaml:"status"`
	Description  string            `yaml:"description"`
	GithubURL    string            `yaml:"githubUrl"`
	DeployedURL  string            `yaml:"deployedUrl"`
	DocsURL      string            `yaml:"docsUrl"`
	HardwareInfo map[string]string `yaml:"hardwareInfo"`
}

// SampleProjects decodes the embedded project fixtures.
func SampleProjects() ([]ProjectFixture, error) {
	var fixtures []ProjectFixture
	if err := yaml.Unmarshal(projectsYAML, &fixtures); err != nil {
		return nil, fmt.Errorf("decode project fixtures: %w", err)
	}
	return fixtures, nil
}

// Model converts the fixture into an unowned project.
func (f ProjectFixture) Model() (*models.Project, error) {
	status := models.ProjectStatus(f.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("project %q: unknown status %q", f.Title, f.Status)
	}

	project := &models.Project{
		Title:       f.Title,
		Status:      status,
		Description: optional(f.Description),
		GithubURL:   optional(f.GithubURL),
		DeployedURL: optional(f.DeployedURL),
		DocsURL:     optional(f.DocsURL),
	}
	if len(f.HardwareInfo) > 0 {
		raw, err := json.Marshal(f.HardwareInfo)
		if err != nil {
			return nil, err
		}
		project.HardwareInfo = datatypes.JSON(raw)
	}
	return project, nil
}

// Users creates DemoUsers, skipping emails that are already registered.
// It returns the number of users created.
func Users(db *gorm.DB, hasher auth.PasswordHasher) (int, error) {
	created := 0
	for _, demo := range DemoUsers {
		var existing models.User
		err := db.Where("email = ?", demo.Email).First(&existing).Error
		if err == nil {
			middleware.Logger.Info("seed: user exists, skipping", slog.String("email", demo.Email))
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, fmt.Errorf("look up %s: %w", demo.Email, err)
		}

		hashed, err := hasher.Hash(demo.Password)
		if err != nil {
			return created, fmt.Errorf("hash password for %s: %w", demo.Email, err)
		}

		name := demo.Name
		user := &models.User{Email: demo.Email, Password: hashed, Name: &name}
		if err := db.Create(user).Error; err != nil {
			return created, fmt.Errorf("create %s: %w", demo.Email, err)
		}
		middleware.Logger.Info("seed: user created", slog.String("email", user.Email), slog.String("id", user.ID.String()))
		created++
	}
	return created, nil
}

// Projects creates the sample unowned projects. A sample whose title already exists
// as an unowned project is skipped, so seeding twice leaves one copy of each.
func Projects(db *gorm.DB) (int, error) {
	fixtures, err := SampleProjects()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, fixture := range fixtures {
		var count int64
		if err := db.Model(&models.Project{}).
			Where("title = ? AND user_id IS NULL", fixture.Title).
			Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			middleware.Logger.Info("seed: project exists, skipping", slog.String("title", fixture.Title))
			continue
		}

		project, err := fixture.Model()
		if err != nil {
			return created, err
		}
		if err := db.Create(project).Error; err != nil {
			return created, fmt.Errorf("create project %q: %w", fixture.Title, err)
		}
		middleware.Logger.Info("seed: project created", slog.String("title", project.Title), slog.String("id", project.ID.String()))
		created++
	}
	return created, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
