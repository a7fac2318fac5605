// Package validation holds request payloads and the rules they must satisfy.
package validation

import (
	"bytes"
	"errors"
	"strings"

	"shelfware/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/datatypes"
)

// MaxPasswordBytes is the longest password bcrypt can hash without truncation.
const MaxPasswordBytes = 72

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

// Validate checks required fields first so callers get one predictable message for them.
func (r RegisterRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return models.NewValidationError("Email and password are required")
	}
	return wrap(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 320), is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(1, MaxPasswordBytes)),
		validation.Field(&r.Name, validation.Length(0, 255)),
	))
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return models.NewValidationError("Email and password are required")
	}
	return nil
}

// ProjectRequest is the body of POST and PUT /api/projects.
type ProjectRequest struct {
	Title        string               `json:"title"`
	Status       models.ProjectStatus `json:"status"`
	Description  *string              `json:"description"`
	GithubURL    *string              `json:"githubUrl"`
	DeployedURL  *string              `json:"deployedUrl"`
	DocsURL      *string              `json:"docsUrl"`
	HardwareInfo datatypes.JSON       `json:"hardwareInfo" swaggertype:"object"`
}

func (r ProjectRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" || r.Status == "" {
		return models.NewValidationError("Title and status are required")
	}
	return wrap(validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Status, validation.Required, validation.In(statusValues()...)),
		validation.Field(&r.GithubURL, validation.Length(0, 2048), is.URL),
		validation.Field(&r.DeployedURL, validation.Length(0, 2048), is.URL),
		validation.Field(&r.DocsURL, validation.Length(0, 2048), is.URL),
	))
}

// Apply copies every replaceable field onto p. Absent optional fields become nil.
func (r ProjectRequest) Apply(p *models.Project) {
	p.Title = r.Title
	p.Status = r.Status
	p.Description = r.Description
	p.GithubURL = r.GithubURL
	p.DeployedURL = r.DeployedURL
	p.DocsURL = r.DocsURL
	p.HardwareInfo = normalizeJSON(r.HardwareInfo)
}

func statusValues() []interface{} {
	values := make([]interface{}, len(models.ProjectStatuses))
	for i, s := range models.ProjectStatuses {
		values[i] = s
	}
	return values
}

// normalizeJSON stores an explicit JSON null the same way as an absent value.
func normalizeJSON(j datatypes.JSON) datatypes.JSON {
	if len(j) == 0 || bytes.Equal(bytes.TrimSpace(j), []byte("null")) {
		return nil
	}
	return j
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		return models.NewValidationError(errs.Error())
	}
	return models.NewValidationError(err.Error())
}
