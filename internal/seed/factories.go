package seed

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shelfware/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FactoryOptions tune generated data.
type FactoryOptions struct {
	// MaxDays spreads created_at over the last MaxDays days. Defaults to 90.
	MaxDays int
	// Seed makes output reproducible when non-zero.
	Seed int64
	// DryRun builds projects without writing them.
	DryRun bool
}

// Factory builds fake projects and persists them to the database.
type Factory struct {
	db    *gorm.DB
	opts  FactoryOptions
	faker *gofakeit.Faker
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts FactoryOptions) *Factory {
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{db: db, opts: opts, faker: gofakeit.New(seed)}
}

var hardwareKeys = []string{"board", "language", "framework", "database", "sensors", "storage"}

// BuildProject returns an unsaved fake project owned by ownerID.
func (f *Factory) BuildProject(ownerID uuid.UUID, overrides ...func(*models.Project)) *models.Project {
	fk := f.faker
	statuses := models.ProjectStatuses

	title := strings.TrimSuffix(fk.HipsterSentence(3), ".")
	description := fk.Paragraph(1, 2, 12, " ")
	owner := ownerID

	project := &models.Project{
		Title:       title,
		Status:      statuses[fk.Number(0, len(statuses)-1)],
		Description: &description,
		UserID:      &owner,
	}

	if fk.Bool() {
		repo := fmt.Sprintf("https://github.com/%s/%s", fk.Username(), strings.ToLower(fk.Word()))
		project.GithubURL = &repo
	}
	if fk.Bool() {
		deployed := fk.URL()
		project.DeployedURL = &deployed
	}

	info := map[string]string{}
	for _, key := range hardwareKeys {
		if fk.Number(0, 2) == 0 {
			info[key] = fk.BuzzWord()
		}
	}
	if len(info) > 0 {
		raw, _ := json.Marshal(info)
		project.HardwareInfo = datatypes.JSON(raw)
	}

	daysBack := fk.Number(0, f.opts.MaxDays-1)
	minutesBack := fk.Number(0, 24*60-1)
	project.CreatedAt = time.Now().UTC().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(minutesBack)*time.Minute)
	project.UpdatedAt = project.CreatedAt

	for _, override := range overrides {
		override(project)
	}
	return project
}

// CreateProjects builds n fake projects for ownerID and persists them in one batch.
func (f *Factory) CreateProjects(ownerID uuid.UUID, n int) ([]*models.Project, error) {
	if n <= 0 {
		return nil, nil
	}
	projects := make([]*models.Project, 0, n)
	for i := 0; i < n; i++ {
		projects = append(projects, f.BuildProject(ownerID))
	}
	if f.opts.DryRun {
		return projects, nil
	}
	if err := f.db.Create(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}
