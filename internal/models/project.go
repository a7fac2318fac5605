package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProjectStatus is the closed set of lifecycle labels. Any value may replace any other.
type ProjectStatus string

const (
	StatusPlanning   ProjectStatus = "Planning"
	StatusInProgress ProjectStatus = "In Progress"
	StatusCompleted  ProjectStatus = "Completed"
	StatusAbandoned  ProjectStatus = "Abandoned"
)

// ProjectStatuses lists every accepted status in display order.
var ProjectStatuses = []ProjectStatus{StatusPlanning, StatusInProgress, StatusCompleted, StatusAbandoned}

// Valid reports whether s is one of ProjectStatuses.
func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Project is a tracked side project. UserID is nil for legacy rows that predate ownership.
type Project struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Status       ProjectStatus  `gorm:"size:32;not null" json:"status"`
	Description  *string        `gorm:"type:text" json:"description"`
	GithubURL    *string        `gorm:"size:2048" json:"githubUrl"`
	DeployedURL  *string        `gorm:"size:2048" json:"deployedUrl"`
	DocsURL      *string        `gorm:"size:2048" json:"docsUrl"`
	HardwareInfo datatypes.JSON `json:"hardwareInfo" swaggertype:"object"`
	UserID       *uuid.UUID     `gorm:"type:uuid;index" json:"userId"`
	User         *User          `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// BeforeCreate assigns a random UUID when the caller has not set one.
func (p *Project) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// AccessibleBy reports whether userID may read or mutate the project.
// Unowned projects are open to every authenticated caller.
func (p *Project) AccessibleBy(userID uuid.UUID) bool {
	return p.UserID == nil || *p.UserID == userID
}
