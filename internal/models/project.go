package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project belongs to an intention and groups subprojects and issues.
type Project struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;index;not null" json:"userId"`
	IntentionID uuid.UUID      `gorm:"type:uuid;index;not null" json:"intentionId"`
	Title       string         `gorm:"type:varchar(150);not null" json:"title"`
	Subtitle    string         `gorm:"type:varchar(250)" json:"subtitle"`
	Description string         `gorm:"type:text" json:"description"`
	Key         string         `gorm:"type:varchar(4);not null;uniqueIndex:idx_projects_key,where:deleted_at IS NULL" json:"key"`
	IssueSeq    int            `gorm:"not null;default:0" json:"-"`
	Subprojects []Subproject   `gorm:"foreignKey:ProjectID" json:"subprojects,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Project) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}
