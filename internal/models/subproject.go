package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subproject is a named slice of a project's work.
type Subproject struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;index;not null" json:"userId"`
	ProjectID   uuid.UUID      `gorm:"type:uuid;index;not null" json:"projectId"`
	Title       string         `gorm:"type:varchar(150);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Subproject) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
