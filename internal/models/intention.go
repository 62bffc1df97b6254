package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Intention is the top-level planning goal owned by a user.
type Intention struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;index;not null" json:"userId"`
	Title       string         `gorm:"type:varchar(150);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Projects    []Project      `gorm:"foreignKey:IntentionID" json:"projects,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *Intention) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	return nil
}
