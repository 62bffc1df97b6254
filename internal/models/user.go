package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of account tiers.
type Role string

const (
	RoleFree    Role = "FREE"
	RolePremium Role = "PREMIUM"
	RoleAdmin   Role = "ADMIN"
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleFree, RolePremium, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Profile holds the optional, user-editable account details.
type Profile struct {
	Name     string `gorm:"type:varchar(150)" json:"name"`
	Gender   string `gorm:"type:varchar(32)" json:"gender"`
	Location string `gorm:"type:varchar(150)" json:"location"`
	Website  string `gorm:"type:varchar(255)" json:"website"`
}

// User represents a platform user.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         Role           `gorm:"type:varchar(16);not null;default:FREE" json:"role"`
	Profile      Profile        `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	assignID(&u.ID)
	if u.Role == "" {
		u.Role = RoleFree
	}
	return nil
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
