package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/planwise/engine/internal/models"
)

type APIResponse struct {
	Success bool         `json:"success"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *APIError    `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type Meta struct {
	RequestID string `json:"request_id,omitempty"`
}

// LoginResponse is returned flat, without the data envelope.
type LoginResponse struct {
	Success     bool           `json:"success"`
	Profile     models.Profile `json:"profile"`
	Role        models.Role    `json:"role"`
	Email       string         `json:"email"`
	AccessToken string         `json:"accessToken"`
	ExpiresAt   time.Time      `json:"expiresAt"`
}

type SignupData struct {
	Email string      `json:"email"`
	Type  models.Role `json:"type"`
	Role  models.Role `json:"role"`
}

type ProfileData struct {
	ID      uuid.UUID      `json:"id"`
	Email   string         `json:"email"`
	Role    models.Role    `json:"role"`
	Profile models.Profile `json:"profile"`
}

func NewProfileData(u *models.User) ProfileData {
	return ProfileData{ID: u.ID, Email: u.Email, Role: u.Role, Profile: u.Profile}
}

// Created records echo the id plus what the client sent.

type IntentionCreated struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

type ProjectCreated struct {
	ID          uuid.UUID `json:"id"`
	IntentionID uuid.UUID `json:"intentionId"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	Key         string    `json:"key"`
}

type SubprojectCreated struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"projectId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

type IssueCreated struct {
	ID          uuid.UUID            `json:"id"`
	ProjectID   uuid.UUID            `json:"projectId"`
	Key         string               `json:"key"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Type        models.IssueType     `json:"type"`
	Status      models.IssueStatus   `json:"status"`
	Priority    models.IssuePriority `json:"priority"`
}
