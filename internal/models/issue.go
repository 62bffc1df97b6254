package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IssueType classifies the work an issue tracks.
type IssueType string

const (
	IssueTypeTask        IssueType = "task"
	IssueTypeFeature     IssueType = "feature"
	IssueTypeImprovement IssueType = "improvement"
	IssueTypeBug         IssueType = "bug"
)

// IssueStatus is the workflow state of an issue.
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "open"
	IssueStatusReopened   IssueStatus = "reopened"
	IssueStatusSelected   IssueStatus = "selected"
	IssueStatusInProgress IssueStatus = "inprogress"
	IssueStatusDone       IssueStatus = "done"
	IssueStatusCanceled   IssueStatus = "canceled"
	IssueStatusDeleted    IssueStatus = "deleted"
)

// IssuePriority is ordinal: 1 is lowest, 5 is highest.
type IssuePriority int

const (
	PriorityLowest  IssuePriority = 1
	PriorityLow     IssuePriority = 2
	PriorityMedium  IssuePriority = 3
	PriorityHigh    IssuePriority = 4
	PriorityHighest IssuePriority = 5
)

// Issue is a unit of work inside a project, keyed "<PROJECT_KEY>-<N>".
type Issue struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;index;not null" json:"userId"`
	ProjectID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_issues_project_key,where:deleted_at IS NULL" json:"projectId"`
	Key            string         `gorm:"type:varchar(32);not null;uniqueIndex:idx_issues_project_key,where:deleted_at IS NULL" json:"key"`
	Title          string         `gorm:"type:varchar(150);not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	ReporterID     uuid.UUID      `gorm:"type:uuid;not null" json:"reporter"`
	AssigneeID     *uuid.UUID     `gorm:"type:uuid;index" json:"assignee,omitempty"`
	Type           IssueType      `gorm:"type:varchar(16);not null;default:task" json:"type"`
	Status         IssueStatus    `gorm:"type:varchar(16);not null;default:open;index" json:"status"`
	Priority       IssuePriority  `gorm:"not null;default:3" json:"priority"`
	EstimationTime float64        `gorm:"not null;default:0" json:"estimationTime"`
	RemainingTime  float64        `gorm:"not null;default:0" json:"remainingTime"`
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (i *Issue) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	if i.Type == "" {
		i.Type = IssueTypeTask
	}
	if i.Status == "" {
		i.Status = IssueStatusOpen
	}
	if i.Priority == 0 {
		i.Priority = PriorityMedium
	}
	return nil
}
