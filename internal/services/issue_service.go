package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/planwise/engine/internal/models"
	"github.com/planwise/engine/internal/repository"
	appErr "github.com/planwise/engine/pkg/errors"
	"github.com/planwise/engine/pkg/logger"
	"go.uber.org/zap"
)

type IssueService interface {
	Create(ctx context.Context, userID uuid.UUID, input *IssueInput) (*models.Issue, error)
	List(ctx context.Context, userID, projectID uuid.UUID, q repository.PageQuery) (*repository.Page[models.Issue], error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Issue, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch *IssuePatch) (*models.Issue, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// IssueInput leaves zero values to the model defaults (task, open, medium).
type IssueInput struct {
	ProjectID      uuid.UUID
	Title          string
	Description    string
	Type           models.IssueType
	Status         models.IssueStatus
	Priority       models.IssuePriority
	EstimationTime float64
	RemainingTime  float64
	AssigneeID     *uuid.UUID
}

type IssuePatch struct {
	Title          *string
	Description    *string
	Type           *models.IssueType
	Status         *models.IssueStatus
	Priority       *models.IssuePriority
	EstimationTime *float64
	RemainingTime  *float64
	AssigneeID     *uuid.UUID
}

// ReasonAssigneeNotFound marks an assignee id with no matching user.
const ReasonAssigneeNotFound = "assignee_not_found"

type issueService struct {
	projects repository.ProjectRepository
	issues   repository.IssueRepository
	users    repository.UserRepository
}

func NewIssueService(projects repository.ProjectRepository, issues repository.IssueRepository, users repository.UserRepository) IssueService {
	return &issueService{projects: projects, issues: issues, users: users}
}

var _ IssueService = (*issueService)(nil)

// ensureAssignee checks that a client-chosen assignee is an existing user.
func (s *issueService) ensureAssignee(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	var u models.User
	err := s.users.GetByID(ctx, *id, &u)
	if appErr.IsCode(err, appErr.CodeNotFound) {
		return appErr.Wrap(err, appErr.CodeNotFound, "Assignee not found").
			WithMeta("field", "assignee").
			WithMeta("reason", ReasonAssigneeNotFound)
	}
	return err
}

func (s *issueService) Create(ctx context.Context, userID uuid.UUID, input *IssueInput) (*models.Issue, error) {
	var parent models.Project
	if err := s.projects.FindOwned(ctx, repository.OwnedBy(userID), input.ProjectID, &parent); err != nil {
		return nil, err
	}

	if err := s.ensureAssignee(ctx, input.AssigneeID); err != nil {
		return nil, err
	}
	assignee := input.AssigneeID
	if assignee == nil {
		assignee = &userID
	}
	i := &models.Issue{
		UserID:         userID,
		ProjectID:      parent.ID,
		Title:          input.Title,
		Description:    input.Description,
		ReporterID:     userID,
		AssigneeID:     assignee,
		Type:           input.Type,
		Status:         input.Status,
		Priority:       input.Priority,
		EstimationTime: input.EstimationTime,
		RemainingTime:  input.RemainingTime,
	}
	if err := s.issues.CreateWithKey(ctx, i); err != nil {
		return nil, err
	}

	logger.L().Info("issue created", zap.String("issue_id", i.ID.String()), zap.String("key", i.Key), zap.String("user_id", userID.String()))
	return i, nil
}

func (s *issueService) List(ctx context.Context, userID, projectID uuid.UUID, q repository.PageQuery) (*repository.Page[models.Issue], error) {
	return s.issues.Paginate(ctx, repository.OwnedBy(userID).Under("project_id", projectID), q)
}

func (s *issueService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Issue, error) {
	var i models.Issue
	if err := s.issues.FindOwned(ctx, repository.OwnedBy(userID), id, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *issueService) Update(ctx context.Context, userID, id uuid.UUID, patch *IssuePatch) (*models.Issue, error) {
	if err := s.ensureAssignee(ctx, patch.AssigneeID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	set(fields, "title", patch.Title)
	set(fields, "description", patch.Description)
	set(fields, "type", patch.Type)
	set(fields, "status", patch.Status)
	set(fields, "priority", patch.Priority)
	set(fields, "estimation_time", patch.EstimationTime)
	set(fields, "remaining_time", patch.RemainingTime)
	set(fields, "assignee_id", patch.AssigneeID)

	var i models.Issue
	if err := s.issues.UpdateOwned(ctx, repository.OwnedBy(userID), id, fields, &i); err != nil {
		return nil, err
	}
	logger.L().Info("issue updated", zap.String("issue_id", id.String()), zap.String("user_id", userID.String()))
	return &i, nil
}

func (s *issueService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.issues.DeleteOwned(ctx, repository.OwnedBy(userID), id); err != nil {
		return err
	}
	logger.L().Info("issue deleted", zap.String("issue_id", id.String()), zap.String("user_id", userID.String()))
	return nil
}
