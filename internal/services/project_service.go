package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/planwise/engine/internal/models"
	"github.com/planwise/engine/internal/repository"
	appErr "github.com/planwise/engine/pkg/errors"
	"github.com/planwise/engine/pkg/logger"
	"github.com/planwise/engine/pkg/utils"
	"go.uber.org/zap"
)

type ProjectService interface {
	Create(ctx context.Context, userID uuid.UUID, input *ProjectInput) (*models.Project, error)
	List(ctx context.Context, userID, intentionID uuid.UUID, q repository.PageQuery) (*repository.Page[models.Project], error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch *ProjectPatch) (*models.Project, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type ProjectInput struct {
	IntentionID uuid.UUID
	Title       string
	Subtitle    string
	Description string
	Key         string
}

type ProjectPatch struct {
	Title       *string
	Subtitle    *string
	Description *string
	Key         *string
}

type projectService struct {
	intentions repository.IntentionRepository
	projects   repository.ProjectRepository
	queue      Enqueuer
}

func NewProjectService(intentions repository.IntentionRepository, projects repository.ProjectRepository, queue Enqueuer) ProjectService {
	return &projectService{intentions: intentions, projects: projects, queue: queue}
}

var _ ProjectService = (*projectService)(nil)

func keyExists() *appErr.AppError {
	return appErr.New(appErr.CodeConflict, "Project key already exists").
		WithMeta("field", "key").
		WithMeta("reason", ReasonKeyExists)
}

func (s *projectService) ensureKeyFree(ctx context.Context, key string, except uuid.UUID) error {
	exists, err := s.projects.KeyExists(ctx, key, except)
	if err != nil {
		return err
	}
	if exists {
		return keyExists()
	}
	return nil
}

func (s *projectService) Create(ctx context.Context, userID uuid.UUID, input *ProjectInput) (*models.Project, error) {
	var parent models.Intention
	if err := s.intentions.FindOwned(ctx, repository.OwnedBy(userID), input.IntentionID, &parent); err != nil {
		return nil, err
	}

	key := utils.NormalizeKey(input.Key)
	if err := s.ensureKeyFree(ctx, key, uuid.Nil); err != nil {
		return nil, err
	}

	p := &models.Project{
		UserID:      userID,
		IntentionID: parent.ID,
		Title:       input.Title,
		Subtitle:    input.Subtitle,
		Description: input.Description,
		Key:         key,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		if appErr.IsCode(err, appErr.CodeAlreadyExists) {
			return nil, keyExists()
		}
		return nil, err
	}

	logger.L().Info("project created", zap.String("project_id", p.ID.String()), zap.String("key", p.Key), zap.String("user_id", userID.String()))
	return p, nil
}

func (s *projectService) List(ctx context.Context, userID, intentionID uuid.UUID, q repository.PageQuery) (*repository.Page[models.Project], error) {
	return s.projects.Paginate(ctx, repository.OwnedBy(userID).Under("intention_id", intentionID), q)
}

func (s *projectService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := s.projects.GetWithSubprojects(ctx, repository.OwnedBy(userID), id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *projectService) Update(ctx context.Context, userID, id uuid.UUID, patch *ProjectPatch) (*models.Project, error) {
	fields := map[string]any{}
	set(fields, "title", patch.Title)
	set(fields, "subtitle", patch.Subtitle)
	set(fields, "description", patch.Description)
	if patch.Key != nil {
		key := utils.NormalizeKey(*patch.Key)
		if err := s.ensureKeyFree(ctx, key, id); err != nil {
			return nil, err
		}
		fields["key"] = key
	}

	var p models.Project
	if err := s.projects.UpdateOwned(ctx, repository.OwnedBy(userID), id, fields, &p); err != nil {
		if appErr.IsCode(err, appErr.CodeAlreadyExists) {
			return nil, keyExists()
		}
		return nil, err
	}
	logger.L().Info("project updated", zap.String("project_id", id.String()), zap.String("user_id", userID.String()))
	return &p, nil
}

func (s *projectService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.projects.DeleteCascade(ctx, repository.OwnedBy(userID), id); err != nil {
		return err
	}
	logger.L().Info("project deleted", zap.String("project_id", id.String()), zap.String("user_id", userID.String()))
	enqueuePurge(ctx, s.queue, "project deleted", id)
	return nil
}
