package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/planwise/engine/internal/models"
	"github.com/planwise/engine/internal/repository"
	"github.com/planwise/engine/pkg/logger"
	"go.uber.org/zap"
)

type SubprojectService interface {
	Create(ctx context.Context, userID uuid.UUID, input *SubprojectInput) (*models.Subproject, error)
	List(ctx context.Context, userID, projectID uuid.UUID, q repository.PageQuery) (*repository.Page[models.Subproject], error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Subproject, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch *SubprojectPatch) (*models.Subproject, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type SubprojectInput struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
}

type SubprojectPatch struct {
	Title       *string
	Description *string
}

type subprojectService struct {
	projects    repository.ProjectRepository
	subprojects repository.SubprojectRepository
}

func NewSubprojectService(projects repository.ProjectRepository, subprojects repository.SubprojectRepository) SubprojectService {
	return &subprojectService{projects: projects, subprojects: subprojects}
}

var _ SubprojectService = (*subprojectService)(nil)

func (s *subprojectService) Create(ctx context.Context, userID uuid.UUID, input *SubprojectInput) (*models.Subproject, error) {
	var parent models.Project
	if err := s.projects.FindOwned(ctx, repository.OwnedBy(userID), input.ProjectID, &parent); err != nil {
		return nil, err
	}

	sp := &models.Subproject{UserID: userID, ProjectID: parent.ID, Title: input.Title, Description: input.Description}
	if err := s.subprojects.Create(ctx, sp); err != nil {
		return nil, err
	}
	logger.L().Info("subproject created", zap.String("subproject_id", sp.ID.String()), zap.String("user_id", userID.String()))
	return sp, nil
}

func (s *subprojectService) List(ctx context.Context, userID, projectID uuid.UUID, q repository.PageQuery) (*repository.Page[models.Subproject], error) {
	return s.subprojects.Paginate(ctx, repository.OwnedBy(userID).Under("project_id", projectID), q)
}

func (s *subprojectService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Subproject, error) {
	var sp models.Subproject
	if err := s.subprojects.FindOwned(ctx, repository.OwnedBy(userID), id, &sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

func (s *subprojectService) Update(ctx context.Context, userID, id uuid.UUID, patch *SubprojectPatch) (*models.Subproject, error) {
	fields := map[string]any{}
	set(fields, "title", patch.Title)
	set(fields, "description", patch.Description)

	var sp models.Subproject
	if err := s.subprojects.UpdateOwned(ctx, repository.OwnedBy(userID), id, fields, &sp); err != nil {
		return nil, err
	}
	return &sp, nil
}

func (s *subprojectService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.subprojects.DeleteOwned(ctx, repository.OwnedBy(userID), id); err != nil {
		return err
	}
	logger.L().Info("subproject deleted", zap.String("subproject_id", id.String()), zap.String("user_id", userID.String()))
	return nil
}
