package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/planwise/engine/internal/models"
	"github.com/planwise/engine/internal/repository"
	"github.com/planwise/engine/pkg/logger"
	"go.uber.org/zap"
)

type IntentionService interface {
	Create(ctx context.Context, userID uuid.UUID, input *IntentionInput) (*models.Intention, error)
	List(ctx context.Context, userID uuid.UUID, q repository.PageQuery) (*repository.Page[models.Intention], error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Intention, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch *IntentionPatch) (*models.Intention, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type IntentionInput struct {
	Title       string
	Description string
}

type IntentionPatch struct {
	Title       *string
	Description *string
}

type intentionService struct {
	intentions repository.IntentionRepository
	queue      Enqueuer
}

func NewIntentionService(intentions repository.IntentionRepository, queue Enqueuer) IntentionService {
	return &intentionService{intentions: intentions, queue: queue}
}

var _ IntentionService = (*intentionService)(nil)

func (s *intentionService) Create(ctx context.Context, userID uuid.UUID, input *IntentionInput) (*models.Intention, error) {
	i := &models.Intention{UserID: userID, Title: input.Title, Description: input.Description}
	if err := s.intentions.Create(ctx, i); err != nil {
		return nil, err
	}
	logger.L().Info("intention created", zap.String("intention_id", i.ID.String()), zap.String("user_id", userID.String()))
	return i, nil
}

func (s *intentionService) List(ctx context.Context, userID uuid.UUID, q repository.PageQuery) (*repository.Page[models.Intention], error) {
	return s.intentions.Paginate(ctx, repository.OwnedBy(userID), q)
}

func (s *intentionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Intention, error) {
	var i models.Intention
	if err := s.intentions.GetWithProjects(ctx, repository.OwnedBy(userID), id, &i); err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *intentionService) Update(ctx context.Context, userID, id uuid.UUID, patch *IntentionPatch) (*models.Intention, error) {
	fields := map[string]any{}
	set(fields, "title", patch.Title)
	set(fields, "description", patch.Description)

	var i models.Intention
	if err := s.intentions.UpdateOwned(ctx, repository.OwnedBy(userID), id, fields, &i); err != nil {
		return nil, err
	}
	logger.L().Info("intention updated", zap.String("intention_id", id.String()), zap.String("user_id", userID.String()))
	return &i, nil
}

func (s *intentionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.intentions.DeleteCascade(ctx, repository.OwnedBy(userID), id); err != nil {
		return err
	}
	logger.L().Info("intention deleted", zap.String("intention_id", id.String()), zap.String("user_id", userID.String()))
	enqueuePurge(ctx, s.queue, "intention deleted", id)
	return nil
}
