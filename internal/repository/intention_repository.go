package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/planwise/engine/internal/models"
	"gorm.io/gorm"
)

type IntentionRepository interface {
	BaseRepository[models.Intention]
	GetWithProjects(ctx context.Context, scope Scope, id uuid.UUID, dest *models.Intention) error
	DeleteCascade(ctx context.Context, scope Scope, id uuid.UUID) error
}

type intentionRepository struct {
	BaseRepository[models.Intention]
	db *gorm.DB
}

func NewIntentionRepository(db *gorm.DB) IntentionRepository {
	return &intentionRepository{BaseRepository: NewBaseRepository[models.Intention](db, "intention"), db: db}
}

func (r *intentionRepository) GetWithProjects(ctx context.Context, scope Scope, id uuid.UUID, dest *models.Intention) error {
	err := r.db.WithContext(ctx).
		Scopes(scope.apply).
		Preload("Projects", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "intention_id", "user_id", "title", "description", "key", "created_at").
				Order("created_at ASC, id ASC")
		}).
		Where("id = ?", id).
		First(dest).Error
	return translate(err, "intention", "get")
}

// DeleteCascade removes an owned intention and everything below it in one transaction.
func (r *intentionRepository) DeleteCascade(ctx context.Context, scope Scope, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var intention models.Intention
		if err := tx.Scopes(scope.apply).Where("id = ?", id).First(&intention).Error; err != nil {
			return translate(err, "intention", "get")
		}

		var projectIDs []uuid.UUID
		if err := tx.Model(&models.Project{}).Where("intention_id = ?", intention.ID).Pluck("id", &projectIDs).Error; err != nil {
			return translate(err, "project", "list")
		}
		if err := deleteProjectTree(tx, projectIDs); err != nil {
			return err
		}

		return translate(tx.Delete(&intention).Error, "intention", "delete")
	})
}
