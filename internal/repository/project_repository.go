package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/planwise/engine/internal/models"
	"gorm.io/gorm"
)

type ProjectRepository interface {
	BaseRepository[models.Project]
	KeyExists(ctx context.Context, key string, except uuid.UUID) (bool, error)
	GetWithSubprojects(ctx context.Context, scope Scope, id uuid.UUID, dest *models.Project) error
	DeleteCascade(ctx context.Context, scope Scope, id uuid.UUID) error
}

type projectRepository struct {
	BaseRepository[models.Project]
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.Project](db, "project"), db: db}
}

// KeyExists checks live projects of every owner, since keys are global.
func (r *projectRepository) KeyExists(ctx context.Context, key string, except uuid.UUID) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Project{}).Where("key = ?", key)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, translate(err, "project", "count")
	}
	return n > 0, nil
}

func (r *projectRepository) GetWithSubprojects(ctx context.Context, scope Scope, id uuid.UUID, dest *models.Project) error {
	err := r.db.WithContext(ctx).
		Scopes(scope.apply).
		Preload("Subprojects", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", id).
		First(dest).Error
	return translate(err, "project", "get")
}

func (r *projectRepository) DeleteCascade(ctx context.Context, scope Scope, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Scopes(scope.apply).Where("id = ?", id).First(&project).Error; err != nil {
			return translate(err, "project", "get")
		}
		return deleteProjectTree(tx, []uuid.UUID{project.ID})
	})
}
