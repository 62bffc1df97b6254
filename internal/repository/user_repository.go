package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/planwise/engine/internal/models"
	"gorm.io/gorm"
)

type UserRepository interface {
	BaseRepository[models.User]
	GetByEmail(ctx context.Context, email string, dest *models.User) error
	EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]any, dest *models.User) error
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db, "user"), db: db}
}

// GetByEmail expects an already normalized address.
func (r *userRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(dest).Error; err != nil {
		return translate(err, "user", "get by email")
	}
	return nil
}

// EmailTaken reports whether another user already holds email.
func (r *userRepository) EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, translate(err, "user", "count")
	}
	return n > 0, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]any, dest *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(dest, "id = ?", id).Error; err != nil {
			return translate(err, "user", "get")
		}
		if len(fields) > 0 {
			if err := tx.Model(dest).Updates(fields).Error; err != nil {
				return translate(err, "user", "update profile")
			}
		}
		return translate(tx.First(dest, "id = ?", id).Error, "user", "reload")
	})
}
