package repository

import (
	"github.com/planwise/engine/internal/models"
	"gorm.io/gorm"
)

type SubprojectRepository interface {
	BaseRepository[models.Subproject]
}

func NewSubprojectRepository(db *gorm.DB) SubprojectRepository {
	return NewBaseRepository[models.Subproject](db, "subproject")
}
