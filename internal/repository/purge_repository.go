package repository

import (
	"context"
	"time"

	"github.com/planwise/engine/internal/models"
	"gorm.io/gorm"
)

// PurgeRepository hard-deletes rows that were soft-deleted before a cutoff.
type PurgeRepository interface {
	Purge(ctx context.Context, before time.Time) (map[string]int64, error)
}

type purgeRepository struct {
	db *gorm.DB
}

func NewPurgeRepository(db *gorm.DB) PurgeRepository {
	return &purgeRepository{db: db}
}

// Purge walks children before parents. Every table is attempted; the
// first error is returned.
func (r *purgeRepository) Purge(ctx context.Context, before time.Time) (map[string]int64, error) {
	tables := []struct {
		name  string
		model any
	}{
		{"issues", &models.Issue{}},
		{"subprojects", &models.Subproject{}},
		{"projects", &models.Project{}},
		{"intentions", &models.Intention{}},
	}

	counts := make(map[string]int64, len(tables))
	var firstErr error
	for _, t := range tables {
		res := r.db.WithContext(ctx).Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at <= ?", before).
			Delete(t.model)
		if res.Error != nil {
			if firstErr == nil {
				firstErr = translate(res.Error, t.name, "purge")
			}
			continue
		}
		counts[t.name] = res.RowsAffected
	}
	return counts, firstErr
}
