package repository

import (
	"github.com/google/uuid"
	"github.com/planwise/engine/internal/models"
	"gorm.io/gorm"
)

// deleteProjectTree soft-deletes the given projects together with their
// subprojects and issues. It must run inside tx.
func deleteProjectTree(tx *gorm.DB, projectIDs []uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Issue{}).Error; err != nil {
		return translate(err, "issue", "cascade delete")
	}
	if err := tx.Where("project_id IN ?", projectIDs).Delete(&models.Subproject{}).Error; err != nil {
		return translate(err, "subproject", "cascade delete")
	}
	if err := tx.Where("id IN ?", projectIDs).Delete(&models.Project{}).Error; err != nil {
		return translate(err, "project", "cascade delete")
	}
	return nil
}
