package repository

import (
	"github.com/planwise/engine/internal/models"
	"gorm.io/gorm"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Intention{},
		&models.Project{},
		&models.Subproject{},
		&models.Issue{},
	}
}

// Migrate brings the schema up to date. It is safe to run repeatedly.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}
	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		addListingIndexes,
	}

	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}
	return nil
}

// addListingIndexes backs the owner + parent + creation-order listings.
func addListingIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_intentions_user_created ON intentions(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_intention_created ON projects(intention_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_subprojects_project_created ON subprojects(project_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_issues_project_created ON issues(project_id, created_at)`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
