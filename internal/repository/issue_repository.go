package repository

import (
	"context"
	"fmt"

	"github.com/planwise/engine/internal/models"
	appErr "github.com/planwise/engine/pkg/errors"
	"gorm.io/gorm"
)

type IssueRepository interface {
	BaseRepository[models.Issue]
	CreateWithKey(ctx context.Context, issue *models.Issue) error
}

type issueRepository struct {
	BaseRepository[models.Issue]
	db *gorm.DB
}

func NewIssueRepository(db *gorm.DB) IssueRepository {
	return &issueRepository{BaseRepository: NewBaseRepository[models.Issue](db, "issue"), db: db}
}

// CreateWithKey bumps the parent project's issue sequence and inserts the
// issue as "<KEY>-<N>" in the same transaction. The UPDATE takes the row
// lock, so concurrent creations under one project get distinct numbers.
func (r *issueRepository) CreateWithKey(ctx context.Context, issue *models.Issue) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).
			Where("id = ?", issue.ProjectID).
			UpdateColumn("issue_seq", gorm.Expr("issue_seq + 1"))
		if res.Error != nil {
			return translate(res.Error, "project", "bump issue sequence")
		}
		if res.RowsAffected == 0 {
			return appErr.NotFound("project not found")
		}

		var project models.Project
		if err := tx.Select("id", "key", "issue_seq").Where("id = ?", issue.ProjectID).First(&project).Error; err != nil {
			return translate(err, "project", "get")
		}

		issue.Key = fmt.Sprintf("%s-%d", project.Key, project.IssueSeq)
		return translate(tx.Create(issue).Error, "issue", "create")
	})
}
