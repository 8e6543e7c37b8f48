package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

type SubmissionAnswerPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewSubmissionAnswerPostgreSQL(db *gorm.DB) repositories.SubmissionAnswerRepository {
	return &SubmissionAnswerPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (a *SubmissionAnswerPostgreSQL) Create(ctx context.Context, tx *gorm.DB, answer *models.SubmissionAnswer) error {
	db := a.helpers.getDB(tx)
	return db.WithContext(ctx).Create(answer).Error
}

func (a *SubmissionAnswerPostgreSQL) CreateMCQ(ctx context.Context, tx *gorm.DB, answer *models.MCQAnswer) error {
	db := a.helpers.getDB(tx)
	return db.WithContext(ctx).Create(answer).Error
}

func (a *SubmissionAnswerPostgreSQL) CreateEssay(ctx context.Context, tx *gorm.DB, answer *models.EssayAnswer) error {
	db := a.helpers.getDB(tx)
	return db.WithContext(ctx).Create(answer).Error
}

func (a *SubmissionAnswerPostgreSQL) UpdateGrade(ctx context.Context, tx *gorm.DB, id uint, score float64, feedback *string) error {
	db := a.helpers.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.SubmissionAnswer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"score":    score,
			"feedback": feedback,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (a *SubmissionAnswerPostgreSQL) SumScores(ctx context.Context, tx *gorm.DB, submissionID uint) (float64, error) {
	db := a.helpers.getDB(tx)
	var total float64
	err := db.WithContext(ctx).
		Model(&models.SubmissionAnswer{}).
		Where("submission_id = ?", submissionID).
		Select("COALESCE(SUM(score), 0)").
		Scan(&total).Error
	return total, err
}
