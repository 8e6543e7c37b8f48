package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewSubmissionPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// Create relies on the unique index over (exam_id, user_id); a second insert
// for the same pair surfaces as a duplicate-key error.
func (s *SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	db := s.helpers.getDB(tx)
	return db.WithContext(ctx).Create(submission).Error
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	db := s.helpers.getDB(tx)
	var submission models.Submission
	if err := db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error) {
	db := s.helpers.getDB(tx)
	var submission models.Submission
	if err := db.WithContext(ctx).
		Preload("User").
		Preload("Exam").
		Preload("Answers").
		Preload("Answers.MCQ").
		Preload("Answers.Essay").
		First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, examID, userID uint) (bool, error) {
	db := s.helpers.getDB(tx)

	// The exists flag is cached only when true; a false answer must always
	// be re-checked so a fresh submission is seen immediately.
	cacheKey := fmt.Sprintf("submission:%d:%d", examID, userID)
	if found, err := s.cacheManager.Exists.Exists(ctx, cacheKey); err == nil && found {
		return true, nil
	}

	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("exam_id = ? AND user_id = ?", examID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}

	if count > 0 {
		_ = s.cacheManager.Exists.Set(ctx, cacheKey, true, cache.ExistsCacheConfig.TTL)
	}

	return count > 0, nil
}

func (s *SubmissionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	db := s.helpers.getDB(tx)
	var submissions []*models.Submission
	var total int64

	query := db.WithContext(ctx).Model(&models.Submission{})
	query = s.helpers.ApplySubmissionFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = s.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	if err := query.Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (s *SubmissionPostgreSQL) UpdateFinal(ctx context.Context, tx *gorm.DB, id uint, score float64, status models.SubmissionStatus, grade string) error {
	db := s.helpers.getDB(tx)
	return db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"score":       score,
			"status":      status,
			"score_grade": grade,
		}).Error
}

func (s *SubmissionPostgreSQL) UpdateGrades(ctx context.Context, tx *gorm.DB, id uint, score float64, grade *string, overallFeedback *string) error {
	db := s.helpers.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           models.SubmissionGraded,
			"score":            score,
			"score_grade":      grade,
			"overall_feedback": overallFeedback,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
