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

type QuestionPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewQuestionPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.Question) error {
	db := q.helpers.getDB(tx)
	return db.WithContext(ctx).Create(question).Error
}

func (q *QuestionPostgreSQL) CreateOption(ctx context.Context, tx *gorm.DB, option *models.QuestionOption) error {
	db := q.helpers.getDB(tx)
	return db.WithContext(ctx).Create(option).Error
}

func (q *QuestionPostgreSQL) GetByIDForExam(ctx context.Context, tx *gorm.DB, questionID, examID uint) (*models.Question, error) {
	db := q.helpers.getDB(tx)
	var question models.Question
	if err := db.WithContext(ctx).
		Where("id = ? AND exam_id = ?", questionID, examID).
		First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) GetByExam(ctx context.Context, tx *gorm.DB, examID uint) ([]*models.Question, error) {
	db := q.helpers.getDB(tx)
	var questions []*models.Question
	if err := db.WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("id").
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_options.id")
		}).
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to get questions for exam: %w", err)
	}
	return questions, nil
}

// GetCorrectOptionID is cached; correct options do not change while an exam
// is live. Transaction-bound repositories have no cache client, so the
// lookup degrades to a direct read there.
func (q *QuestionPostgreSQL) GetCorrectOptionID(ctx context.Context, tx *gorm.DB, questionID uint) (*uint, error) {
	db := q.helpers.getDB(tx)

	cacheKey := fmt.Sprintf("correct:%d", questionID)
	var optionID *uint

	err := q.cacheManager.Question.CacheOrExecute(ctx, cacheKey, &optionID, cache.QuestionCacheConfig.TTL, func() (interface{}, error) {
		return q.correctOptionFromDB(ctx, db, questionID)
	})
	if err != nil {
		return nil, err
	}

	return optionID, nil
}

func (q *QuestionPostgreSQL) correctOptionFromDB(ctx context.Context, db *gorm.DB, questionID uint) (*uint, error) {
	var option models.QuestionOption
	err := db.WithContext(ctx).
		Where("question_id = ? AND is_correct = ?", questionID, true).
		First(&option).Error
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return (*uint)(nil), nil
		}
		return nil, err
	}
	return &option.ID, nil
}
