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

type ExamPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewExamPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ExamRepository {
	return &ExamPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (e *ExamPostgreSQL) Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	db := e.helpers.getDB(tx)
	return db.WithContext(ctx).Create(exam).Error
}

func (e *ExamPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error) {
	db := e.helpers.getDB(tx)
	var exam models.Exam
	if err := db.WithContext(ctx).First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

// GetByCode is on the hot path of every take-exam request; the record is
// cached because a scheduled exam does not change mid-window. Repositories
// bound to a transaction are built without a cache client, so their reads
// go straight to the database.
func (e *ExamPostgreSQL) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Exam, error) {
	db := e.helpers.getDB(tx)

	cacheKey := fmt.Sprintf("code:%s", code)
	var exam models.Exam

	err := e.cacheManager.Exam.CacheOrExecute(ctx, cacheKey, &exam, cache.ExamCacheConfig.TTL, func() (interface{}, error) {
		return e.getByCodeFromDB(ctx, db, code)
	})
	if err != nil {
		return nil, err
	}

	return &exam, nil
}

func (e *ExamPostgreSQL) getByCodeFromDB(ctx context.Context, db *gorm.DB, code string) (*models.Exam, error) {
	var exam models.Exam
	if err := db.WithContext(ctx).Where("exam_code = ?", code).First(&exam).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}
