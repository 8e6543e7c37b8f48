package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// All methods take an optional tx so callers can compose them inside a
// transaction; a nil tx uses the repository's own connection.

type ExamRepository interface {
	Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Exam, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *models.Question) error
	CreateOption(ctx context.Context, tx *gorm.DB, option *models.QuestionOption) error

	// GetByIDForExam returns the question only if it belongs to the exam.
	GetByIDForExam(ctx context.Context, tx *gorm.DB, questionID, examID uint) (*models.Question, error)
	GetByExam(ctx context.Context, tx *gorm.DB, examID uint) ([]*models.Question, error)

	// GetCorrectOptionID returns nil when no option is flagged correct.
	GetCorrectOptionID(ctx context.Context, tx *gorm.DB, questionID uint) (*uint, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.Submission, error)
	Exists(ctx context.Context, tx *gorm.DB, examID, userID uint) (bool, error)
	List(ctx context.Context, tx *gorm.DB, filters SubmissionFilters) ([]*models.Submission, int64, error)

	// UpdateFinal records the auto-grading outcome at submit time.
	UpdateFinal(ctx context.Context, tx *gorm.DB, id uint, score float64, status models.SubmissionStatus, grade string) error

	// UpdateGrades records the manual grading outcome.
	UpdateGrades(ctx context.Context, tx *gorm.DB, id uint, score float64, grade *string, overallFeedback *string) error
}

type SubmissionAnswerRepository interface {
	Create(ctx context.Context, tx *gorm.DB, answer *models.SubmissionAnswer) error
	CreateMCQ(ctx context.Context, tx *gorm.DB, answer *models.MCQAnswer) error
	CreateEssay(ctx context.Context, tx *gorm.DB, answer *models.EssayAnswer) error

	UpdateGrade(ctx context.Context, tx *gorm.DB, id uint, score float64, feedback *string) error
	SumScores(ctx context.Context, tx *gorm.DB, submissionID uint) (float64, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
}

// ===== SHARED FILTER STRUCTS =====

type SubmissionFilters struct {
	Status    *models.SubmissionStatus `json:"status"`
	ExamID    *uint                    `json:"exam_id"`
	UserID    *uint                    `json:"user_id"`
	Limit     int                      `json:"limit"`
	Offset    int                      `json:"offset"`
	SortBy    string                   `json:"sort_by"`    // "created_at", "score"
	SortOrder string                   `json:"sort_order"` // "asc", "desc"
}
