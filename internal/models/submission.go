package models

import (
	"time"

	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "pending"
	SubmissionGraded  SubmissionStatus = "graded"
)

// GradePending is stored as the letter grade while essays await manual review.
const GradePending = "Pending"

type Submission struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	ExamID uint `json:"exam_id" gorm:"not null;index;uniqueIndex:idx_exam_user_submission"`
	UserID uint `json:"user_id" gorm:"not null;index;uniqueIndex:idx_exam_user_submission"`

	// Wall-clock submission moment in the exam timezone
	SubmissionDate string `json:"submission_date" gorm:"size:10"`
	SubmissionTime string `json:"submission_time" gorm:"size:8"`

	Status          SubmissionStatus `json:"status" gorm:"default:pending;index"`
	Score           float64          `json:"score"`
	ScoreGrade      *string          `json:"score_grade" gorm:"size:10"`
	OverallFeedback *string          `json:"overall_feedback" gorm:"type:text"`

	// Client metadata captured at submit time (browser, screen, etc.)
	SessionData datatypes.JSON `json:"session_data" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Exam    Exam               `json:"-" gorm:"foreignKey:ExamID"`
	User    User               `json:"-" gorm:"foreignKey:UserID"`
	Answers []SubmissionAnswer `json:"answers,omitempty" gorm:"foreignKey:SubmissionID"`
}

func (Submission) TableName() string {
	return "submissions"
}

type SubmissionAnswer struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	SubmissionID uint `json:"submission_id" gorm:"not null;index"`
	QuestionID   uint `json:"question_id" gorm:"not null;index"`

	SelectedOptionID *uint    `json:"selected_option_id"`
	Score            *float64 `json:"score"` // nil until graded (essays)
	Feedback         *string  `json:"feedback" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Submission Submission   `json:"-" gorm:"foreignKey:SubmissionID"`
	Question   Question     `json:"-" gorm:"foreignKey:QuestionID"`
	MCQ        *MCQAnswer   `json:"mcq_answer,omitempty" gorm:"foreignKey:SubmissionAnswerID"`
	Essay      *EssayAnswer `json:"essay_answer,omitempty" gorm:"foreignKey:SubmissionAnswerID"`
}

func (SubmissionAnswer) TableName() string {
	return "submission_answers"
}

// MCQAnswer and EssayAnswer are write-once child rows of SubmissionAnswer.
type MCQAnswer struct {
	ID                 uint `json:"id" gorm:"primaryKey"`
	SubmissionAnswerID uint `json:"submission_answer_id" gorm:"not null;index"`
	SelectedOptionID   uint `json:"selected_option_id" gorm:"not null"`
}

func (MCQAnswer) TableName() string {
	return "mcq_answers"
}

type EssayAnswer struct {
	ID                 uint   `json:"id" gorm:"primaryKey"`
	SubmissionAnswerID uint   `json:"submission_answer_id" gorm:"not null;index"`
	EssayText          string `json:"essay_answer" gorm:"column:essay_answer;type:text;not null"`
}

func (EssayAnswer) TableName() string {
	return "essay_answers"
}
