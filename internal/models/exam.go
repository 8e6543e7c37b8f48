package models

import (
	"time"
)

type QuestionType string

const (
	QuestionMCQ   QuestionType = "mcq"
	QuestionEssay QuestionType = "essay"
)

// Exam schedule fields are kept as the authoring tool stores them:
// Date as "YYYY-MM-DD", StartTime/EndTime as "HH:MM:SS" wall-clock strings.
// The services layer combines them into a timezone-aware window.
type Exam struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Code  string `json:"exam_code" gorm:"column:exam_code;uniqueIndex;not null;size:50"`
	Title string `json:"title" gorm:"not null;size:255"`

	// Schedule
	Date            string `json:"date" gorm:"not null;size:10"`
	StartTime       string `json:"start_time" gorm:"not null;size:8"`
	EndTime         string `json:"end_time" gorm:"not null;size:8"`
	DurationMinutes int    `json:"duration" gorm:"column:duration"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:ExamID"`
}

func (Exam) TableName() string {
	return "exams"
}

type Question struct {
	ID     uint         `json:"id" gorm:"primaryKey"`
	ExamID uint         `json:"exam_id" gorm:"not null;index"`
	Text   string       `json:"question_text" gorm:"column:question_text;type:text;not null"`
	Type   QuestionType `json:"question_type" gorm:"column:question_type;not null;size:20"`
	Marks  int          `json:"marks" gorm:"not null"`
	Rubric *string      `json:"rubric" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Exam    Exam             `json:"-" gorm:"foreignKey:ExamID"`
	Options []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string {
	return "questions"
}

type QuestionOption struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"option_text" gorm:"column:option_text;type:text;not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`

	// Relations
	Question Question `json:"-" gorm:"foreignKey:QuestionID"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}
