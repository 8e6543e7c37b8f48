package services

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

// ===== REQUEST DTO ALIASES =====
// Handlers bind and validate these in the validator package; services
// consume them under the same names.

type SubmitExamRequest = validator.SubmitExamRequest
type SubmitAnswerRequest = validator.SubmitAnswerRequest
type SaveGradesRequest = validator.SaveGradesRequest
type EssayGradeRequest = validator.EssayGradeRequest

// ===== RESPONSE DTOS =====

// SubmitExamResponse is returned to the student right after submitting.
type SubmitExamResponse struct {
	SubmissionID uint           `json:"submission_id"`
	Status       string         `json:"status"`
	TotalScore   float64        `json:"total_score"`
	MaxScore     int            `json:"max_score"`
	Grade        string         `json:"grade"`
	Message      string         `json:"message"`
	Results      []AnswerResult `json:"results"`
}

// ExamDurationResponse carries the countdown data for the exam screen.
type ExamDurationResponse struct {
	DurationSeconds  int    `json:"duration_seconds"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
}

// OptionView is a question option as shown to a student taking the
// exam. It never exposes which option is correct.
type OptionView struct {
	ID   uint   `json:"id"`
	Text string `json:"option_text"`
}

// QuestionView is a question as shown to a student taking the exam.
type QuestionView struct {
	ID      uint         `json:"id"`
	Text    string       `json:"question_text"`
	Type    string       `json:"question_type"`
	Marks   int          `json:"marks"`
	Options []OptionView `json:"options,omitempty"`
}

type ExamQuestionsResponse struct {
	ExamID    uint           `json:"exam_id"`
	ExamCode  string         `json:"exam_code"`
	Title     string         `json:"title"`
	Questions []QuestionView `json:"questions"`
}

// ===== GRADING VIEW DTOs =====
// The grading screen is teacher-facing, so correct options are exposed.

type GradingOptionView struct {
	ID        uint   `json:"id"`
	Text      string `json:"option_text"`
	IsCorrect bool   `json:"is_correct"`
}

// GradingAnswerView is the student's answer to one question. MCQ
// answers carry the selected option id and the auto-graded score,
// essays the free text and any manual grade recorded so far.
type GradingAnswerView struct {
	SubmissionAnswerID uint     `json:"submission_answer_id"`
	SelectedOptionID   *uint    `json:"selected_option_id,omitempty"`
	EssayText          *string  `json:"essay_answer,omitempty"`
	Score              *float64 `json:"score"`
	Feedback           *string  `json:"feedback"`
}

type GradingQuestionView struct {
	ID            uint                `json:"id"`
	Text          string              `json:"question_text"`
	Type          string              `json:"question_type"`
	Marks         int                 `json:"marks"`
	Rubric        *string             `json:"rubric,omitempty"`
	Options       []GradingOptionView `json:"options,omitempty"`
	StudentAnswer *GradingAnswerView  `json:"student_answer"`
}

type GradingSubmissionView struct {
	ID              uint    `json:"id"`
	StudentID       uint    `json:"student_id"`
	StudentName     string  `json:"student_name"`
	StudentEmail    string  `json:"student_email"`
	SubmittedAt     string  `json:"submitted_at"`
	CurrentScore    float64 `json:"current_score"`
	ScoreGrade      *string `json:"score_grade"`
	OverallFeedback *string `json:"overall_feedback"`
}

type GradingExamView struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type SubmissionForGradingResponse struct {
	Submission GradingSubmissionView `json:"submission"`
	Exam       GradingExamView       `json:"exam"`
	Questions  []GradingQuestionView `json:"questions"`
}

// SubmissionListOptions narrows and pages the submissions overview.
type SubmissionListOptions struct {
	Status    *models.SubmissionStatus
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// SubmissionListItem is one row in the submissions overview for an exam:
// who submitted, when, and how far grading has progressed.
type SubmissionListItem struct {
	SubmissionID    uint    `json:"submission_id"`
	StudentID       uint    `json:"student_id"`
	StudentName     string  `json:"student_name"`
	StudentEmail    string  `json:"student_email"`
	Status          string  `json:"status"`
	SubmissionDate  string  `json:"submission_date"`
	SubmissionTime  string  `json:"submission_time"`
	Score           float64 `json:"score"`
	ScoreGrade      *string `json:"score_grade"`
	OverallFeedback *string `json:"overall_feedback"`
}

type ExamSubmissionsResponse struct {
	ExamID      uint                 `json:"exam_id"`
	ExamCode    string               `json:"exam_code"`
	Total       int64                `json:"total"`
	Submissions []SubmissionListItem `json:"submissions"`
}

// SaveGradesResponse acknowledges a manual grading save.
type SaveGradesResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// CheckSubmissionResponse answers "has this student already submitted".
type CheckSubmissionResponse struct {
	Submitted bool `json:"submitted"`
}

// ===== SERVICE INTERFACES =====

// TakeExamService covers the student-facing exam flow: availability,
// questions, the countdown, and the submission itself.
type TakeExamService interface {
	SubmitExam(ctx context.Context, req SubmitExamRequest) (*SubmitExamResponse, error)
	ValidateSubmissionTime(ctx context.Context, examCode string) error
	CheckIfStudentSubmitted(ctx context.Context, examCode string, userID uint) (*CheckSubmissionResponse, error)
	GetExamDuration(ctx context.Context, examCode string) (*ExamDurationResponse, error)
	CheckExamAvailability(ctx context.Context, examCode string) (*ExamAvailability, error)
	GetQuestionsByExamCode(ctx context.Context, examCode string) (*ExamQuestionsResponse, error)
}

// GradingService covers the teacher-facing manual grading flow.
type GradingService interface {
	ListSubmissionsByExam(ctx context.Context, examID uint, opts SubmissionListOptions) (*ExamSubmissionsResponse, error)
	GetSubmissionForGrading(ctx context.Context, submissionID uint) (*SubmissionForGradingResponse, error)
	SaveGrades(ctx context.Context, req SaveGradesRequest, gradedBy string) (*SaveGradesResponse, error)
}

// ServiceManager owns service construction and lifecycle.
type ServiceManager interface {
	TakeExam() TakeExamService
	Grading() GradingService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
