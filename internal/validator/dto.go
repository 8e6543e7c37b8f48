package validator

import "encoding/json"

// SubmitAnswerRequest is one answer in a submission payload.
// MCQ answers carry the selected option id, essays the free text.
type SubmitAnswerRequest struct {
	QuestionID uint            `json:"question_id" validate:"required"`
	Answer     json.RawMessage `json:"answer" validate:"required"`
}

// SubmitExamRequest is the exam submission payload.
type SubmitExamRequest struct {
	ExamCode    string                `json:"exam_code" validate:"required,exam_code"`
	UserID      uint                  `json:"user_id" validate:"required"`
	Answers     []SubmitAnswerRequest `json:"answers" validate:"required,min=1,dive"`
	SessionData json.RawMessage       `json:"session_data,omitempty"`
}

// EssayGradeRequest is a manual grade for one essay answer.
type EssayGradeRequest struct {
	SubmissionAnswerID uint    `json:"submission_answer_id" validate:"required"`
	Score              float64 `json:"score" validate:"min=0"`
	Feedback           *string `json:"feedback" validate:"omitempty,max=2000"`
}

// SaveGradesRequest finalizes manual grading for a submission.
type SaveGradesRequest struct {
	SubmissionID    uint                `json:"submission_id" validate:"required"`
	EssayGrades     []EssayGradeRequest `json:"essay_grades" validate:"dive"`
	TotalScore      float64             `json:"total_score" validate:"min=0"`
	ScoreGrade      *string             `json:"score_grade" validate:"omitempty,max=10"`
	OverallFeedback *string             `json:"overall_feedback" validate:"omitempty,max=5000"`
}
