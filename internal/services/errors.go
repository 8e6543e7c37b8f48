package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks across layers. The typed errors
// below carry the structured fields and render the user-facing message;
// handlers decide the HTTP status from the kind, not the string.
var (
	ErrExamNotFound       = errors.New("exam not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrAlreadySubmitted   = errors.New("exam already submitted")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNoCorrectOption    = errors.New("no correct option set")
	ErrBeforeStart        = errors.New("exam has not started")
	ErrLateSubmission     = errors.New("exam has ended")
)

// ExamNotFoundError reports an unknown exam code.
type ExamNotFoundError struct {
	Code string
}

func (e *ExamNotFoundError) Error() string {
	return fmt.Sprintf("Exam with code '%s' not found", e.Code)
}

func (e *ExamNotFoundError) Unwrap() error { return ErrExamNotFound }

// ExamIDNotFoundError reports an unknown exam id on grading-side lookups,
// which address exams by id rather than by code.
type ExamIDNotFoundError struct {
	ExamID uint
}

func (e *ExamIDNotFoundError) Error() string { return "Exam not found" }

func (e *ExamIDNotFoundError) Unwrap() error { return ErrExamNotFound }

// QuestionNotFoundError reports an answer referencing a question that does
// not belong to the submitted exam.
type QuestionNotFoundError struct {
	QuestionID uint
}

func (e *QuestionNotFoundError) Error() string {
	return fmt.Sprintf("Question %d not found for this exam", e.QuestionID)
}

func (e *QuestionNotFoundError) Unwrap() error { return ErrQuestionNotFound }

// NoCorrectOptionError reports an MCQ with no option flagged correct.
// This is authoring data corruption, not a student mistake.
type NoCorrectOptionError struct {
	QuestionID uint
}

func (e *NoCorrectOptionError) Error() string {
	return fmt.Sprintf("No correct answer set for question %d", e.QuestionID)
}

func (e *NoCorrectOptionError) Unwrap() error { return ErrNoCorrectOption }

// AlreadySubmittedError reports a second submission for the same exam and
// student. Raised both by the pre-check and by the unique constraint.
type AlreadySubmittedError struct {
	ExamCode string
	UserID   uint
}

func (e *AlreadySubmittedError) Error() string {
	return "You have already submitted this exam"
}

func (e *AlreadySubmittedError) Unwrap() error { return ErrAlreadySubmitted }

// BeforeStartError reports a submission attempted before the window opens.
// StartTime is "HH:MM", Date is "YYYY-MM-DD".
type BeforeStartError struct {
	StartTime string
	Date      string
}

func (e *BeforeStartError) Error() string {
	return fmt.Sprintf("Cannot submit exam before start time. Exam starts at %s on %s", e.StartTime, e.Date)
}

func (e *BeforeStartError) Unwrap() error { return ErrBeforeStart }

// LateSubmissionError reports a submission after the window closed.
type LateSubmissionError struct {
	EndTime     string
	MinutesLate int
}

func (e *LateSubmissionError) Error() string {
	return fmt.Sprintf("Submission rejected: The exam ended at %s. You are %d minute(s) late. Late submissions are not accepted.", e.EndTime, e.MinutesLate)
}

func (e *LateSubmissionError) Unwrap() error { return ErrLateSubmission }

// SubmissionNotFoundError reports an unknown submission id in grading.
type SubmissionNotFoundError struct {
	SubmissionID uint
}

func (e *SubmissionNotFoundError) Error() string {
	return "Submission not found"
}

func (e *SubmissionNotFoundError) Unwrap() error { return ErrSubmissionNotFound }

// BusinessRuleError reports a payload that is well-formed but violates a
// domain rule (for example a non-numeric MCQ answer).
type BusinessRuleError struct {
	Rule    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}

func NewBusinessRuleError(rule, message string) *BusinessRuleError {
	return &BusinessRuleError{Rule: rule, Message: message}
}
