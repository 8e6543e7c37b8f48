package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "exam-service"
	EventVersion = "1.0"
)

// Event types published by this service
const (
	EventSubmissionSubmitted = "submission.submitted"
	EventSubmissionGraded    = "submission.graded"
)

// Event is the envelope for all published events.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with identity and timing filled in.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// SubmissionSubmittedEvent is published after a submission transaction commits.
type SubmissionSubmittedEvent struct {
	SubmissionID uint    `json:"submission_id"`
	ExamID       uint    `json:"exam_id"`
	ExamCode     string  `json:"exam_code"`
	UserID       uint    `json:"user_id"`
	Status       string  `json:"status"`
	TotalScore   float64 `json:"total_score"`
	MaxScore     int     `json:"max_score"`
	Grade        string  `json:"grade"`
}

// SubmissionGradedEvent is published when manual grading completes.
type SubmissionGradedEvent struct {
	SubmissionID uint    `json:"submission_id"`
	TotalScore   float64 `json:"total_score"`
	Grade        *string `json:"grade"`
	GradedBy     string  `json:"graded_by"`
}
