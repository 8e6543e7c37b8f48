package services

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// SubmissionTimeValidator enforces the exam time window at submission.
type SubmissionTimeValidator struct {
	timeConverter *TimeConverter
}

func NewSubmissionTimeValidator(timeConverter *TimeConverter) *SubmissionTimeValidator {
	return &SubmissionTimeValidator{timeConverter: timeConverter}
}

// WindowFor builds the exam's time window from its stored date and
// clock fields.
func (v *SubmissionTimeValidator) WindowFor(exam *models.Exam) (ExamTimeWindow, error) {
	date, err := v.timeConverter.ParseDate(exam.Date)
	if err != nil {
		return ExamTimeWindow{}, err
	}
	startClock, err := v.timeConverter.ParseTime(exam.StartTime)
	if err != nil {
		return ExamTimeWindow{}, err
	}
	endClock, err := v.timeConverter.ParseTime(exam.EndTime)
	if err != nil {
		return ExamTimeWindow{}, err
	}

	return NewExamTimeWindow(
		v.timeConverter.Combine(date, startClock),
		v.timeConverter.Combine(date, endClock),
	), nil
}

// Validate rejects submissions outside the window. Early attempts get a
// BeforeStartError, late ones a LateSubmissionError with how many whole
// minutes over the deadline they are.
func (v *SubmissionTimeValidator) Validate(exam *models.Exam, now time.Time) error {
	window, err := v.WindowFor(exam)
	if err != nil {
		return err
	}

	if window.IsBeforeStart(now) {
		return &BeforeStartError{
			StartTime: window.Start.Format(shortTimeLayout),
			Date:      window.Start.Format(dateLayout),
		}
	}

	if window.IsAfterEnd(now) {
		return &LateSubmissionError{
			EndTime:     window.End.Format(shortTimeLayout),
			MinutesLate: window.MinutesLate(now),
		}
	}

	return nil
}

// Exam availability statuses returned to the take-exam screen.
const (
	AvailabilityNotStarted = "not_started"
	AvailabilityAvailable  = "available"
	AvailabilityEnded      = "ended"
)

// ExamAvailability tells the client whether the exam can be taken right
// now, with a human readable message for the waiting screen.
type ExamAvailability struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ExamAvailabilityChecker classifies the current moment against the
// exam window without rejecting anything.
type ExamAvailabilityChecker struct {
	validator *SubmissionTimeValidator
}

func NewExamAvailabilityChecker(validator *SubmissionTimeValidator) *ExamAvailabilityChecker {
	return &ExamAvailabilityChecker{validator: validator}
}

func (c *ExamAvailabilityChecker) Check(exam *models.Exam, now time.Time) (ExamAvailability, error) {
	window, err := c.validator.WindowFor(exam)
	if err != nil {
		return ExamAvailability{}, err
	}

	switch {
	case window.IsBeforeStart(now):
		return ExamAvailability{
			Status:  AvailabilityNotStarted,
			Message: fmt.Sprintf("Exam starts at %s on %s.", window.Start.Format(shortTimeLayout), window.Start.Format(dateLayout)),
		}, nil
	case window.IsAfterEnd(now):
		return ExamAvailability{
			Status:  AvailabilityEnded,
			Message: fmt.Sprintf("Exam ended at %s on %s.", window.End.Format(shortTimeLayout), window.End.Format(dateLayout)),
		}, nil
	default:
		return ExamAvailability{
			Status:  AvailabilityAvailable,
			Message: "Exam is open.",
		}, nil
	}
}
