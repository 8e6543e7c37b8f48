package services

import (
	"errors"
	"testing"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

func testExam() *models.Exam {
	return &models.Exam{
		ID:        1,
		Code:      "MATH101",
		Title:     "Algebra Midterm",
		Date:      "2025-03-10",
		StartTime: "09:00:00",
		EndTime:   "11:00:00",
	}
}

func TestSubmissionTimeValidator_Validate(t *testing.T) {
	validator := NewSubmissionTimeValidator(NewTimeConverter(8 * 3600))
	exam := testExam()

	tests := []struct {
		name    string
		current string
		wantErr error
	}{
		{"just before start rejected", "2025-03-10 08:59:59", ErrBeforeStart},
		{"exactly at start accepted", "2025-03-10 09:00:00", nil},
		{"mid window accepted", "2025-03-10 10:15:00", nil},
		{"exactly at end accepted", "2025-03-10 11:00:00", nil},
		{"just after end rejected", "2025-03-10 11:00:01", ErrLateSubmission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(exam, at(t, tt.current))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate returned %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate returned %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmissionTimeValidator_BeforeStartMessage(t *testing.T) {
	validator := NewSubmissionTimeValidator(NewTimeConverter(8 * 3600))

	err := validator.Validate(testExam(), at(t, "2025-03-10 07:30:00"))

	var beforeStart *BeforeStartError
	if !errors.As(err, &beforeStart) {
		t.Fatalf("expected BeforeStartError, got %v", err)
	}

	want := "Cannot submit exam before start time. Exam starts at 09:00 on 2025-03-10"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestSubmissionTimeValidator_LateMessage(t *testing.T) {
	validator := NewSubmissionTimeValidator(NewTimeConverter(8 * 3600))

	err := validator.Validate(testExam(), at(t, "2025-03-10 11:07:30"))

	var late *LateSubmissionError
	if !errors.As(err, &late) {
		t.Fatalf("expected LateSubmissionError, got %v", err)
	}
	if late.MinutesLate != 7 {
		t.Errorf("MinutesLate = %d, want 7", late.MinutesLate)
	}

	want := "Submission rejected: The exam ended at 11:00. You are 7 minute(s) late. Late submissions are not accepted."
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestSubmissionTimeValidator_InvalidSchedule(t *testing.T) {
	validator := NewSubmissionTimeValidator(NewTimeConverter(8 * 3600))
	exam := testExam()
	exam.Date = "10/03/2025"

	if err := validator.Validate(exam, at(t, "2025-03-10 10:00:00")); err == nil {
		t.Fatal("expected error for malformed exam date")
	}
}

func TestExamAvailabilityChecker_Check(t *testing.T) {
	checker := NewExamAvailabilityChecker(NewSubmissionTimeValidator(NewTimeConverter(8 * 3600)))
	exam := testExam()

	tests := []struct {
		name        string
		current     string
		wantStatus  string
		wantMessage string
	}{
		{"before start", "2025-03-10 08:00:00", AvailabilityNotStarted, "Exam starts at 09:00 on 2025-03-10."},
		{"open at start", "2025-03-10 09:00:00", AvailabilityAvailable, "Exam is open."},
		{"open at end", "2025-03-10 11:00:00", AvailabilityAvailable, "Exam is open."},
		{"ended", "2025-03-10 11:30:00", AvailabilityEnded, "Exam ended at 11:00 on 2025-03-10."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.Check(exam, at(t, tt.current))
			if err != nil {
				t.Fatalf("Check returned error: %v", err)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}
