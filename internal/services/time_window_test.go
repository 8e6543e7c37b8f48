package services

import (
	"testing"
	"time"
)

func mustWindow(t *testing.T, start, end string) ExamTimeWindow {
	t.Helper()

	tc := NewTimeConverter(8 * 3600)
	startTime, err := time.ParseInLocation("2006-01-02 15:04:05", start, tc.Location())
	if err != nil {
		t.Fatalf("failed to parse start %q: %v", start, err)
	}
	endTime, err := time.ParseInLocation("2006-01-02 15:04:05", end, tc.Location())
	if err != nil {
		t.Fatalf("failed to parse end %q: %v", end, err)
	}
	return NewExamTimeWindow(startTime, endTime)
}

func at(t *testing.T, value string) time.Time {
	t.Helper()

	tc := NewTimeConverter(8 * 3600)
	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", value, tc.Location())
	if err != nil {
		t.Fatalf("failed to parse time %q: %v", value, err)
	}
	return parsed
}

func TestExamTimeWindow_Boundaries(t *testing.T) {
	window := mustWindow(t, "2025-03-10 09:00:00", "2025-03-10 11:00:00")

	tests := []struct {
		name        string
		current     string
		beforeStart bool
		afterEnd    bool
		within      bool
	}{
		{"one second before start", "2025-03-10 08:59:59", true, false, false},
		{"exactly at start", "2025-03-10 09:00:00", false, false, true},
		{"mid window", "2025-03-10 10:00:00", false, false, true},
		{"one second before end", "2025-03-10 10:59:59", false, false, true},
		{"exactly at end is on time", "2025-03-10 11:00:00", false, false, true},
		{"one second after end", "2025-03-10 11:00:01", false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := at(t, tt.current)
			if got := window.IsBeforeStart(current); got != tt.beforeStart {
				t.Errorf("IsBeforeStart = %v, want %v", got, tt.beforeStart)
			}
			if got := window.IsAfterEnd(current); got != tt.afterEnd {
				t.Errorf("IsAfterEnd = %v, want %v", got, tt.afterEnd)
			}
			if got := window.IsWithinWindow(current); got != tt.within {
				t.Errorf("IsWithinWindow = %v, want %v", got, tt.within)
			}
		})
	}
}

func TestExamTimeWindow_RemainingSeconds(t *testing.T) {
	window := mustWindow(t, "2025-03-10 09:00:00", "2025-03-10 11:00:00")

	tests := []struct {
		name    string
		current string
		want    int
	}{
		{"full window remaining at start", "2025-03-10 09:00:00", 7200},
		{"half remaining", "2025-03-10 10:00:00", 3600},
		{"zero at end", "2025-03-10 11:00:00", 0},
		{"clamped after end", "2025-03-10 11:30:00", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := window.RemainingSeconds(at(t, tt.current)); got != tt.want {
				t.Errorf("RemainingSeconds = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExamTimeWindow_MinutesLate(t *testing.T) {
	window := mustWindow(t, "2025-03-10 09:00:00", "2025-03-10 11:00:00")

	tests := []struct {
		name    string
		current string
		want    int
	}{
		{"on time is never late", "2025-03-10 10:00:00", 0},
		{"exactly at end is not late", "2025-03-10 11:00:00", 0},
		{"partial minute floors to zero", "2025-03-10 11:00:59", 0},
		{"one minute late", "2025-03-10 11:01:00", 1},
		{"five and a half minutes floors to five", "2025-03-10 11:05:30", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := window.MinutesLate(at(t, tt.current)); got != tt.want {
				t.Errorf("MinutesLate = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExamTimeWindow_DurationSeconds(t *testing.T) {
	window := mustWindow(t, "2025-03-10 09:00:00", "2025-03-10 10:30:00")
	if got := window.DurationSeconds(); got != 5400 {
		t.Errorf("DurationSeconds = %d, want 5400", got)
	}
}
