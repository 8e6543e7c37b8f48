package services

import "time"

// ExamTimeWindow is the immutable [Start, End] window of one exam sitting.
// The end boundary is inclusive: a submission at exactly End is on time.
type ExamTimeWindow struct {
	Start time.Time
	End   time.Time
}

func NewExamTimeWindow(start, end time.Time) ExamTimeWindow {
	return ExamTimeWindow{Start: start, End: end}
}

func (w ExamTimeWindow) IsBeforeStart(current time.Time) bool {
	return current.Before(w.Start)
}

func (w ExamTimeWindow) IsAfterEnd(current time.Time) bool {
	return current.After(w.End)
}

func (w ExamTimeWindow) IsWithinWindow(current time.Time) bool {
	return !current.Before(w.Start) && !current.After(w.End)
}

func (w ExamTimeWindow) DurationSeconds() int {
	return int(w.End.Sub(w.Start).Seconds())
}

// RemainingSeconds never goes negative once the window has closed.
func (w ExamTimeWindow) RemainingSeconds(current time.Time) int {
	remaining := int(w.End.Sub(current).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// MinutesLate floors partial minutes: 59 seconds late is 0 minutes late.
func (w ExamTimeWindow) MinutesLate(current time.Time) int {
	if !current.After(w.End) {
		return 0
	}
	return int(current.Sub(w.End).Minutes())
}
