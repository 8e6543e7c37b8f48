package services

import (
	"fmt"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05"
	shortTimeLayout = "15:04"
)

// TimeConverter parses exam wall-clock fields and anchors them in the
// configured fixed-offset timezone. The clock is injectable for tests.
type TimeConverter struct {
	location *time.Location
	now      func() time.Time
}

// NewTimeConverter builds a converter for the given offset east of UTC in
// seconds (+08:00 is 28800).
func NewTimeConverter(offsetSeconds int) *TimeConverter {
	sign := "+"
	abs := offsetSeconds
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	name := fmt.Sprintf("%s%02d:%02d", sign, abs/3600, (abs%3600)/60)

	return &TimeConverter{
		location: time.FixedZone(name, offsetSeconds),
		now:      time.Now,
	}
}

// WithClock returns a copy using the given clock. Test helper.
func (tc *TimeConverter) WithClock(now func() time.Time) *TimeConverter {
	return &TimeConverter{location: tc.location, now: now}
}

// ParseDate parses a "YYYY-MM-DD" exam date.
func (tc *TimeConverter) ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, tc.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid exam date %q: %w", value, err)
	}
	return t, nil
}

// ParseTime parses a "HH:MM:SS" or "HH:MM" exam time.
func (tc *TimeConverter) ParseTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, value, tc.location)
	if err != nil {
		t, err = time.ParseInLocation(shortTimeLayout, value, tc.location)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid exam time %q: %w", value, err)
		}
	}
	return t, nil
}

// Combine merges a parsed date and a parsed clock time into one instant
// in the exam timezone.
func (tc *TimeConverter) Combine(date, clock time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0,
		tc.location,
	)
}

// Now returns the current time in the exam timezone.
func (tc *TimeConverter) Now() time.Time {
	return tc.now().In(tc.location)
}

// Location returns the exam timezone.
func (tc *TimeConverter) Location() *time.Location {
	return tc.location
}
