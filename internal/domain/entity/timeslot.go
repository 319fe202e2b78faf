package entity

import (
	"fmt"
	"time"
)

// Wire formats for calendar dates and times of day
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// MinutesOfDay parses a time-of-day string into minutes since midnight.
// Clients send "15:04"; TIME columns scan back as "15:04:05", so both
// layouts are accepted.
func MinutesOfDay(s string) (int, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatMinutes renders minutes since midnight as a "15:04" string
func FormatMinutes(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// IntervalsOverlap applies the closed-open overlap test to two [start, end)
// intervals in minutes since midnight. Adjacent intervals (one ending exactly
// where the other starts) do not overlap.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}
