package model

import (
	"fmt"
	"time"
)

// Exchange layouts. Dates and timestamps cross every boundary as strings in
// these layouts and are kept as time.Time internally.
const (
	DateLayout      = "02-01-2006"
	TimestampLayout = "02-01-2006 15:04"
)

// ParseDate parses a DD-MM-YYYY date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q, want DD-MM-YYYY", ErrInvalidTimestamp, s)
	}
	return t, nil
}

// FormatDate formats t as DD-MM-YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseTimestamp parses a DD-MM-YYYY HH:MM timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q, want DD-MM-YYYY HH:MM", ErrInvalidTimestamp, s)
	}
	return t, nil
}

// FormatTimestamp formats t as DD-MM-YYYY HH:MM.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
