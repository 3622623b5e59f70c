package models

import (
	"errors"
	"strings"
	"time"
)

const DateInputLayout = "2006-01-02"

var ErrEmptyTime = errors.New("empty time value")

// ParseStoredTime reads the time formats found in persisted data: RFC 3339
// instants (with or without fractional seconds) and bare YYYY-MM-DD dates.
// A bare date is read as noon UTC of that day.
func ParseStoredTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrEmptyTime
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}

	day, err := time.Parse(DateInputLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC), nil
}

func formatStoredTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
