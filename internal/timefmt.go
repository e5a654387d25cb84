package internal

import "time"

// DateTimeLayout is the wall-clock format used in response payloads.
const DateTimeLayout = "2006-01-02 15:04:05"

func FormatTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

func FormatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateTimeLayout)
	return &s
}
