package logs

import (
	"fmt"
	"strings"
	"time"
)

// storageLayout is fixed width so that lexical order of stored dates is chronological.
const storageLayout = "2006-01-02T15:04:05.000000Z07:00"

var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatDate renders t in the storage layout, normalized to UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(storageLayout)
}

// ParseDate parses an ISO-8601 style date or timestamp. Values without a zone are UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
