package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadTimestamp marks a provider timestamp that could not be parsed.
// Callers treat it as "unknown", never as fatal.
var ErrBadTimestamp = errors.New("unparsable timestamp")

// ParseTimestamp accepts RFC 3339 with or without a trailing "Z", or a
// millisecond epoch. Empty input means unknown and is not an error.
func ParseTimestamp(raw string) (*time.Time, error) {
	s := strings.Trim(strings.TrimSpace(raw), `"`)
	if s == "" || s == "null" {
		return nil, nil
	}

	if isDigits(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrBadTimestamp, raw, err)
		}
		return FromEpochMillis(ms), nil
	}

	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadTimestamp, raw)
	}
	t = t.UTC()
	return &t, nil
}

// FromEpochMillis converts a millisecond epoch; zero or negative is unknown.
func FromEpochMillis(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
