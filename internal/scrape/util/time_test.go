package util

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2026, 10, 16, 12, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		raw  string
	}{
		{name: "trailing Z", raw: "2026-10-16T12:30:00Z"},
		{name: "explicit offset", raw: "2026-10-16T08:30:00-04:00"},
		{name: "fractional Z", raw: "2026-10-16T12:30:00.000Z"},
		{name: "quoted", raw: `"2026-10-16T12:30:00Z"`},
		{name: "epoch millis", raw: "1792153800000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.raw)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q): %v", tc.raw, err)
			}
			if got == nil {
				t.Fatalf("ParseTimestamp(%q) returned unknown", tc.raw)
			}
			if !got.Equal(want) {
				t.Fatalf("ParseTimestamp(%q) = %s, want %s", tc.raw, got, want)
			}
			if got.Location() != time.UTC {
				t.Fatalf("expected UTC, got %s", got.Location())
			}
		})
	}
}

func TestParseTimestampUnknown(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", `""`, "0"} {
		got, err := ParseTimestamp(raw)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) unexpected error: %v", raw, err)
		}
		if got != nil {
			t.Fatalf("ParseTimestamp(%q) = %s, want unknown", raw, got)
		}
	}
}

func TestParseTimestampMalformed(t *testing.T) {
	for _, raw := range []string{"yesterday", "2026-13-40T00:00:00Z", "16/10/2026"} {
		got, err := ParseTimestamp(raw)
		if !errors.Is(err, ErrBadTimestamp) {
			t.Fatalf("ParseTimestamp(%q) err = %v, want ErrBadTimestamp", raw, err)
		}
		if got != nil {
			t.Fatalf("ParseTimestamp(%q) must be unknown on failure, got %s", raw, got)
		}
	}
}

func TestFromEpochMillis(t *testing.T) {
	if FromEpochMillis(0) != nil || FromEpochMillis(-1) != nil {
		t.Fatalf("non-positive epochs must be unknown")
	}
	got := FromEpochMillis(1000)
	if got == nil || !got.Equal(time.Unix(1, 0)) {
		t.Fatalf("unexpected time %v", got)
	}
}
