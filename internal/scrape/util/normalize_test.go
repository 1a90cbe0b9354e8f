package util

import "testing"

func TestNormalizeLocation(t *testing.T) {
	cases := map[string]string{
		"  Remote -\tUS ":            "remote - us",
		"San Francisco,\n  CA":       "san francisco, ca",
		"New\u00a0York, NY":          "new york, ny",
		"":                           "",
		"UNITED   STATES (Remote)  ": "united states (remote)",
	}
	for in, want := range cases {
		if got := NormalizeLocation(in); got != want {
			t.Fatalf("NormalizeLocation(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := Truncate("hello", 0); got != "hello" {
		t.Fatalf("max <= 0 must leave input untouched, got %q", got)
	}
	if got := Truncate("hi", 10); got != "hi" {
		t.Fatalf("short input must be unchanged, got %q", got)
	}
}

func TestFirstNonEmptyAndNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "a", "b"); got != "a" {
		t.Fatalf("FirstNonEmpty = %q", got)
	}
	got := NonEmpty(" a ", "", "b")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("NonEmpty = %v", got)
	}
}
