package domain

import (
	"strings"
	"time"
)

// Source identifies the adapter family that produced a Job.
type Source string

const (
	SourceGreenhouse      Source = "Greenhouse"
	SourceLever           Source = "Lever"
	SourceSmartRecruiters Source = "SmartRecruiters"
	SourceCareers         Source = "Careers"
)

// Key is the lowercase form used in config maps (unknown_by_source etc).
func (s Source) Key() string { return strings.ToLower(string(s)) }

// ScoringMode tells the scorer what kind of judgment a record needs.
type ScoringMode string

const (
	// ModeNumeric asks for a 0-100 fit score on a structured posting.
	ModeNumeric ScoringMode = "numeric"
	// ModeBinary asks for a yes/no fit judgment on raw page text.
	ModeBinary ScoringMode = "binary"
)

// Job is one normalized posting. Jobs are passed by value and never
// modified once an adapter has built them.
type Job struct {
	Source      Source
	Company     string
	Title       string
	Location    string
	URL         string
	PostedAt    *time.Time // UTC; nil = unknown
	Description string
	Mode        ScoringMode
}

// Valid reports whether the record carries the fields a digest line needs.
func (j Job) Valid() bool {
	return strings.TrimSpace(j.Title) != "" && strings.TrimSpace(j.URL) != ""
}

// ScoreResult is the relevance scorer's verdict for one Job.
type ScoreResult struct {
	Score    int
	Reason   string
	Skills   []string
	Fallback bool // scoring failed and a default was substituted
}

// Scored pairs a Job with its result. Seq is the arrival position and
// breaks ties when ranking.
type Scored struct {
	Seq    int
	Job    Job
	Result ScoreResult
}
