// Package digest ranks scored jobs and renders the plain-text report.
package digest

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"text/template"
	"time"

	"jobradar/internal/config"
	"jobradar/internal/domain"
)

type Variant string

const (
	VariantEmpty       Variant = "empty"
	VariantBelowCutoff Variant = "below_cutoff"
	VariantHits        Variant = "hits"
)

// Stats is the run summary printed in the footer.
type Stats struct {
	RunID         string
	Fetched       int
	Kept          int
	Scored        int
	FailedSources []string
}

// Entry is one rendered line group. Rank is 1-based within its section.
type Entry struct {
	Rank     int
	Score    int
	Source   string
	Company  string
	Title    string
	Location string
	URL      string
	Reason   string
	Skills   []string
	Fallback bool
}

type Digest struct {
	Variant Variant
	Subject string
	Body    string

	// Entries are the displayed candidates: hits for VariantHits, the
	// closest misses for VariantBelowCutoff.
	Entries []Entry
	// Unscored are fallback-scored jobs not already shown in Entries.
	Unscored []Entry
	Stats    Stats
}

//go:embed digest.tmpl
var digestRaw string

var digestTemplate = template.Must(template.New("digest").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(digestRaw))

const (
	DefaultMinScore   = 60
	DefaultMaxEntries = 10
)

type Builder struct {
	minScore   int
	maxEntries int
	now        func() time.Time
}

func NewBuilder(cfg config.Digest, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	return &Builder{minScore: cfg.MinScore, maxEntries: cfg.MaxEntries, now: now}
}

// Rank orders scored jobs by score, highest first. Equal scores keep
// arrival order (Seq).
func Rank(scored []domain.Scored) []domain.Scored {
	out := slices.Clone(scored)
	slices.SortStableFunc(out, func(a, b domain.Scored) int {
		if a.Result.Score != b.Result.Score {
			return b.Result.Score - a.Result.Score
		}
		return a.Seq - b.Seq
	})
	return out
}

// Build picks the variant, fills the entries and renders subject and body.
func (b *Builder) Build(scored []domain.Scored, st Stats) Digest {
	runAt := b.now().UTC()
	ranked := Rank(scored)

	d := Digest{Stats: st}
	if d.Stats.Scored == 0 {
		d.Stats.Scored = len(scored)
	}

	var shown []domain.Scored
	switch {
	case len(ranked) == 0:
		d.Variant = VariantEmpty
	case ranked[0].Result.Score < b.minScore:
		d.Variant = VariantBelowCutoff
		shown = capN(ranked, b.maxEntries)
	default:
		d.Variant = VariantHits
		for _, s := range ranked {
			if s.Result.Score < b.minScore {
				break
			}
			shown = append(shown, s)
		}
		shown = capN(shown, b.maxEntries)
	}

	d.Entries = toEntries(shown)

	inShown := make(map[int]bool, len(shown))
	for _, s := range shown {
		inShown[s.Seq] = true
	}
	var unscored []domain.Scored
	for _, s := range ranked {
		if s.Result.Fallback && !inShown[s.Seq] {
			unscored = append(unscored, s)
		}
	}
	d.Unscored = toEntries(unscored)

	d.Subject = b.subject(d.Variant, len(d.Entries), runAt)
	d.Body = b.render(d, runAt)
	return d
}

func (b *Builder) subject(v Variant, n int, runAt time.Time) string {
	stamp := runAt.Format("2006-01-02 15:04 UTC")
	switch v {
	case VariantEmpty:
		return fmt.Sprintf("Job Radar: no matching postings (%s)", stamp)
	case VariantBelowCutoff:
		return fmt.Sprintf("Job Radar: nothing above %d (%s)", b.minScore, stamp)
	default:
		return fmt.Sprintf("Job Radar: %d role(s) worth applying to (%s)", n, stamp)
	}
}

type bodyData struct {
	Variant  Variant
	RunAt    string
	MinScore int
	Entries  []Entry
	Unscored []Entry
	Stats    Stats
}

func (b *Builder) render(d Digest, runAt time.Time) string {
	var sb strings.Builder
	err := digestTemplate.ExecuteTemplate(&sb, "body", bodyData{
		Variant:  d.Variant,
		RunAt:    runAt.Format(time.RFC3339),
		MinScore: b.minScore,
		Entries:  d.Entries,
		Unscored: d.Unscored,
		Stats:    d.Stats,
	})
	if err != nil {
		return fmt.Sprintf("digest rendering failed: %v\n", err)
	}
	return sb.String()
}

func capN(in []domain.Scored, n int) []domain.Scored {
	if n > 0 && len(in) > n {
		return in[:n]
	}
	return in
}

func toEntries(in []domain.Scored) []Entry {
	out := make([]Entry, 0, len(in))
	for i, s := range in {
		out = append(out, Entry{
			Rank:     i + 1,
			Score:    s.Result.Score,
			Source:   string(s.Job.Source),
			Company:  s.Job.Company,
			Title:    s.Job.Title,
			Location: s.Job.Location,
			URL:      s.Job.URL,
			Reason:   s.Result.Reason,
			Skills:   s.Result.Skills,
			Fallback: s.Result.Fallback,
		})
	}
	return out
}
