package scrape

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"jobradar/internal/config"
	"jobradar/internal/domain"
	"jobradar/internal/scrape/util"
)

// Reasons reported by Filter.Keep.
const (
	ReasonMalformed     = "malformed"
	ReasonTitleExcluded = "title_excluded"
	ReasonTitleNoMatch  = "title_no_match"
	ReasonLocation      = "location"
	ReasonTooOld        = "too_old"
	ReasonPostedUnknown = "posted_unknown"
)

// stateSuffix matches a segment ending in a comma-delimited two-letter code,
// optionally followed by a parenthetical and an explicit US country
// ("austin, tx", "new york, ny, united states", "denver, co (hybrid)").
// Group 1 is what precedes the code, group 2 the code itself.
var stateSuffix = regexp.MustCompile(`^(.*?),\s*([a-z]{2})(?:\s*\([^)]*\))?(?:\s*,\s*(?:us|usa|united states(?: of america)?))?\s*$`)

// regionCode matches a trailing two-letter code on the text before a
// segment's last code; "toronto, on, ca" ends in a region plus a country.
var regionCode = regexp.MustCompile(`,\s*[a-z]{2}\s*$`)

// bareRemoteWords may surround "remote" without qualifying it.
var bareRemoteWords = map[string]bool{
	"remote": true, "anywhere": true, "fully": true, "100": true, "only": true, "work": true, "from": true, "home": true,
}

var usStates = map[string]bool{
	"al": true, "ak": true, "az": true, "ar": true, "ca": true, "co": true, "ct": true, "de": true,
	"fl": true, "ga": true, "hi": true, "id": true, "il": true, "in": true, "ia": true, "ks": true,
	"ky": true, "la": true, "me": true, "md": true, "ma": true, "mi": true, "mn": true, "ms": true,
	"mo": true, "mt": true, "ne": true, "nv": true, "nh": true, "nj": true, "nm": true, "ny": true,
	"nc": true, "nd": true, "oh": true, "ok": true, "or": true, "pa": true, "ri": true, "sc": true,
	"sd": true, "tn": true, "tx": true, "ut": true, "vt": true, "va": true, "wa": true, "wv": true,
	"wi": true, "wy": true, "dc": true, "pr": true,
}

// Filter is the rule-based accept/reject stage. All three predicates
// (title, geography, recency) must pass.
type Filter struct {
	cfg config.Filters
	now func() time.Time
}

// NewFilter expects cfg to have gone through config.NormalizeAndValidate.
func NewFilter(cfg config.Filters, now func() time.Time) *Filter {
	if now == nil {
		now = time.Now
	}
	return &Filter{cfg: cfg, now: now}
}

// Keep reports whether j passes every predicate, and if not, why.
func (f *Filter) Keep(j domain.Job) (keep bool, reason string) {
	if !j.Valid() {
		return false, ReasonMalformed
	}
	if ok, why := f.MatchTitle(j.Title); !ok {
		return false, why
	}
	if !f.MatchLocation(j.Location) {
		return false, ReasonLocation
	}
	if ok, why := f.MatchRecency(j.Source, j.PostedAt); !ok {
		return false, why
	}
	return true, ""
}

// MatchTitle applies exclusion first; a title carrying both an inclusion
// and an exclusion term is rejected. Matching is substring containment on
// the lowercased title padded with one space on each side.
func (f *Filter) MatchTitle(title string) (bool, string) {
	t := " " + util.NormalizeTitle(title) + " "
	if containsAny(t, f.cfg.Exclude) {
		return false, ReasonTitleExcluded
	}
	if !containsAny(t, f.cfg.Include) {
		return false, ReasonTitleNoMatch
	}
	return true, ""
}

// MatchLocation accepts US-indicating locations. A bare "remote" is
// governed by filters.geography.bare_remote; remote with a non-US
// qualifier is rejected under either policy.
func (f *Filter) MatchLocation(location string) bool {
	loc := util.NormalizeLocation(location)
	if loc == "" {
		return false
	}
	geo := f.cfg.Geography
	if containsAny(loc, geo.USTerms) {
		return true
	}
	if geo.StateSuffix && hasStateSuffix(loc) {
		return true
	}
	return geo.BareRemote == config.PolicyAccept && isBareRemote(loc)
}

// hasStateSuffix checks each location segment ("austin, tx; remote" has
// two) for a trailing US state or territory code.
func hasStateSuffix(loc string) bool {
	segs := strings.FieldsFunc(loc, func(r rune) bool {
		return r == ';' || r == '|' || r == '/' || r == '•'
	})
	for _, seg := range segs {
		m := stateSuffix.FindStringSubmatch(strings.TrimSpace(seg))
		if m == nil || !usStates[m[2]] {
			continue
		}
		if regionCode.MatchString(m[1]) {
			continue
		}
		return true
	}
	return false
}

// isBareRemote reports a location that says remote and nothing about where:
// "remote", "Remote - Anywhere", "100% remote". "Remote - Germany" is not.
func isBareRemote(loc string) bool {
	words := strings.FieldsFunc(loc, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	remote := false
	for _, w := range words {
		if !bareRemoteWords[w] {
			return false
		}
		remote = remote || w == "remote"
	}
	return remote
}

// MatchRecency accepts postings at or after now-window. Unknown timestamps
// follow the per-source policy, then filters.recency.unknown_posted_at.
func (f *Filter) MatchRecency(src domain.Source, posted *time.Time) (bool, string) {
	rc := f.cfg.Recency
	if posted == nil {
		if f.unknownPolicy(src) == config.PolicyPass {
			return true, ""
		}
		return false, ReasonPostedUnknown
	}
	if rc.WindowHours <= 0 {
		return true, ""
	}
	cutoff := f.now().UTC().Add(-rc.Window())
	if posted.Before(cutoff) {
		return false, ReasonTooOld
	}
	return true, ""
}

func (f *Filter) unknownPolicy(src domain.Source) string {
	if p, ok := f.cfg.Recency.UnknownBySource[src.Key()]; ok && p != "" {
		return p
	}
	return f.cfg.Recency.UnknownPostedAt
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
