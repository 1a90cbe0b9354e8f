package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Err folds the errors into one error, nil when valid.
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return fmt.Errorf("config validation failed:\n- %s", strings.Join(v.Errors, "\n- "))
}

// NormalizeAndValidate returns a normalized copy of cfg: term lists are
// lowercased and de-duplicated, policies lowercased. Terms keep their
// surrounding spaces because the title filter matches on a space-padded
// title.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	terms := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			if strings.TrimSpace(x) == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, key)
		}
		return ys
	}

	out.Filters.Include = terms(out.Filters.Include)
	out.Filters.Exclude = terms(out.Filters.Exclude)
	out.Filters.Geography.USTerms = terms(out.Filters.Geography.USTerms)
	out.Filters.Geography.BareRemote = strings.ToLower(strings.TrimSpace(out.Filters.Geography.BareRemote))
	out.Filters.Recency.UnknownPostedAt = strings.ToLower(strings.TrimSpace(out.Filters.Recency.UnknownPostedAt))

	bySource := make(map[string]string, len(out.Filters.Recency.UnknownBySource))
	for k, v := range out.Filters.Recency.UnknownBySource {
		bySource[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}
	out.Filters.Recency.UnknownBySource = bySource

	out.Scoring.Provider = strings.ToLower(strings.TrimSpace(out.Scoring.Provider))
	out.Sources.Registry = strings.ToLower(strings.TrimSpace(out.Sources.Registry))
	out.Notify.Kind = strings.ToLower(strings.TrimSpace(out.Notify.Kind))

	// ---- Validation rules ----

	if len(out.Filters.Include) == 0 {
		res.addErr("filters.include must have at least 1 term")
	}
	for _, inc := range out.Filters.Include {
		for _, exc := range out.Filters.Exclude {
			if strings.Contains(inc, strings.TrimSpace(exc)) {
				res.addWarn("include term %q contains exclude term %q and can never match", inc, exc)
			}
		}
	}

	switch out.Filters.Geography.BareRemote {
	case PolicyReject, PolicyAccept:
	default:
		res.addErr("filters.geography.bare_remote must be %q or %q", PolicyReject, PolicyAccept)
	}
	if len(out.Filters.Geography.USTerms) == 0 && !out.Filters.Geography.StateSuffix {
		res.addWarn("no us_terms and state_suffix off; only bare remote locations can pass")
	}

	checkUnknown := func(name, v string) {
		if v != PolicyReject && v != PolicyPass {
			res.addErr("%s must be %q or %q, got %q", name, PolicyReject, PolicyPass, v)
		}
	}
	checkUnknown("filters.recency.unknown_posted_at", out.Filters.Recency.UnknownPostedAt)
	for src, v := range out.Filters.Recency.UnknownBySource {
		checkUnknown("filters.recency.unknown_by_source."+src, v)
	}
	if out.Filters.Recency.WindowHours < 0 {
		res.addErr("filters.recency.window_hours must be >= 0")
	} else if out.Filters.Recency.WindowHours == 0 {
		res.addWarn("filters.recency.window_hours is 0; recency filter disabled")
	}

	switch out.Scoring.Provider {
	case "gemini", "openai":
	default:
		res.addErr("scoring.provider must be gemini or openai, got %q", out.Scoring.Provider)
	}
	if out.Scoring.TimeoutSeconds <= 0 {
		res.addErr("scoring.timeout_seconds must be > 0")
	}
	if out.Scoring.DelayMS < 0 {
		res.addErr("scoring.delay_ms must be >= 0")
	}
	if out.Scoring.MaxJobs <= 0 {
		res.addErr("scoring.max_jobs must be > 0")
	} else if out.Scoring.MaxJobs > 100 {
		res.addWarn("scoring.max_jobs is %d; every job is one model call", out.Scoring.MaxJobs)
	}
	if out.Scoring.FallbackScore < 0 || out.Scoring.FallbackScore > 100 {
		res.addErr("scoring.fallback_score must be 0..100")
	}
	if out.Scoring.BinaryFitScore < 0 || out.Scoring.BinaryFitScore > 100 {
		res.addErr("scoring.binary_fit_score must be 0..100")
	}

	checkRules := func(name string, rules []Rule) {
		for i, r := range rules {
			if r.Tag == "" {
				res.addErr("%s[%d].tag is required", name, i)
			}
			if len(r.Any) == 0 {
				res.addErr("%s[%d].any must have at least 1 term", name, i)
			}
		}
	}
	checkRules("scoring.priority_rules", out.Scoring.PriorityRules)
	for i, p := range out.Scoring.Penalties {
		if p.Reason == "" {
			res.addErr("scoring.penalties[%d].reason is required", i)
		}
		if len(p.Any) == 0 {
			res.addErr("scoring.penalties[%d].any must have at least 1 term", i)
		}
	}

	if out.Digest.MinScore < 0 || out.Digest.MinScore > 100 {
		res.addErr("digest.min_score must be 0..100")
	}
	if out.Digest.MaxEntries <= 0 {
		res.addErr("digest.max_entries must be > 0")
	}

	switch out.Sources.Registry {
	case RegistryConfig:
	case RegistrySQLite:
		if strings.TrimSpace(out.Sources.RegistryDB) == "" {
			res.addErr("sources.registry_db is required when sources.registry=sqlite")
		}
	default:
		res.addErr("sources.registry must be %q or %q", RegistryConfig, RegistrySQLite)
	}
	if out.Sources.TimeoutSeconds <= 0 {
		res.addErr("sources.timeout_seconds must be > 0")
	}
	if out.Sources.Workers <= 0 {
		res.addErr("sources.workers must be > 0")
	}
	if !out.Sources.Greenhouse.Enabled && !out.Sources.Lever.Enabled &&
		!out.Sources.SmartRecruiters.Enabled && !out.Sources.Careers.Enabled {
		res.addWarn("no sources enabled; every run will report 0 matches")
	}

	switch out.Notify.Kind {
	case "log":
	case "smtp":
		if out.Notify.SMTP.Host == "" || out.Notify.SMTP.Port == 0 {
			res.addErr("notify.smtp.host and notify.smtp.port are required when notify.kind=smtp")
		}
	case "gmail":
		if out.Notify.Gmail.CredentialsFile == "" || out.Notify.Gmail.TokenFile == "" {
			res.addErr("notify.gmail.credentials_file and token_file are required when notify.kind=gmail")
		}
	case "imap":
		if out.Notify.IMAP.Addr == "" || out.Notify.IMAP.Username == "" {
			res.addErr("notify.imap.addr and notify.imap.username are required when notify.kind=imap")
		}
	default:
		res.addErr("notify.kind must be smtp, gmail, imap or log, got %q", out.Notify.Kind)
	}
	if out.Notify.Kind != "log" && len(out.Notify.To) == 0 {
		res.addErr("notify.to must list at least 1 recipient")
	}

	if out.Run.DeadlineSeconds < 0 {
		res.addErr("run.deadline_seconds must be >= 0")
	}

	return out, res
}
