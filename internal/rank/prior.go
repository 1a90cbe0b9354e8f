package rank

import (
	"sort"
	"strings"

	"jobradar/internal/config"
	"jobradar/internal/domain"
)

// Prior is the cheap keyword score used to decide which filtered jobs are
// worth spending model calls on when there are more than scoring.max_jobs.
type Prior struct {
	Rules     []config.Rule
	Penalties []config.Penalty
}

func (p Prior) Score(job domain.Job) (int, []string) {
	text := strings.ToLower(job.Title + " " + job.Description)

	score := 0
	var tags []string

	for _, r := range p.Rules {
		for _, needle := range r.Any {
			n := strings.ToLower(strings.TrimSpace(needle))
			if n != "" && strings.Contains(text, n) {
				score += r.Weight
				tags = append(tags, r.Tag)
				break
			}
		}
	}

	for _, pen := range p.Penalties {
		for _, needle := range pen.Any {
			n := strings.ToLower(strings.TrimSpace(needle))
			if n != "" && strings.Contains(text, n) {
				score += pen.Weight
				break
			}
		}
	}

	return score, uniq(tags)
}

// Order returns jobs sorted by prior score, highest first. Equal scores
// (and the no-rules case) keep arrival order.
func (p Prior) Order(jobs []domain.Job) []domain.Job {
	out := make([]domain.Job, len(jobs))
	copy(out, jobs)
	if len(p.Rules) == 0 && len(p.Penalties) == 0 {
		return out
	}

	scores := make([]int, len(out))
	idx := make([]int, len(out))
	for i := range out {
		idx[i] = i
		scores[i], _ = p.Score(out[i])
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	ordered := make([]domain.Job, len(out))
	for i, j := range idx {
		ordered[i] = out[j]
	}
	return ordered
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
