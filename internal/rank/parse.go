package rank

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"jobradar/internal/domain"
)

const maxSkills = 6

var (
	firstInt  = regexp.MustCompile(`[-+]?\d+`)
	firstWord = regexp.MustCompile(`[a-z]+`)
)

// Outcome is what ParseScore needs beyond the raw text.
type Outcome struct {
	Mode           domain.ScoringMode
	FallbackScore  int
	BinaryFitScore int
}

// ParseScore turns raw model output into a ScoreResult. It never fails:
// anything it cannot read yields the fallback result, and numeric output
// is clamped into [0,100].
//
// Numeric mode reads a JSON object ({"match": 72, "reason": "...",
// "must_have_skills": [...]}) when one is present, otherwise the first
// integer in the text. Binary mode reads {"fit": true} or a leading yes/no.
func ParseScore(raw string, o Outcome) domain.ScoreResult {
	text := extractJSON(raw)
	if text == "" {
		return Fallback(o.FallbackScore, "empty model response")
	}
	if o.Mode == domain.ModeBinary {
		return parseBinary(text, o)
	}

	if strings.Contains(text, "{") {
		data, ok := decodeObject(text)
		if !ok {
			return Fallback(o.FallbackScore, "model output was not valid JSON")
		}
		score := coerceFloat(firstKey(data, "match", "score"))
		if math.IsNaN(score) {
			return Fallback(o.FallbackScore, "model output had no score")
		}
		return domain.ScoreResult{
			Score:  clampFloat(score),
			Reason: coerceString(data["reason"]),
			Skills: coerceSkills(firstKey(data, "must_have_skills", "skills")),
		}
	}

	m := firstInt.FindString(text)
	if m == "" {
		return Fallback(o.FallbackScore, "model output had no number")
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		// too many digits for an int; the sign decides which bound it hits
		if strings.HasPrefix(m, "-") {
			n = 0
		} else {
			n = 100
		}
	}
	return domain.ScoreResult{Score: Clamp(n)}
}

func parseBinary(text string, o Outcome) domain.ScoreResult {
	verdict := func(fit bool, reason string) domain.ScoreResult {
		if fit {
			return domain.ScoreResult{Score: Clamp(o.BinaryFitScore), Reason: reason}
		}
		return domain.ScoreResult{Score: 0, Reason: reason}
	}

	if strings.Contains(text, "{") {
		data, ok := decodeObject(text)
		if !ok {
			return Fallback(o.FallbackScore, "model output was not valid JSON")
		}
		v, present := data["fit"]
		if !present {
			return Fallback(o.FallbackScore, "model output had no fit verdict")
		}
		return verdict(coerceBool(v), coerceString(data["reason"]))
	}

	switch firstWord.FindString(strings.ToLower(text)) {
	case "yes", "true":
		return verdict(true, "")
	case "no", "false":
		return verdict(false, "")
	}
	return Fallback(o.FallbackScore, "model output had no yes/no verdict")
}

// Fallback is the substitute result for a failed or unreadable call.
func Fallback(score int, reason string) domain.ScoreResult {
	return domain.ScoreResult{Score: Clamp(score), Reason: reason, Fallback: true}
}

// Clamp bounds a score to [0,100].
func Clamp(n int) int {
	switch {
	case n < 0:
		return 0
	case n > 100:
		return 100
	default:
		return n
	}
}

// clampFloat bounds before converting, so huge or infinite values land on
// 100 instead of overflowing the int conversion.
func clampFloat(f float64) int {
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// decodeObject parses the outermost {...} in text.
func decodeObject(text string) (map[string]any, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &data); err != nil {
		return nil, false
	}
	return data, true
}

func firstKey(data map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := data[k]; ok {
			return v
		}
	}
	return nil
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		m := firstInt.FindString(val)
		if m == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func coerceSkills(v any) []string {
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && len(out) < maxSkills {
			out = append(out, s)
		}
	}
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok {
				add(s)
			}
		}
	case string:
		for _, s := range strings.Split(val, ",") {
			add(s)
		}
	}
	return out
}
