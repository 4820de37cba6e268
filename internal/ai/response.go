package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spigell/job-ranker/internal/jobs"
)

const scoreKey = "match_score"

var (
	errNoGenerator = errors.New("text generator is not configured")
	errNotObject   = errors.New("response is not a json object")
	errNoScore     = fmt.Errorf("response has no %s", scoreKey)
)

// ParseResponse reads a score and explanation from a model answer.
//
// A well-formed JSON object yields an OutcomeParsed result. Valid JSON that is not an object
// or has no "match_score" key is a failed analysis. Text that does not decode is scraped for a
// "match_score" value and yields OutcomeRecovered with the raw text as explanation; when no score
// can be scraped the neutral score is used.
func ParseResponse(raw string) jobs.ScoreResult {
	if result, ok := decodeStrict(raw); ok {
		return result
	}

	return jobs.ScoreResult{
		Score:       scrapeScore(raw),
		Explanation: raw,
		Outcome:     jobs.OutcomeRecovered,
	}
}

func decodeStrict(raw string) (jobs.ScoreResult, bool) {
	var decoded any
	if err := json.Unmarshal([]byte(stripFences(raw)), &decoded); err != nil {
		return jobs.ScoreResult{}, false
	}

	data, isObject := decoded.(map[string]any)
	if !isObject {
		return jobs.Failed(errNotObject), true
	}

	value, found := data[scoreKey]
	if !found {
		return jobs.Failed(errNoScore), true
	}

	// A present but unreadable score is left to the scrape tier.
	score, ok := coerceScore(value)
	if !ok {
		return jobs.ScoreResult{}, false
	}

	analysis := coerceString(data["analysis"])
	if analysis == "" {
		analysis = strings.TrimSpace(raw)
	}

	return jobs.ScoreResult{
		Score:       jobs.ClampScore(score),
		Explanation: analysis,
		Outcome:     jobs.OutcomeParsed,
	}, true
}

// scrapeScore looks for `match_score": <n>,` in free text.
func scrapeScore(raw string) int {
	idx := strings.Index(raw, scoreKey)
	if idx == -1 {
		return jobs.NeutralScore
	}

	rest := raw[idx+len(scoreKey):]
	colon := strings.Index(rest, ":")
	if colon == -1 {
		return jobs.NeutralScore
	}

	value := rest[colon+1:]
	if end := strings.Index(value, ":"); end != -1 {
		value = value[:end]
	}
	if end := strings.Index(value, ","); end != -1 {
		value = value[:end]
	}

	value = strings.Trim(strings.TrimSpace(value), `"`)

	score, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return jobs.NeutralScore
	}

	return jobs.ClampScore(score)
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}

func coerceScore(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return roundScore(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return roundScore(f)
	default:
		return 0, false
	}
}

func roundScore(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	// Out-of-range values are clamped later; keep the conversion well defined.
	f = math.Max(-1000, math.Min(1000, f))
	return int(math.Round(f)), true
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
