package ai

import (
	"testing"

	"github.com/spigell/job-ranker/internal/jobs"
)

func TestParseResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		raw         string
		score       int
		explanation string
		outcome     jobs.Outcome
	}{
		{
			name:        "valid json",
			raw:         `{"match_score": 8, "analysis": "Strong fit"}`,
			score:       8,
			explanation: "Strong fit",
			outcome:     jobs.OutcomeParsed,
		},
		{
			name:        "code fence",
			raw:         "```json\n{\"match_score\": \"6\", \"analysis\": \"Decent\"}\n```",
			score:       6,
			explanation: "Decent",
			outcome:     jobs.OutcomeParsed,
		},
		{
			name:        "fractional score is rounded",
			raw:         `{"match_score": 7.6, "analysis": "Good"}`,
			score:       8,
			explanation: "Good",
			outcome:     jobs.OutcomeParsed,
		},
		{
			name:        "score above range is clamped",
			raw:         `{"match_score": 42, "analysis": "Wow"}`,
			score:       10,
			explanation: "Wow",
			outcome:     jobs.OutcomeParsed,
		},
		{
			name:        "empty analysis falls back to raw text",
			raw:         `{"match_score": 3}`,
			score:       3,
			explanation: `{"match_score": 3}`,
			outcome:     jobs.OutcomeParsed,
		},
		{
			name:        "scrape from prose",
			raw:         `The "match_score": 7, "analysis": "Good but`,
			score:       7,
			explanation: `The "match_score": 7, "analysis": "Good but`,
			outcome:     jobs.OutcomeRecovered,
		},
		{
			name:        "scrape quoted value",
			raw:         `match_score: "9", analysis: great`,
			score:       9,
			explanation: `match_score: "9", analysis: great`,
			outcome:     jobs.OutcomeRecovered,
		},
		{
			name:        "no score anywhere",
			raw:         "I think this is a good match.",
			score:       jobs.NeutralScore,
			explanation: "I think this is a good match.",
			outcome:     jobs.OutcomeRecovered,
		},
		{
			name:        "unparseable scraped value",
			raw:         `{"match_score": "high", "analysis": "n/a"}`,
			score:       jobs.NeutralScore,
			explanation: `{"match_score": "high", "analysis": "n/a"}`,
			outcome:     jobs.OutcomeRecovered,
		},
		{
			name:        "truncated after last key",
			raw:         `{"analysis": "ok", "match_score": 4`,
			score:       4,
			explanation: `{"analysis": "ok", "match_score": 4`,
			outcome:     jobs.OutcomeRecovered,
		},
		{
			name:        "single quotes are not stripped",
			raw:         `match_score: '7', analysis: ok`,
			score:       jobs.NeutralScore,
			explanation: `match_score: '7', analysis: ok`,
			outcome:     jobs.OutcomeRecovered,
		},
		{
			name:        "json array is not an object",
			raw:         `[1, 2]`,
			score:       jobs.UnscoredScore,
			explanation: jobs.FailurePrefix + "response is not a json object",
			outcome:     jobs.OutcomeFailed,
		},
		{
			name:        "bare json number",
			raw:         `7`,
			score:       jobs.UnscoredScore,
			explanation: jobs.FailurePrefix + "response is not a json object",
			outcome:     jobs.OutcomeFailed,
		},
		{
			name:        "json null",
			raw:         `null`,
			score:       jobs.UnscoredScore,
			explanation: jobs.FailurePrefix + "response is not a json object",
			outcome:     jobs.OutcomeFailed,
		},
		{
			name:        "object without score",
			raw:         `{"analysis": "x"}`,
			score:       jobs.UnscoredScore,
			explanation: jobs.FailurePrefix + "response has no match_score",
			outcome:     jobs.OutcomeFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseResponse(tt.raw)
			if got.Score != tt.score {
				t.Fatalf("score = %d, want %d", got.Score, tt.score)
			}
			if got.Explanation != tt.explanation {
				t.Fatalf("explanation = %q, want %q", got.Explanation, tt.explanation)
			}
			if got.Outcome != tt.outcome {
				t.Fatalf("outcome = %q, want %q", got.Outcome, tt.outcome)
			}
		})
	}
}
