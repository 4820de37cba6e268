package jobs

import "strings"

// Outcome tells how a score was obtained.
type Outcome string

const (
	// OutcomeParsed means the analysis service returned well-formed JSON.
	OutcomeParsed Outcome = "parsed"
	// OutcomeRecovered means the score was scraped from malformed output or
	// defaulted to NeutralScore.
	OutcomeRecovered Outcome = "recovered"
	// OutcomeFailed means the analysis service could not be reached or its
	// answer carried no score.
	OutcomeFailed Outcome = "failed"
)

const (
	// UnscoredScore marks a record whose analysis failed.
	UnscoredScore = 0
	// NeutralScore is used when a response could be read but no score could be recovered from it.
	NeutralScore = 5
	MinScore     = 1
	MaxScore     = 10

	// FailurePrefix starts the analysis text of every failed score.
	FailurePrefix = "Analysis failed: "
)

// Record is a normalized job posting waiting to be scored.
type Record struct {
	Title       string
	Company     string
	URL         string
	Description string
}

// ScoreResult is the outcome of analysing one record against a resume.
type ScoreResult struct {
	Score       int
	Explanation string
	Outcome     Outcome
}

// Failed builds a score-0 result that embeds the error description.
func Failed(err error) ScoreResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ScoreResult{
		Score:       UnscoredScore,
		Explanation: FailurePrefix + msg,
		Outcome:     OutcomeFailed,
	}
}

// ClampScore forces a score returned by the analysis service into [MinScore, MaxScore].
func ClampScore(score int) int {
	switch {
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}

// ScoredRecord is a record after analysis. It is produced once per record by the ranking pipeline.
type ScoredRecord struct {
	Record

	MatchScore int
	Analysis   string
	Outcome    Outcome
}

// Score attaches a result to the record.
func Score(r Record, result ScoreResult) ScoredRecord {
	return ScoredRecord{
		Record:     r,
		MatchScore: result.Score,
		Analysis:   result.Explanation,
		Outcome:    result.Outcome,
	}
}

// IsFailed reports whether the score is the failure sentinel rather than a real answer.
func (s ScoredRecord) IsFailed() bool {
	if s.Outcome != "" {
		return s.Outcome == OutcomeFailed
	}
	return s.MatchScore == UnscoredScore && strings.HasPrefix(s.Analysis, FailurePrefix)
}
