package ai

import (
	"context"

	"github.com/spigell/job-ranker/internal/jobs"
)

// Request is a single synchronous call to a text-analysis service.
type Request struct {
	// System is an optional system instruction.
	System          string
	Prompt          string
	Model           string
	MaxOutputTokens int
}

// Generator sends a prompt to a language model and returns the textual response.
type Generator interface {
	GenerateContent(ctx context.Context, req Request) (string, error)
}

// Analyzer scores a job record against a resume. It never fails: degraded
// responses and unreachable services are reported through the result outcome.
type Analyzer interface {
	Analyze(ctx context.Context, resume string, record jobs.Record) jobs.ScoreResult
}
