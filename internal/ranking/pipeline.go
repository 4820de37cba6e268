package ranking

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/ai"
	"github.com/spigell/job-ranker/internal/jobs"
	"github.com/spigell/job-ranker/internal/logger"
	"github.com/spigell/job-ranker/internal/utils"
)

// Pipeline scores records one at a time and orders them by score.
type Pipeline struct {
	analyzer ai.Analyzer
	delay    time.Duration
	logger   *zap.Logger

	wait func(ctx context.Context, d time.Duration) error
}

// Summary counts how the scores of a run were obtained.
type Summary struct {
	Total     int
	Parsed    int
	Recovered int
	Failed    int
}

func New(analyzer ai.Analyzer, delay time.Duration, log *zap.Logger) *Pipeline {
	if delay < 0 {
		delay = 0
	}

	return &Pipeline{
		analyzer: analyzer,
		delay:    delay,
		logger:   logger.WithFields(log),
		wait:     utils.WaitFor,
	}
}

// Rank analyzes every record sequentially, pausing for the configured delay between calls,
// and returns the scored records sorted by score descending. Ties keep their input order.
// Analysis problems never abort the run; they are reflected in each record's outcome.
func (p *Pipeline) Rank(ctx context.Context, resume string, records []jobs.Record) []jobs.ScoredRecord {
	scored := make([]jobs.ScoredRecord, 0, len(records))

	for i, record := range records {
		if i > 0 && p.delay > 0 {
			if err := p.wait(ctx, p.delay); err != nil {
				p.logger.Warn("pacing delay interrupted", zap.Error(err))
			}
		}

		p.logger.Info("analyzing job",
			append(logger.JobFields(record.Company, record.Title, record.URL),
				zap.Int("position", i+1),
				zap.Int("total", len(records)),
			)...,
		)

		var result jobs.ScoreResult
		if p.analyzer == nil {
			result = jobs.Failed(nil)
		} else {
			result = p.analyzer.Analyze(ctx, resume, record)
		}

		if strings.TrimSpace(result.Explanation) == "" {
			result.Explanation = "No analysis returned"
		}

		scored = append(scored, jobs.Score(record, result))
	}

	Sort(scored)

	return scored
}

// Sort orders records by score descending, keeping the relative order of equal scores.
func Sort(records []jobs.ScoredRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].MatchScore > records[j].MatchScore
	})
}

// Summarize counts outcomes across the scored records.
func Summarize(records []jobs.ScoredRecord) Summary {
	summary := Summary{Total: len(records)}
	for _, record := range records {
		switch {
		case record.IsFailed():
			summary.Failed++
		case record.Outcome == jobs.OutcomeRecovered:
			summary.Recovered++
		default:
			summary.Parsed++
		}
	}
	return summary
}

// Fields renders the summary for structured logs.
func (s Summary) Fields() []zap.Field {
	return []zap.Field{
		zap.Int("total", s.Total),
		zap.Int("parsed", s.Parsed),
		zap.Int("recovered", s.Recovered),
		zap.Int("failed", s.Failed),
	}
}
