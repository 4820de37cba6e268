package ai

import (
	"context"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/jobs"
	"github.com/spigell/job-ranker/internal/logger"
	"github.com/spigell/job-ranker/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const (
	// MaxDescriptionRunes bounds the job description sent with each request.
	MaxDescriptionRunes = 4000

	defaultMaxOutputTokens = 1000
	defaultMaxLogLength    = 200
)

// Matcher scores job records against a resume with a language model.
type Matcher struct {
	generator       Generator
	model           string
	maxOutputTokens int
	maxLogLen       int
	logger          *zap.Logger
}

// MatcherConfig tunes the requests a Matcher sends.
type MatcherConfig struct {
	Model           string
	MaxOutputTokens int
	MaxLogLength    int
}

func NewMatcher(generator Generator, cfg MatcherConfig, log *zap.Logger) *Matcher {
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = defaultMaxOutputTokens
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLength
	}

	return &Matcher{
		generator:       generator,
		model:           strings.TrimSpace(cfg.Model),
		maxOutputTokens: cfg.MaxOutputTokens,
		maxLogLen:       cfg.MaxLogLength,
		logger:          logger.WithFields(log),
	}
}

// Analyze builds the prompt for record, calls the generator and reads the score from its answer.
func (m *Matcher) Analyze(ctx context.Context, resume string, record jobs.Record) jobs.ScoreResult {
	fields := logger.JobFields(record.Company, record.Title, record.URL)

	if m.generator == nil {
		return jobs.Failed(errNoGenerator)
	}

	prompt := BuildPrompt(resume, record)

	m.logger.Debug("generate content request", append(fields,
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, m.maxLogLen)),
	)...)

	raw, err := m.generator.GenerateContent(ctx, Request{
		Prompt:          prompt,
		Model:           m.model,
		MaxOutputTokens: m.maxOutputTokens,
	})
	if err != nil {
		m.logger.Warn("analysis failed", append(fields, zap.Error(err))...)
		return jobs.Failed(err)
	}

	m.logger.Debug("generate content response", append(fields,
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
	)...)

	result := ParseResponse(raw)
	switch result.Outcome {
	case jobs.OutcomeRecovered:
		m.logger.Warn("response was not valid JSON, score recovered heuristically",
			append(fields, zap.Int("score", result.Score))...)
	case jobs.OutcomeFailed:
		m.logger.Warn("response carried no score", append(fields, zap.String("analysis", result.Explanation))...)
	}

	return result
}

// BuildPrompt fills the embedded prompt template with the resume and the job details.
// The description is cut to MaxDescriptionRunes.
func BuildPrompt(resume string, record jobs.Record) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Resume:\n{{RESUME}}\n\nJob:\n{{COMPANY}}\n{{TITLE}}\n{{URL}}\n{{DESCRIPTION}}\n\nJSON Response:"
	}

	// A single pass keeps placeholders inside user content untouched.
	replacer := strings.NewReplacer(
		"{{RESUME}}", resume,
		"{{COMPANY}}", record.Company,
		"{{TITLE}}", record.Title,
		"{{URL}}", record.URL,
		"{{DESCRIPTION}}", utils.TruncateRunes(record.Description, MaxDescriptionRunes),
	)

	return replacer.Replace(template)
}
