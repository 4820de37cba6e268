package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/ai"
	"github.com/spigell/job-ranker/internal/ai/anthropic"
	"github.com/spigell/job-ranker/internal/ai/gemini"
	"github.com/spigell/job-ranker/internal/secrets"
)

const (
	providerAnthropic = anthropic.Provider
	providerGemini    = gemini.Provider
)

type modelGenerator interface {
	ai.Generator
	Model() string
}

// newGenerator builds the text generator of the configured provider.
func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (modelGenerator, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", providerAnthropic:
		anthropicCfg := cfg.Anthropic
		if anthropicCfg == nil {
			anthropicCfg = &AnthropicConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "anthropic api key",
			Value: anthropicCfg.APIKey,
			File:  anthropicCfg.APIKeyFile,
			Env:   "ANTHROPIC_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (or set ai.anthropic.api-key-file)", err)
		}

		generator, err := anthropic.NewGenerator(apiKey, anthropicCfg.BaseURL, cfg.Model, cfg.MaxRetries, logger)
		if err != nil {
			return nil, err
		}
		return generator, nil
	case providerGemini:
		geminiCfg := cfg.Gemini
		if geminiCfg == nil {
			geminiCfg = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: geminiCfg.APIKey,
			File:  geminiCfg.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (or set ai.gemini.api-key-file)", err)
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, logger)
		if err != nil {
			return nil, err
		}
		return generator, nil
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

func newMatcher(generator modelGenerator, cfg *AIConfig, logger *zap.Logger) *ai.Matcher {
	return ai.NewMatcher(generator, ai.MatcherConfig{
		Model:           generator.Model(),
		MaxOutputTokens: cfg.MaxOutputTokens,
		MaxLogLength:    cfg.MaxLogLength,
	}, logger)
}
