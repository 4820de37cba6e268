package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/ai"
	"github.com/spigell/job-ranker/internal/logger"
)

const (
	Provider = "anthropic"

	DefaultBaseURL = "https://api.anthropic.com"
	defaultModel   = "claude-3-haiku-20240307"

	defaultMaxTokens = 1000
	requestTimeout   = 60 * time.Second
	baseRetryDelay   = 2 * time.Second
	// Rate limits asking for a longer pause are returned to the caller instead of retried.
	maxRetryDelay = 30 * time.Second

	// statusOverloaded is returned by the Messages API when the service is saturated.
	statusOverloaded = 529
)

var sleep = time.Sleep

// Generator calls the Anthropic Messages API through the official SDK.
type Generator struct {
	client     sdk.Client
	baseURL    string
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewGenerator returns a Generator for the given key. Empty baseURL and model fall back to defaults.
func NewGenerator(apiKey, baseURL, model string, maxRetries int, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	// Retries are driven by GenerateContent so the pause policy matches the gemini provider.
	client := sdk.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL+"/"),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(requestTimeout),
	)

	return &Generator{
		client:     client,
		baseURL:    baseURL,
		model:      model,
		maxRetries: maxRetries,
		logger:     logger.WithCommonFields(log, Provider, model),
	}, nil
}

// GenerateContent sends a single user message and returns the concatenated text blocks of the reply.
// Temporary API errors are retried up to maxRetries times after the first attempt.
func (g *Generator) GenerateContent(ctx context.Context, req ai.Request) (string, error) {
	if g == nil {
		return "", errors.New("anthropic generator is not initialized")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = g.model
	}

	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(prompt))},
	}
	if system := strings.TrimSpace(req.System); system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}

	attempts := 1 + max(g.maxRetries, 0)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		output, err := g.send(ctx, params)
		if err == nil {
			return output, nil
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == attempts {
			break
		}

		g.logger.Warn("anthropic request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		sleep(delay)
	}

	return "", lastErr
}

func (g *Generator) send(ctx context.Context, params sdk.MessageNewParams) (string, error) {
	msg, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("call messages api: %w", err)
	}

	var builder strings.Builder
	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		builder.WriteString(block.Text)
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("anthropic api returned empty response")
	}

	g.logger.Debug("messages api usage",
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
		zap.String("stop_reason", string(msg.StopReason)),
	)

	return output, nil
}

// retryDelay decides whether err is temporary and how long to wait before the next attempt.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr *sdk.Error
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	backoff := baseRetryDelay << (attempt - 1)

	switch {
	case apiErr.StatusCode == http.StatusTooManyRequests:
		if hint, ok := retryAfter(apiErr.Response); ok {
			if hint > maxRetryDelay {
				return 0, false
			}
			return hint, true
		}
		return backoff, true
	case apiErr.StatusCode == statusOverloaded, apiErr.StatusCode >= http.StatusInternalServerError:
		return backoff, true
	default:
		return 0, false
	}
}

func retryAfter(resp *http.Response) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}

	seconds, err := strconv.Atoi(strings.TrimSpace(resp.Header.Get("retry-after")))
	if err != nil || seconds <= 0 {
		return 0, false
	}

	return time.Duration(seconds) * time.Second, true
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
