package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/job-ranker/internal/ai"
	"github.com/spigell/job-ranker/internal/logger"
)

const (
	Provider     = "gemini"
	defaultModel = "gemini-2.5-flash"

	baseRetryDelay = 2 * time.Second
	// Quota errors asking for a longer pause are returned to the caller instead of retried.
	maxRetryDelay = 30 * time.Second
)

var (
	sleep = time.Sleep

	retryHintRe = regexp.MustCompile(`(?i)retry (?:after|in) ([0-9]+(?:\.[0-9]+)?)\s*(ms|s|sec|secs|second|seconds)?`)
)

type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type chatCreator interface {
	Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error)
}

type genaiChats struct {
	chats *genai.Chats
}

func (c genaiChats) Create(ctx context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	chat, err := c.chats.Create(ctx, model, config, history)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// Generator wraps the Google GenAI client to provide simple prompt-based interactions.
type Generator struct {
	chats      chatCreator
	model      string
	maxRetries int
	logger     *zap.Logger
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey, model string, maxRetries int, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Generator{
		chats:      genaiChats{chats: client.Chats},
		model:      model,
		maxRetries: maxRetries,
		logger:     logger.WithCommonFields(log, Provider, model),
	}, nil
}

// GenerateContent sends the prompt to Gemini and returns the textual response.
// Temporary API errors are retried up to maxRetries times after the first attempt.
func (g *Generator) GenerateContent(ctx context.Context, req ai.Request) (string, error) {
	if g == nil || g.chats == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = g.model
	}

	config := &genai.GenerateContentConfig{}
	if req.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxOutputTokens)
	}
	if system := strings.TrimSpace(req.System); system != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	attempts := 1 + max(g.maxRetries, 0)

	log := logger.WithFields(g.logger)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		output, err := g.send(ctx, model, config, prompt)
		if err == nil {
			return output, nil
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == attempts {
			break
		}

		log.Warn("gemini request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		sleep(delay)
	}

	return "", lastErr
}

func (g *Generator) send(ctx context.Context, model string, config *genai.GenerateContentConfig, prompt string) (string, error) {
	chat, err := g.chats.Create(ctx, model, config, nil)
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.New("gemini api returned empty response")
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// retryDelay decides whether err is temporary and how long to wait before the next attempt.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	backoff := baseRetryDelay << (attempt - 1)

	switch apiErr.Code {
	case http.StatusTooManyRequests:
		if hint, ok := quotaDelay(apiErr); ok {
			if hint > maxRetryDelay {
				return 0, false
			}
			return hint, true
		}
		return backoff, true
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return backoff, true
	default:
		return 0, false
	}
}

// quotaDelay extracts the server-suggested pause from a quota error.
func quotaDelay(apiErr genai.APIError) (time.Duration, bool) {
	for _, detail := range apiErr.Details {
		raw, ok := detail["retryDelay"].(string)
		if !ok {
			continue
		}
		if d, err := time.ParseDuration(raw); err == nil {
			return d, true
		}
	}

	match := retryHintRe.FindStringSubmatch(apiErr.Message)
	if match == nil {
		return 0, false
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}

	unit := time.Second
	if strings.EqualFold(match[2], "ms") {
		unit = time.Millisecond
	}

	return time.Duration(value * float64(unit)), true
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
