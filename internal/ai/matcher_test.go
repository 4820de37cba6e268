package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/jobs"
)

type stubGenerator struct {
	response    string
	err         error
	lastRequest Request
	calls       int
}

func (s *stubGenerator) GenerateContent(_ context.Context, req Request) (string, error) {
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

var testRecord = jobs.Record{
	Title:       "Backend Engineer",
	Company:     "Widgetco",
	URL:         "https://careers.widgetco.com/job/42",
	Description: "Build Go services",
}

func TestMatcherAnalyzeParsed(t *testing.T) {
	stub := &stubGenerator{response: `{"match_score": 8, "analysis": "Strong fit"}`}
	matcher := NewMatcher(stub, MatcherConfig{Model: "claude-3-haiku-20240307", MaxOutputTokens: 1000}, zap.NewNop())

	result := matcher.Analyze(context.Background(), "Go developer, 5 years", testRecord)

	if result.Score != 8 || result.Explanation != "Strong fit" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Outcome != jobs.OutcomeParsed {
		t.Fatalf("expected parsed outcome, got %q", result.Outcome)
	}

	if stub.lastRequest.Model != "claude-3-haiku-20240307" {
		t.Fatalf("unexpected model: %q", stub.lastRequest.Model)
	}
	if stub.lastRequest.MaxOutputTokens != 1000 {
		t.Fatalf("unexpected max output tokens: %d", stub.lastRequest.MaxOutputTokens)
	}

	prompt := stub.lastRequest.Prompt
	for _, want := range []string{
		"Go developer, 5 years",
		"Company: Widgetco",
		"Title: Backend Engineer",
		"URL: https://careers.widgetco.com/job/42",
		"Description: Build Go services",
		`"match_score": <integer 1-10>`,
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("expected prompt to contain %q, got: %s", want, prompt)
		}
	}
}

func TestMatcherAnalyzeRecovered(t *testing.T) {
	body := `Sure, here it is: {"match_score": 7, "analysis": "cut off`
	stub := &stubGenerator{response: body}
	matcher := NewMatcher(stub, MatcherConfig{}, nil)

	result := matcher.Analyze(context.Background(), "resume", testRecord)

	if result.Score != 7 || result.Explanation != body {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.Outcome != jobs.OutcomeRecovered {
		t.Fatalf("expected recovered outcome, got %q", result.Outcome)
	}
	if stub.lastRequest.MaxOutputTokens != defaultMaxOutputTokens {
		t.Fatalf("expected default max output tokens, got %d", stub.lastRequest.MaxOutputTokens)
	}
}

func TestMatcherAnalyzeTransportFailure(t *testing.T) {
	stub := &stubGenerator{err: errors.New("dial tcp: connection refused")}
	matcher := NewMatcher(stub, MatcherConfig{}, zap.NewNop())

	result := matcher.Analyze(context.Background(), "resume", testRecord)

	if result.Score != 0 {
		t.Fatalf("expected score 0, got %d", result.Score)
	}
	if !strings.Contains(result.Explanation, "failed") || !strings.Contains(result.Explanation, "connection refused") {
		t.Fatalf("unexpected explanation: %q", result.Explanation)
	}
	if result.Outcome != jobs.OutcomeFailed {
		t.Fatalf("expected failed outcome, got %q", result.Outcome)
	}
}

func TestMatcherAnalyzeJSONWithoutScore(t *testing.T) {
	stub := &stubGenerator{response: `{"analysis": "fine"}`}
	matcher := NewMatcher(stub, MatcherConfig{}, zap.NewNop())

	result := matcher.Analyze(context.Background(), "resume", testRecord)

	if result.Score != jobs.UnscoredScore {
		t.Fatalf("expected score %d, got %d", jobs.UnscoredScore, result.Score)
	}
	if !strings.HasPrefix(result.Explanation, jobs.FailurePrefix) {
		t.Fatalf("unexpected explanation: %q", result.Explanation)
	}
	if result.Outcome != jobs.OutcomeFailed {
		t.Fatalf("expected failed outcome, got %q", result.Outcome)
	}
}

func TestMatcherWithoutGenerator(t *testing.T) {
	result := NewMatcher(nil, MatcherConfig{}, nil).Analyze(context.Background(), "resume", testRecord)
	if result.Outcome != jobs.OutcomeFailed {
		t.Fatalf("expected failed outcome, got %+v", result)
	}
}

func TestBuildPromptTruncatesDescription(t *testing.T) {
	record := testRecord
	record.Description = strings.Repeat("é", MaxDescriptionRunes) + "TAIL"

	prompt := BuildPrompt("resume", record)

	if strings.Contains(prompt, "TAIL") {
		t.Fatalf("expected description to be truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("é", MaxDescriptionRunes)) {
		t.Fatalf("expected the first %d characters to be kept", MaxDescriptionRunes)
	}
}

func TestBuildPromptKeepsPlaceholdersInContent(t *testing.T) {
	prompt := BuildPrompt("I write {{TITLE}} templates", testRecord)

	if !strings.Contains(prompt, "I write {{TITLE}} templates") {
		t.Fatalf("resume content must not be substituted: %s", prompt)
	}
}
