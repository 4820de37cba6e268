package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spigell/job-ranker/internal/jobs"
)

// Result is one line of the persisted ranking.
type Result struct {
	Rank       int    `json:"rank"`
	MatchScore int    `json:"match_score"`
	Company    string `json:"company"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Analysis   string `json:"analysis"`
}

// ToResults numbers ranked records from 1 in their current order.
func ToResults(ranked []jobs.ScoredRecord) []Result {
	results := make([]Result, 0, len(ranked))
	for i, record := range ranked {
		results = append(results, Result{
			Rank:       i + 1,
			MatchScore: record.MatchScore,
			Company:    record.Company,
			Title:      record.Title,
			URL:        record.URL,
			Analysis:   record.Analysis,
		})
	}
	return results
}

// SaveResults writes ranked records to path as an indented JSON array, replacing any existing file.
func SaveResults(path string, ranked []jobs.ScoredRecord) error {
	return WriteResults(path, ToResults(ranked))
}

// WriteResults persists already numbered results.
func WriteResults(path string, results []Result) error {
	if results == nil {
		results = []Result{}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	return file.Close()
}

// LoadResults reads a file written by SaveResults.
func LoadResults(path string) ([]Result, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var results []Result
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	return results, nil
}
