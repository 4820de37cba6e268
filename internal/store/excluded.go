package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spigell/job-ranker/internal/jobs"
)

// Excluded is the list of postings that must not be ranked again.
type Excluded struct {
	Items []*ExcludedJob `json:"items"`
}

type ExcludedJob struct {
	URL        string    `json:"url"`
	Company    string    `json:"company,omitempty"`
	Title      string    `json:"title,omitempty"`
	ExcludedAt time.Time `json:"excluded_at,omitempty"`
}

// LoadExcluded reads an exclude file. A missing or empty file is an empty list.
func LoadExcluded(path string) (*Excluded, error) {
	data, err := readFile(path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &Excluded{}, nil
		}
		return nil, err
	}

	if strings.TrimSpace(string(data)) == "" {
		return &Excluded{}, nil
	}

	var excluded Excluded
	if err := json.Unmarshal(data, &excluded); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}
	return &excluded, nil
}

// ExcludeScored builds exclude entries for ranked records that have a URL.
func ExcludeScored(records []jobs.ScoredRecord, now time.Time) *Excluded {
	excluded := &Excluded{}
	for _, record := range records {
		if strings.TrimSpace(record.URL) == "" {
			continue
		}
		excluded.Items = append(excluded.Items, &ExcludedJob{
			URL:        record.URL,
			Company:    record.Company,
			Title:      record.Title,
			ExcludedAt: now.UTC(),
		})
	}
	return excluded
}

// URLs lists the excluded posting URLs.
func (e *Excluded) URLs() []string {
	if e == nil {
		return nil
	}
	urls := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if item == nil || strings.TrimSpace(item.URL) == "" {
			continue
		}
		urls = append(urls, strings.TrimSpace(item.URL))
	}
	return urls
}

// Append adds entries whose URL is not listed yet and returns how many were added.
func (e *Excluded) Append(other *Excluded) int {
	if other == nil {
		return 0
	}

	seen := make(map[string]struct{}, len(e.Items))
	for _, url := range e.URLs() {
		seen[url] = struct{}{}
	}

	added := 0
	for _, item := range other.Items {
		if item == nil {
			continue
		}
		if _, ok := seen[item.URL]; ok {
			continue
		}
		seen[item.URL] = struct{}{}
		e.Items = append(e.Items, item)
		added++
	}
	return added
}

// ToFile overwrites path with the list.
func (e *Excluded) ToFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("encode exclude list: %w", err)
	}
	return file.Close()
}
