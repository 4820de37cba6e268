package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spigell/job-ranker/internal/jobs"
)

// LoadSnapshot reads saved search results. The file holds either one page object with an
// "items" list or an array of such pages; items of all pages are concatenated in order.
func LoadSnapshot(path string) (*jobs.Snapshot, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	snapshot, err := decodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
	}

	return snapshot, nil
}

func decodeSnapshot(data []byte) (*jobs.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	switch trimmed[0] {
	case '{':
		var page jobs.Snapshot
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, err
		}
		return &page, nil
	case '[':
		var pages []*jobs.Snapshot
		if err := json.Unmarshal(trimmed, &pages); err != nil {
			return nil, err
		}
		merged := &jobs.Snapshot{}
		for _, page := range pages {
			if page == nil {
				continue
			}
			merged.Items = append(merged.Items, page.Items...)
		}
		return merged, nil
	default:
		return nil, fmt.Errorf("expected a JSON object or array")
	}
}

// SaveSnapshot writes raw search pages as an indented JSON array.
func SaveSnapshot(path string, pages []json.RawMessage) error {
	if pages == nil {
		pages = []json.RawMessage{}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(pages); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return file.Close()
}
