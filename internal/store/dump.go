package store

import (
	"encoding/json"
	"os"

	"github.com/spigell/job-ranker/internal/jobs"
)

type dumpedRecord struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// DumpRecordsToTmpFile writes records to a new temporary file and returns its name.
func DumpRecordsToTmpFile(records []jobs.Record) (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	dumped := make([]dumpedRecord, 0, len(records))
	for _, r := range records {
		dumped = append(dumped, dumpedRecord{Title: r.Title, Company: r.Company, URL: r.URL, Description: r.Description})
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(dumped); err != nil {
		return "", err
	}
	return file.Name(), nil
}
