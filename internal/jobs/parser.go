package jobs

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/logger"
	"github.com/spigell/job-ranker/internal/utils"
)

const (
	UnknownPosition = "Unknown Position"
	URLPosition     = "Position from URL"
)

// Snapshot is a saved page of search-provider results.
type Snapshot struct {
	Items []any `json:"items"`
}

// Len returns the number of raw entries in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// rawItem holds the fields used from a search result entry. All of them are optional.
type rawItem struct {
	Title   *string `json:"title"`
	Link    *string `json:"link"`
	Snippet *string `json:"snippet"`
}

// ParseSnapshot converts raw search results into records, preserving input order.
// Entries that cannot be decoded are logged and skipped.
func ParseSnapshot(snapshot *Snapshot, log *zap.Logger) []Record {
	log = logger.WithFields(log)

	if snapshot.Len() == 0 {
		log.Warn("no search results found in snapshot")
		return []Record{}
	}

	log.Info("parsing search results", zap.Int("count", snapshot.Len()))

	records := make([]Record, 0, snapshot.Len())
	for i, item := range snapshot.Items {
		record, err := parseItem(item)
		if err != nil {
			log.Warn("skipping search result",
				zap.Int("position", i+1),
				zap.Error(err),
			)
			continue
		}

		log.Debug("parsed search result",
			zap.Int("position", i+1),
			zap.String("company", record.Company),
			zap.String("title", utils.TruncateForLog(record.Title, 50)),
		)
		records = append(records, record)
	}

	return records
}

func parseItem(item any) (record Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse search result: %v", r)
		}
	}()

	if item == nil {
		return Record{}, fmt.Errorf("search result is empty")
	}

	var raw rawItem
	cfg := &mapstructure.DecoderConfig{
		Result:  &raw,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return Record{}, err
	}
	if err := decoder.Decode(item); err != nil {
		return Record{}, fmt.Errorf("decode search result: %w", err)
	}

	title := UnknownPosition
	if raw.Title != nil {
		title = *raw.Title
	}

	var link, snippet string
	if raw.Link != nil {
		link = *raw.Link
	}
	if raw.Snippet != nil {
		snippet = *raw.Snippet
	}

	return Record{
		Title:       title,
		Company:     CompanyName(link, title),
		URL:         link,
		Description: snippet,
	}, nil
}

// FromURLs builds bare records from posting URLs. Descriptions stay empty since pages are not fetched.
func FromURLs(urls []string, log *zap.Logger) []Record {
	log = logger.WithFields(log)

	records := make([]Record, 0, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			log.Warn("could not parse url", zap.String("url", raw), zap.Error(err))
			continue
		}

		records = append(records, Record{
			Title:   URLPosition,
			Company: CompanyName(raw, ""),
			URL:     raw,
		})
	}

	return records
}
