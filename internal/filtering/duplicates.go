package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/jobs"
)

type duplicatesFilter struct {
	disabled bool
	reason   string
}

// NewDuplicates creates a filter that keeps only the first record for each URL.
// Records without a URL are never treated as duplicates.
func NewDuplicates() Filter {
	return &duplicatesFilter{}
}

func (f *duplicatesFilter) Name() string { return "duplicates" }

func (f *duplicatesFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *duplicatesFilter) IsEnabled() bool { return !f.disabled }

func (f *duplicatesFilter) Validate(*Config) error { return nil }

func (f *duplicatesFilter) Apply(_ context.Context, deps Deps, records []jobs.Record) ([]jobs.Record, Step, error) {
	initial := len(records)
	seen := make(map[string]struct{}, initial)

	left, dropped := keep(records, func(r jobs.Record) bool {
		url := strings.TrimSpace(r.URL)
		if url == "" {
			return false
		}
		if _, ok := seen[url]; ok {
			return true
		}
		seen[url] = struct{}{}
		return false
	})

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding duplicated records",
			zap.Strings("excluded_urls", dropped),
			zap.Int("records_left", len(left)),
		)
	}

	return left, Step{Initial: initial, Dropped: len(dropped), Left: len(left)}, nil
}

func (f *duplicatesFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason}
}
