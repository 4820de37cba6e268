package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/jobs"
	"github.com/spigell/job-ranker/internal/store"
)

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes records listed in an exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(string) {}

func (f *excludeFileFilter) IsEnabled() bool { return true }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = ""
	if cfg != nil {
		f.path = strings.TrimSpace(cfg.ExcludeFile)
	}
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, records []jobs.Record) ([]jobs.Record, Step, error) {
	initial := len(records)
	if f.path == "" {
		return records, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	excluded, err := store.LoadExcluded(f.path)
	if err != nil {
		return records, Step{}, fmt.Errorf("getting excluded records from file: %w", err)
	}

	urls := make(map[string]struct{})
	for _, url := range excluded.URLs() {
		urls[url] = struct{}{}
	}

	left, dropped := keep(records, func(r jobs.Record) bool {
		_, ok := urls[strings.TrimSpace(r.URL)]
		return ok
	})

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding records based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_urls", dropped),
			zap.Int("records_left", len(left)),
		)
	}

	return left, Step{Initial: initial, Dropped: len(dropped), Left: len(left)}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
