package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/jobs"
)

type companiesFilter struct {
	companies []string
}

// NewCompanies creates a filter that removes records of companies configured in the config.
func NewCompanies() Filter {
	return &companiesFilter{}
}

func (f *companiesFilter) Name() string { return "companies" }

func (f *companiesFilter) Disable(string) {}

func (f *companiesFilter) IsEnabled() bool { return true }

func (f *companiesFilter) Validate(cfg *Config) error {
	f.companies = nil
	if cfg == nil {
		return nil
	}
	for _, company := range cfg.Companies {
		if company = strings.TrimSpace(company); company != "" {
			f.companies = append(f.companies, company)
		}
	}
	return nil
}

func (f *companiesFilter) Apply(_ context.Context, deps Deps, records []jobs.Record) ([]jobs.Record, Step, error) {
	initial := len(records)
	if len(f.companies) == 0 {
		return records, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	left, dropped := keep(records, func(r jobs.Record) bool {
		for _, company := range f.companies {
			if strings.EqualFold(strings.TrimSpace(r.Company), company) {
				return true
			}
		}
		return false
	})

	if deps.Logger != nil && len(dropped) > 0 {
		deps.Logger.Info("excluding records by companies",
			zap.Strings("excluded_companies", f.companies),
			zap.Strings("excluded_urls", dropped),
			zap.Int("records_left", len(left)),
		)
	}

	return left, Step{Initial: initial, Dropped: len(dropped), Left: len(left)}, nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.companies) > 0 {
		details["companies"] = strings.Join(f.companies, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
