package filtering

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/job-ranker/internal/jobs"
)

func fixture() []jobs.Record {
	return []jobs.Record{
		{Title: "Go Engineer", Company: "Acme", URL: "https://acme.com/1"},
		{Title: "Go Engineer (repost)", Company: "Acme", URL: "https://acme.com/1"},
		{Title: "Backend", Company: "Globex", URL: "https://globex.com/jobs/2"},
		{Title: "No link", Company: "Initech"},
		{Title: "No link either", Company: "Initech"},
		{Title: "SRE", Company: "LinkedIn Job", URL: "https://linkedin.com/jobs/view/3"},
	}
}

func titles(records []jobs.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Title)
	}
	return out
}

func TestDuplicates(t *testing.T) {
	left, step, err := NewDuplicates().Apply(context.Background(), Deps{}, fixture())
	require.NoError(t, err)

	assert.Equal(t, []string{"Go Engineer", "Backend", "No link", "No link either", "SRE"}, titles(left))
	assert.Equal(t, Step{Initial: 6, Dropped: 1, Left: 5}, step)
}

func TestCompanies(t *testing.T) {
	f := NewCompanies()
	require.NoError(t, f.Validate(&Config{Companies: []string{" acme ", "LINKEDIN JOB", ""}}))

	left, step, err := f.Apply(context.Background(), Deps{}, fixture())
	require.NoError(t, err)

	assert.Equal(t, []string{"Backend", "No link", "No link either"}, titles(left))
	assert.Equal(t, 3, step.Dropped)
	assert.Equal(t, "acme,LINKEDIN JOB", f.(*companiesFilter).Status().Details["companies"])
}

func TestCompaniesWithoutConfig(t *testing.T) {
	f := NewCompanies()
	require.NoError(t, f.Validate(nil))

	left, step, err := f.Apply(context.Background(), Deps{}, fixture())
	require.NoError(t, err)
	assert.Len(t, left, 6)
	assert.Zero(t, step.Dropped)
}

func TestExcludeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"items":[{"url":"https://globex.com/jobs/2"},{"url":"https://acme.com/1"}]}`), 0o644))

	f := NewExcludeFile()
	require.NoError(t, f.Validate(&Config{ExcludeFile: path}))

	left, step, err := f.Apply(context.Background(), Deps{}, fixture())
	require.NoError(t, err)

	assert.Equal(t, []string{"No link", "No link either", "SRE"}, titles(left))
	assert.Equal(t, Step{Initial: 6, Dropped: 3, Left: 3}, step)
}

func TestExcludeFileMissingIsNoop(t *testing.T) {
	f := NewExcludeFile()
	require.NoError(t, f.Validate(&Config{ExcludeFile: filepath.Join(t.TempDir(), "absent.json")}))

	left, _, err := f.Apply(context.Background(), Deps{}, fixture())
	require.NoError(t, err)
	assert.Len(t, left, 6)
}

func TestExcludeFileBroken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"items": [`), 0o644))

	f := NewExcludeFile()
	require.NoError(t, f.Validate(&Config{ExcludeFile: path}))

	_, _, err := f.Apply(context.Background(), Deps{}, fixture())
	assert.Error(t, err)
}

func TestRunLogsEachStep(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	steps := Default()
	DisableByName(steps, "duplicates", "requested")

	left, err := Run(context.Background(), &Config{Companies: []string{"Initech"}}, Deps{Logger: zap.New(core)}, steps, fixture())
	require.NoError(t, err)

	assert.Equal(t, []string{"Go Engineer", "Go Engineer (repost)", "Backend", "SRE"}, titles(left))
	assert.Equal(t, 1, logs.FilterMessage("filter disabled").Len())
	assert.Equal(t, 2, logs.FilterMessage("filter step").Len())

	statuses := Describe(steps)
	require.Len(t, statuses, 3)
	assert.False(t, statuses[0].Enabled)
	assert.Equal(t, "requested", statuses[0].Reason)
}

type failingFilter struct{ duplicatesFilter }

func (f *failingFilter) Name() string { return "failing" }

func (f *failingFilter) Validate(*Config) error { return errors.New("bad config") }

func TestRunStopsOnValidationError(t *testing.T) {
	_, err := Run(context.Background(), nil, Deps{}, []Filter{&failingFilter{}}, fixture())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing: bad config")
}
