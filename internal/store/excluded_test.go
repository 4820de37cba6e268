package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/job-ranker/internal/jobs"
)

func TestLoadExcludedMissingFile(t *testing.T) {
	excluded, err := LoadExcluded(filepath.Join(t.TempDir(), "exclude.json"))
	require.NoError(t, err)
	assert.Empty(t, excluded.URLs())
}

func TestLoadExcludedEmptyFile(t *testing.T) {
	excluded, err := LoadExcluded(writeFile(t, "exclude.json", "  \n"))
	require.NoError(t, err)
	assert.Empty(t, excluded.URLs())
}

func TestLoadExcludedBroken(t *testing.T) {
	_, err := LoadExcluded(writeFile(t, "exclude.json", "[1,"))
	assert.ErrorIs(t, err, ErrParse)
}

func TestExcludedAppendAndPersist(t *testing.T) {
	path := writeFile(t, "exclude.json", `{"items": [{"url": "https://a.com/1"}, {"url": ""}]}`)

	excluded, err := LoadExcluded(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com/1"}, excluded.URLs())

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	added := excluded.Append(ExcludeScored([]jobs.ScoredRecord{
		{Record: jobs.Record{URL: "https://a.com/1", Company: "A"}},
		{Record: jobs.Record{URL: "https://b.com/2", Company: "B", Title: "Dev"}},
		{Record: jobs.Record{Title: "no url"}},
	}, now))
	assert.Equal(t, 1, added)

	require.NoError(t, excluded.ToFile(path))

	reloaded, err := LoadExcluded(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.com/1", "https://b.com/2"}, reloaded.URLs())
	assert.Equal(t, now, reloaded.Items[2].ExcludedAt)
}

func TestDumpRecordsToTmpFile(t *testing.T) {
	name, err := DumpRecordsToTmpFile([]jobs.Record{{Title: "Go", Company: "Acme", URL: "https://acme.com/1"}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Remove(name) })

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"title":"Go","company":"Acme","url":"https://acme.com/1"}]`, string(data))
}
