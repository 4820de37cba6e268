package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  from-file \n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	got, err := Load(Source{Name: "api key", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file secret, got %q", got)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}

	_, err := Load(Source{Name: "api key", Value: "inline", File: path})
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Source{Name: "api key", File: filepath.Join(t.TempDir(), "absent")})
	if err == nil || !strings.Contains(err.Error(), "reading api key") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestLoadValueThenEnv(t *testing.T) {
	t.Setenv("JOB_RANKER_TEST_KEY", " from-env ")

	got, err := Load(Source{Name: "api key", Value: " inline ", Env: "JOB_RANKER_TEST_KEY"})
	if err != nil || got != "inline" {
		t.Fatalf("expected inline value, got %q (%v)", got, err)
	}

	got, err = Load(Source{Name: "api key", Env: "JOB_RANKER_TEST_KEY"})
	if err != nil || got != "from-env" {
		t.Fatalf("expected env value, got %q (%v)", got, err)
	}
}

func TestLoadNotConfigured(t *testing.T) {
	t.Setenv("JOB_RANKER_TEST_KEY", "")

	_, err := Load(Source{Name: "api key", Env: "JOB_RANKER_TEST_KEY"})
	if err == nil || !strings.Contains(err.Error(), "set JOB_RANKER_TEST_KEY") {
		t.Fatalf("expected env hint, got %v", err)
	}

	_, err = Load(Source{})
	if err == nil || err.Error() != "secret is not configured" {
		t.Fatalf("unexpected error: %v", err)
	}
}
