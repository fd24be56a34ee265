package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheClearCommand(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	t.Setenv("RUNDECK_NO_CACHE", "")

	cacheDir := filepath.Join(cacheHome, "rundeck-cli")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(cacheDir, "jobs_0123456789ab.json")
	if err := os.WriteFile(stale, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"cache", "clear"}); err != nil {
			t.Errorf("cache clear failed: %v", err)
		}
	})

	if !strings.Contains(output, "Cache cleared") {
		t.Errorf("output = %q, want confirmation", output)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("cache file still present after clear")
	}
}
