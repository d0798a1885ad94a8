package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
)

func TestSetupConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	logger, closeFn, err := Setup(config.LoggingConfig{Level: "info", Dir: dir}, &console, now)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("drift check complete", "drift", false)
	closeFn()

	if strings.Contains(console.String(), "hidden") {
		t.Fatal("debug record should be filtered at info level")
	}
	if !strings.Contains(console.String(), "drift check complete") {
		t.Fatalf("console missing record: %q", console.String())
	}

	raw, err := os.ReadFile(filepath.Join(dir, "2024_05_06___07_08_09.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), "drift=false") {
		t.Fatalf("log file missing attrs: %q", raw)
	}
}

func TestSetupConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	logger, closeFn, err := Setup(config.LoggingConfig{Level: "warn"}, &console, time.Now())
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer closeFn()
	logger.Info("skip")
	logger.Warn("keep")
	if strings.Contains(console.String(), "skip") || !strings.Contains(console.String(), "keep") {
		t.Fatalf("unexpected console output %q", console.String())
	}
}

func TestSetupBadLevel(t *testing.T) {
	if _, _, err := Setup(config.LoggingConfig{Level: "loud"}, &bytes.Buffer{}, time.Now()); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
