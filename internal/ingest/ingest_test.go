package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alexanderjulianmartinez/drift-gate/internal/artifact"
	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
	"github.com/alexanderjulianmartinez/drift-gate/internal/errs"
	"github.com/alexanderjulianmartinez/drift-gate/internal/frame"
	"github.com/alexanderjulianmartinez/drift-gate/internal/source/csvfile"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func setup(t *testing.T, csv string) (*Ingestor, artifact.Layout, string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	if err := os.WriteFile(input, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Pipeline.ArtifactDir = filepath.Join(dir, "Artifacts")
	layout := artifact.NewLayout(cfg, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))
	return New(cfg.Ingestion, layout, discard), layout, input
}

func sample(n int) string {
	var b strings.Builder
	b.WriteString("_id,a,b\n")
	for i := 0; i < n; i++ {
		s := strconv.Itoa(i)
		b.WriteString("id" + s + "," + s + "," + s + "\n")
	}
	return b.String()
}

func TestRunWritesArtifacts(t *testing.T) {
	ing, layout, input := setup(t, sample(10))

	art, err := ing.Run(context.Background(), csvfile.New(input))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if art.Rows != 10 || art.TrainPath != layout.TrainPath {
		t.Fatalf("unexpected artifact %+v", art)
	}

	store, err := frame.ReadCSVFile(art.FeatureStorePath)
	if err != nil {
		t.Fatalf("read feature store: %v", err)
	}
	if store.Has("_id") {
		t.Fatal("_id should be dropped before export")
	}
	train, err := frame.ReadCSVFile(art.TrainPath)
	if err != nil {
		t.Fatal(err)
	}
	test, err := frame.ReadCSVFile(art.TestPath)
	if err != nil {
		t.Fatal(err)
	}
	if train.Len() != 8 || test.Len() != 2 {
		t.Fatalf("expected 8/2 split, got %d/%d", train.Len(), test.Len())
	}
}

func TestRunKeepsExistingFeatureStore(t *testing.T) {
	ing, layout, input := setup(t, sample(5))
	if err := os.MkdirAll(filepath.Dir(layout.FeatureStorePath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(layout.FeatureStorePath, []byte("keep\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ing.Run(context.Background(), csvfile.New(input)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	raw, _ := os.ReadFile(layout.FeatureStorePath)
	if string(raw) != "keep\n" {
		t.Fatalf("feature store was overwritten: %q", raw)
	}
}

func TestRunEmptySource(t *testing.T) {
	ing, _, input := setup(t, "_id,a\n")

	_, err := ing.Run(context.Background(), csvfile.New(input))
	var du *errs.DataUnavailableError
	if !errors.As(err, &du) {
		t.Fatalf("expected DataUnavailableError, got %v", err)
	}
}
