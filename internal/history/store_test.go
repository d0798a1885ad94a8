package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderjulianmartinez/drift-gate/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "runs", "history.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	first := types.RunResult{
		Pipeline: "NetworkSecurity", Source: "csv:a.csv",
		StartedAt: base, FinishedAt: base.Add(time.Second),
		Rows: 100, ValidationStatus: true, SchemaOKTrain: true, SchemaOKTest: true,
		Bucket: "valid",
	}
	second := types.RunResult{
		RunID: "fixed-id", Pipeline: "NetworkSecurity", Source: "csv:a.csv",
		StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour + time.Second),
		Rows: 100, SchemaOKTrain: true, SchemaOKTest: true, IsDrift: true,
		Bucket: "invalid", DriftedColumns: []string{"URL_Length", "SSLfinal_State"},
		ReportPath: "Artifacts/x/report.yaml",
	}

	id, err := s.Record(ctx, first)
	if err != nil || id == "" {
		t.Fatalf("Record first: %q %v", id, err)
	}
	if id, err = s.Record(ctx, second); err != nil || id != "fixed-id" {
		t.Fatalf("Record second: %q %v", id, err)
	}

	runs, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	got := runs[0]
	if got.RunID != "fixed-id" || !got.IsDrift || got.ValidationStatus || got.Bucket != "invalid" {
		t.Fatalf("unexpected newest run %+v", got)
	}
	if len(got.DriftedColumns) != 2 || got.DriftedColumns[1] != "SSLfinal_State" {
		t.Fatalf("unexpected drifted columns %v", got.DriftedColumns)
	}
	if !got.StartedAt.Equal(second.StartedAt) {
		t.Fatalf("started_at round trip: %v", got.StartedAt)
	}
	if !runs[1].ValidationStatus {
		t.Fatal("older run should be valid")
	}

	limited, err := s.Recent(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("Recent(1) = %d, %v", len(limited), err)
	}
}

func TestRecordDuplicateID(t *testing.T) {
	s := newTestStore(t)
	r := types.RunResult{RunID: "dup", StartedAt: time.Now(), FinishedAt: time.Now(), Bucket: "valid"}
	if _, err := s.Record(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Record(context.Background(), r); err == nil {
		t.Fatal("expected primary key violation")
	}
}
