package drift

import (
	"errors"
	"math/rand"
	"strconv"
	"sync"
	"testing"

	"github.com/alexanderjulianmartinez/drift-gate/internal/errs"
	"github.com/alexanderjulianmartinez/drift-gate/internal/frame"
	"github.com/alexanderjulianmartinez/drift-gate/internal/schema"
)

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Info(string, ...any) {}
func (l *recordingLogger) Error(string, ...any) {}
func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func mustSchema(t *testing.T, names ...string) *schema.Schema {
	t.Helper()
	s, err := schema.New(names...)
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}
	return s
}

// uniformFrame builds n rows where every column is Uniform(lo, lo+1).
func uniformFrame(t *testing.T, seed int64, n int, lo float64, cols ...string) *frame.Frame {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]string, n)
	for i := range rows {
		row := make([]string, len(cols))
		for j := range cols {
			row[j] = strconv.FormatFloat(lo+rng.Float64(), 'f', -1, 64)
		}
		rows[i] = row
	}
	f, err := frame.New(cols, rows)
	if err != nil {
		t.Fatalf("frame.New: %v", err)
	}
	return f
}

func TestValidateSameDistributionPasses(t *testing.T) {
	s := mustSchema(t, "A", "B")
	train := uniformFrame(t, 1, 200, 0, "A", "B")

	verdict, report, err := NewValidator().Validate(train, train, s)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !verdict.ValidationStatus || verdict.IsDrift {
		t.Fatalf("expected valid without drift, got %+v", verdict)
	}
	if verdict.Bucket() != BucketValid {
		t.Fatalf("expected valid bucket, got %s", verdict.Bucket())
	}
	for _, c := range report.Columns() {
		e, _ := report.Entry(c)
		if !near(e.PValue, 1, 1e-12) || e.DriftDetected {
			t.Fatalf("column %s: expected p=1 no drift, got %+v", c, e)
		}
	}
}

func TestValidateExtraColumnFailsSchema(t *testing.T) {
	s := mustSchema(t, "A", "B")
	train := uniformFrame(t, 1, 100, 0, "A", "B", "C")
	test := uniformFrame(t, 1, 100, 0, "A", "B", "C")

	verdict, _, err := NewValidator().Validate(train, test, s)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if verdict.SchemaOKTrain {
		t.Fatal("expected train schema check to fail")
	}
	if verdict.ValidationStatus {
		t.Fatalf("expected invalid verdict, got %+v", verdict)
	}
	if len(verdict.TrainDiff.Extra) != 1 || verdict.TrainDiff.Extra[0] != "C" {
		t.Fatalf("expected extra column C, got %+v", verdict.TrainDiff)
	}
	if verdict.Bucket() != BucketInvalid {
		t.Fatalf("expected invalid bucket, got %s", verdict.Bucket())
	}
}

func TestValidateShiftedColumnIsDrift(t *testing.T) {
	s := mustSchema(t, "A")
	train := uniformFrame(t, 7, 1000, 0, "A")
	test := uniformFrame(t, 8, 1000, 10, "A")
	log := &recordingLogger{}

	verdict, report, err := NewValidator(WithThreshold(0.05), WithLogger(log)).Validate(train, test, s)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	e, ok := report.Entry("A")
	if !ok {
		t.Fatal("expected entry for A")
	}
	if e.PValue > 1e-10 || !e.DriftDetected {
		t.Fatalf("expected p~0 with drift, got %+v", e)
	}
	if !verdict.IsDrift || verdict.ValidationStatus {
		t.Fatalf("expected drift and invalid verdict, got %+v", verdict)
	}
	if !report.Overall.IsDriftDetected || report.Overall.Message != MessageDrift {
		t.Fatalf("unexpected overall status %+v", report.Overall)
	}
	if len(log.warns) == 0 {
		t.Fatal("expected drift warnings to be logged")
	}
}

func TestValidateEmptyFramesFailSchema(t *testing.T) {
	empty, _ := frame.New(nil, nil)
	drifted, report, err := DetectDrift(empty, empty, DefaultThreshold, nil)
	if err != nil {
		t.Fatalf("DetectDrift: %v", err)
	}
	if drifted || report.Len() != 0 {
		t.Fatalf("expected no drift and no entries, got %v %d", drifted, report.Len())
	}
	if report.Overall.IsDriftDetected || report.Overall.Message != MessageNoDrift {
		t.Fatalf("unexpected overall status %+v", report.Overall)
	}
}

func TestValidationStatusTruthTable(t *testing.T) {
	for _, trainOK := range []bool{true, false} {
		for _, testOK := range []bool{true, false} {
			for _, isDrift := range []bool{true, false} {
				v := newVerdict(trainOK, testOK, isDrift)
				want := trainOK && testOK && !isDrift
				if v.ValidationStatus != want {
					t.Fatalf("train=%v test=%v drift=%v: got %v", trainOK, testOK, isDrift, v.ValidationStatus)
				}
				if (v.Bucket() == BucketValid) != want {
					t.Fatalf("bucket %s disagrees with status %v", v.Bucket(), want)
				}
			}
		}
	}
}

func TestValidateRejectsBadThreshold(t *testing.T) {
	s := mustSchema(t, "A")
	f := uniformFrame(t, 1, 10, 0, "A")
	if _, _, err := NewValidator(WithThreshold(0)).Validate(f, f, s); err == nil {
		t.Fatal("expected error for zero threshold")
	}
}

func TestValidatePropagatesDataShapeError(t *testing.T) {
	s := mustSchema(t, "A", "B")
	train := uniformFrame(t, 1, 50, 0, "A", "B", "C")
	test := uniformFrame(t, 2, 50, 0, "A", "B")

	_, _, err := NewValidator().Validate(train, test, s)
	var shape *errs.DataShapeError
	if !errors.As(err, &shape) {
		t.Fatalf("expected DataShapeError, got %v", err)
	}
	if shape.Column != "C" {
		t.Fatalf("expected column C, got %s", shape.Column)
	}
}
