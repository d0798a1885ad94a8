package drift

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderjulianmartinez/drift-gate/internal/frame"
	"github.com/alexanderjulianmartinez/drift-gate/internal/schema"
)

type Validator struct {
	threshold float64
	log       Logger
}

type Option func(*Validator)

func WithThreshold(t float64) Option {
	return func(v *Validator) {
		v.threshold = t
	}
}

func WithLogger(l Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.log = l
		}
	}
}

func NewValidator(opts ...Option) *Validator {
	v := &Validator{threshold: DefaultThreshold, log: nopLogger{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks both frames against the schema and compares train (base)
// with test (current). The three checks read only their own inputs and
// write disjoint results, so they run concurrently.
func (v *Validator) Validate(train, test *frame.Frame, s *schema.Schema) (Verdict, *Report, error) {
	if v.threshold <= 0 || v.threshold >= 1 {
		return Verdict{}, nil, fmt.Errorf("threshold must be in (0,1), got %v", v.threshold)
	}

	var (
		trainDiff, testDiff SchemaDiff
		isDrift             bool
		report              *Report
	)
	var g errgroup.Group
	g.Go(func() error {
		trainDiff = v.checkSchema("train", train, s)
		return nil
	})
	g.Go(func() error {
		testDiff = v.checkSchema("test", test, s)
		return nil
	})
	g.Go(func() error {
		var err error
		isDrift, report, err = DetectDrift(train, test, v.threshold, v.log)
		return err
	})
	if err := g.Wait(); err != nil {
		v.log.Error("validation failed", "error", err)
		return Verdict{}, nil, err
	}

	verdict := newVerdict(trainDiff.Empty(), testDiff.Empty(), isDrift)
	verdict.TrainDiff = trainDiff
	verdict.TestDiff = testDiff

	if isDrift {
		v.log.Warn("drift detected in features", "columns", report.Drifted())
	}
	if verdict.ValidationStatus {
		v.log.Info("dataset validated", "bucket", verdict.Bucket())
	} else {
		v.log.Warn("dataset failed validation", "bucket", verdict.Bucket(), "reasons", verdict.Reasons())
	}
	return verdict, report, nil
}

func (v *Validator) checkSchema(name string, f *frame.Frame, s *schema.Schema) SchemaDiff {
	diff := DiffSchema(f, s)
	if diff.Empty() {
		v.log.Info("schema check passed", "dataset", name)
	} else {
		v.log.Warn("schema mismatch", "dataset", name, "missing", diff.Missing, "extra", diff.Extra)
	}
	return diff
}
