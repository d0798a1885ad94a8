package drift

import (
	"errors"
	"math"

	"github.com/alexanderjulianmartinez/drift-gate/internal/errs"
	"github.com/alexanderjulianmartinez/drift-gate/internal/frame"
)

// DefaultThreshold is the p-value below which a column counts as drifted.
const DefaultThreshold = 0.05

// DetectDrift compares every base column against the same column in current.
// Columns only present in current are not evaluated.
func DetectDrift(base, current *frame.Frame, threshold float64, log Logger) (bool, *Report, error) {
	if log == nil {
		log = nopLogger{}
	}
	log.Info("starting drift check", "columns", len(base.Columns()), "threshold", threshold)

	report := newReport()
	for _, col := range base.Columns() {
		if _, ok := report.Entry(col); ok {
			continue
		}
		if !current.Has(col) {
			return false, nil, &errs.DataShapeError{Column: col, Dataset: "current"}
		}
		p, err := columnPValue(base, current, col)
		if err != nil {
			return false, nil, &errs.StatisticalComputationError{Column: col, Err: err}
		}
		e := Entry{PValue: p, DriftDetected: p < threshold}
		if e.DriftDetected {
			log.Warn("drift detected", "column", col, "p_value", p)
		}
		report.add(col, e)
	}

	drifted := report.finish()
	log.Info("drift check complete", "drift", drifted)
	return drifted, report, nil
}

func columnPValue(base, current *frame.Frame, col string) (float64, error) {
	b, err := base.Floats(col)
	if err != nil {
		return 0, err
	}
	c, err := current.Floats(col)
	if err != nil {
		return 0, err
	}
	if len(b) == 0 || len(c) == 0 {
		return 0, errors.New("no observations to compare")
	}
	_, p := ksTwoSample(c, b)
	if math.IsNaN(p) {
		return 0, errors.New("test produced NaN p-value")
	}
	return p, nil
}
