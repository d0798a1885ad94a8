// Package errs holds the typed failures a pipeline run can surface. A failed
// validation verdict is not one of them; it is a normal result.
package errs

import (
	"fmt"
	"strings"
)

// ConfigurationError means the schema or pipeline configuration could not be
// loaded. It aborts the run before any check executes.
type ConfigurationError struct {
	Path   string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	var parts []string
	parts = append(parts, "configuration error")
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// DataShapeError reports a column expected during drift comparison that is
// absent from the counterpart dataset.
type DataShapeError struct {
	Column  string
	Dataset string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("data shape error: column %q missing from %s dataset", e.Column, e.Dataset)
}

// StatisticalComputationError wraps a failure of the per-column hypothesis test.
type StatisticalComputationError struct {
	Column string
	Err    error
}

func (e *StatisticalComputationError) Error() string {
	return fmt.Sprintf("statistical computation failed for column %q: %v", e.Column, e.Err)
}

func (e *StatisticalComputationError) Unwrap() error { return e.Err }

// DataUnavailableError is returned when a source yields no rows.
type DataUnavailableError struct {
	Source string
	Reason string
}

func (e *DataUnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("no data available from %s", e.Source)
	}
	return fmt.Sprintf("no data available from %s: %s", e.Source, e.Reason)
}
