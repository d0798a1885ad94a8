package types

import "time"

// RunResult summarises one pipeline run. It is recorded in the run history
// and published as the verdict notification.
type RunResult struct {
	RunID            string    `json:"run_id"`
	Pipeline         string    `json:"pipeline"`
	Source           string    `json:"source"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	Rows             int       `json:"rows"`
	ValidationStatus bool      `json:"validation_status"`
	SchemaOKTrain    bool      `json:"schema_ok_train"`
	SchemaOKTest     bool      `json:"schema_ok_test"`
	IsDrift          bool      `json:"is_drift"`
	Bucket           string    `json:"bucket"`
	DriftedColumns   []string  `json:"drifted_columns"`
	Reasons          []string  `json:"reasons,omitempty"`
	ReportPath       string    `json:"report_path"`
	TrainPath        string    `json:"train_path"`
	TestPath         string    `json:"test_path"`
}

func (r RunResult) Status() string {
	if r.ValidationStatus {
		return "PASS"
	}
	return "FAIL"
}
