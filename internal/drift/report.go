package drift

import (
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexanderjulianmartinez/drift-gate/internal/schema"
)

const (
	MessageDrift   = "Significant drift detected in one or more features"
	MessageNoDrift = "No significant drift detected across features"
)

// Entry is the per-column result. PValue is always a plain float64 in [0,1].
type Entry struct {
	PValue        float64 `yaml:"p_value" json:"p_value"`
	DriftDetected bool    `yaml:"drift_detected" json:"drift_detected"`
}

type OverallStatus struct {
	IsDriftDetected bool   `yaml:"is_drift_detected" json:"is_drift_detected"`
	Message         string `yaml:"message" json:"message"`
}

// Report maps column names to drift entries in base-column order, plus the
// synthetic overall status.
type Report struct {
	columns []string
	entries map[string]Entry
	Overall OverallStatus
}

func newReport() *Report {
	return &Report{entries: map[string]Entry{}}
}

func (r *Report) add(column string, e Entry) {
	if _, ok := r.entries[column]; !ok {
		r.columns = append(r.columns, column)
	}
	r.entries[column] = e
}

// finish computes the overall status as the OR of every column entry.
func (r *Report) finish() bool {
	drifted := false
	for _, c := range r.columns {
		if r.entries[c].DriftDetected {
			drifted = true
			break
		}
	}
	r.Overall = OverallStatus{IsDriftDetected: drifted, Message: MessageNoDrift}
	if drifted {
		r.Overall.Message = MessageDrift
	}
	return drifted
}

// Columns returns the evaluated columns in evaluation order.
func (r *Report) Columns() []string {
	return append([]string(nil), r.columns...)
}

func (r *Report) Entry(column string) (Entry, bool) {
	e, ok := r.entries[column]
	return e, ok
}

func (r *Report) Len() int {
	return len(r.columns)
}

// Drifted lists the columns whose entry reports drift.
func (r *Report) Drifted() []string {
	var out []string
	for _, c := range r.columns {
		if r.entries[c].DriftDetected {
			out = append(out, c)
		}
	}
	return out
}

// MarshalYAML keeps column order and writes the overall status last.
func (r *Report) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range r.columns {
		e := r.entries[c]
		root.Content = append(root.Content,
			scalar(c),
			mapping(
				scalar("p_value"), floatNode(e.PValue),
				scalar("drift_detected"), boolNode(e.DriftDetected),
			),
		)
	}
	root.Content = append(root.Content,
		scalar(schema.ReservedColumn),
		mapping(
			scalar("is_drift_detected"), boolNode(r.Overall.IsDriftDetected),
			scalar("message"), scalar(r.Overall.Message),
		),
	)
	return root, nil
}

// MarshalJSON writes a flat object keyed by column; JSON readers do not
// rely on key order.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.columns)+1)
	for _, c := range r.columns {
		out[c] = r.entries[c]
	}
	out[schema.ReservedColumn] = r.Overall
	return json.Marshal(out)
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func floatNode(v float64) *yaml.Node {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
}

func boolNode(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func mapping(kv ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: kv}
}
