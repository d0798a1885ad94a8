package schema

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alexanderjulianmartinez/drift-gate/internal/errs"
)

// ReservedColumn is the report key used for the aggregated drift status.
const ReservedColumn = "overall_drift_status"

type Column struct {
	Name string
	Type string
}

// UnmarshalYAML accepts either a bare name or a single-key mapping name: type.
func (c *Column) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		c.Name = node.Value
		return nil
	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("line %d: column entry must have exactly one key", node.Line)
		}
		c.Name = node.Content[0].Value
		c.Type = node.Content[1].Value
		return nil
	default:
		return fmt.Errorf("line %d: column entry must be a name or name: type", node.Line)
	}
}

// Schema is the set of column names a dataset must carry.
type Schema struct {
	Columns          []Column `yaml:"columns"`
	NumericalColumns []string `yaml:"numerical_columns"`
}

func Load(path string) (*Schema, error) {
	if path == "" {
		return nil, &errs.ConfigurationError{Reason: "schema path is required"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errs.ConfigurationError{Path: path, Reason: "read schema", Err: err}
	}
	return Parse(path, data)
}

// Parse decodes and checks a schema document. path is used for error messages.
func Parse(path string, data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, &errs.ConfigurationError{Path: path, Reason: "parse schema", Err: err}
	}
	if err := s.validate(); err != nil {
		return nil, &errs.ConfigurationError{Path: path, Err: err}
	}
	return &s, nil
}

func (s *Schema) validate() error {
	if len(s.Columns) == 0 {
		return errors.New("schema must list at least one column")
	}
	seen := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == "" {
			return errors.New("column name must not be empty")
		}
		if c.Name == ReservedColumn {
			return fmt.Errorf("column name %q is reserved", ReservedColumn)
		}
		if _, ok := seen[c.Name]; ok {
			return fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	for _, n := range s.NumericalColumns {
		if _, ok := seen[n]; !ok {
			return fmt.Errorf("numerical column %q is not a schema column", n)
		}
	}
	return nil
}

func (s *Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

func (s *Schema) Set() map[string]struct{} {
	out := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		out[c.Name] = struct{}{}
	}
	return out
}

// New builds a schema from bare names; used by callers that already hold the
// expected columns in memory.
func New(names ...string) (*Schema, error) {
	s := &Schema{}
	for _, n := range names {
		s.Columns = append(s.Columns, Column{Name: n})
	}
	if err := s.validate(); err != nil {
		return nil, &errs.ConfigurationError{Err: err}
	}
	return s, nil
}
