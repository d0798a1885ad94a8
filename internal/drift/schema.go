package drift

import (
	"sort"

	"github.com/alexanderjulianmartinez/drift-gate/internal/frame"
	"github.com/alexanderjulianmartinez/drift-gate/internal/schema"
)

// SchemaDiff lists what separates a dataset's columns from the schema.
type SchemaDiff struct {
	Missing []string `yaml:"missing,omitempty" json:"missing,omitempty"`
	Extra   []string `yaml:"extra,omitempty" json:"extra,omitempty"`
}

func (d SchemaDiff) Empty() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0
}

// CheckSchema reports whether the dataset's column set equals the schema's.
// Order is ignored and duplicate dataset columns collapse.
func CheckSchema(dataset *frame.Frame, s *schema.Schema) bool {
	return DiffSchema(dataset, s).Empty()
}

// DiffSchema returns the sorted missing (schema - dataset) and extra
// (dataset - schema) column names.
func DiffSchema(dataset *frame.Frame, s *schema.Schema) SchemaDiff {
	want := s.Set()
	have := make(map[string]struct{})
	for _, c := range dataset.Columns() {
		have[c] = struct{}{}
	}

	var diff SchemaDiff
	for c := range want {
		if _, ok := have[c]; !ok {
			diff.Missing = append(diff.Missing, c)
		}
	}
	for c := range have {
		if _, ok := want[c]; !ok {
			diff.Extra = append(diff.Extra, c)
		}
	}
	sort.Strings(diff.Missing)
	sort.Strings(diff.Extra)
	return diff
}
