package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alexanderjulianmartinez/drift-gate/internal/errs"
)

func writeSchema(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMixedEntries(t *testing.T) {
	path := writeSchema(t, "columns:\n  - having_IP_Address: int64\n  - URL_Length\n  - Result: int64\nnumerical_columns:\n  - URL_Length\n")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if strings.Join(s.Names(), ",") != "having_IP_Address,URL_Length,Result" {
		t.Fatalf("unexpected names %v", s.Names())
	}
	if s.Columns[0].Type != "int64" || s.Columns[1].Type != "" {
		t.Fatalf("unexpected types %+v", s.Columns)
	}
	if _, ok := s.Set()["Result"]; !ok {
		t.Fatal("expected Result in set")
	}
}

func TestLoadConfigurationErrors(t *testing.T) {
	cases := map[string]string{
		"empty":     "columns: []\n",
		"duplicate": "columns:\n  - a\n  - a\n",
		"reserved":  "columns:\n  - overall_drift_status\n",
		"malformed": "columns: [a, b\n",
		"multikey":  "columns:\n  - {a: int, b: int}\n",
		"numerical": "columns:\n  - a\nnumerical_columns:\n  - b\n",
		"emptyname": "columns:\n  - \"\"\n",
		"notalist":  "columns: a\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeSchema(t, body))
			var cfgErr *errs.ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigurationError, got %v", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	var cfgErr *errs.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
	if _, err := Load(""); !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError for empty path, got %v", err)
	}
}

func TestNew(t *testing.T) {
	s, err := New("a", "b")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(s.Set()) != 2 {
		t.Fatalf("expected 2 columns, got %v", s.Names())
	}
	if _, err := New("a", "a"); err == nil {
		t.Fatal("expected duplicate error")
	}
}
