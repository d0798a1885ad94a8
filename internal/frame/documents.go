package frame

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Field is one key/value pair of a document, in source order.
type Field struct {
	Key   string
	Value any
}

// Document is an ordered record as returned by document stores and JSON feeds.
type Document []Field

// FromDocuments builds a frame whose columns are the union of document keys
// in first-seen order. Keys absent from a document become empty cells.
func FromDocuments(docs []Document) *Frame {
	var columns []string
	index := map[string]int{}
	for _, doc := range docs {
		for _, fld := range doc {
			if _, ok := index[fld.Key]; !ok {
				index[fld.Key] = len(columns)
				columns = append(columns, fld.Key)
			}
		}
	}
	rows := make([][]string, len(docs))
	for i, doc := range docs {
		row := make([]string, len(columns))
		for _, fld := range doc {
			row[index[fld.Key]] = FormatValue(fld.Value)
		}
		rows[i] = row
	}
	return &Frame{columns: columns, index: index, rows: rows}
}

// FormatValue renders a driver value as a CSV cell. The literal "na" and nil
// both become an empty (missing) cell.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if x == "na" {
			return ""
		}
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
