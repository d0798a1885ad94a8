package sqldb

import (
	"context"
	"fmt"

	"github.com/alexanderjulianmartinez/drift-gate/internal/frame"
)

// Fetch reads every row of the table. Column order follows the table
// definition.
func (l *Loader) Fetch(ctx context.Context) (*frame.Frame, error) {
	rows, err := l.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM `%s`", l.table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", l.table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records [][]string
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s row %d: %w", l.table, len(records), err)
		}
		rec := make([]string, len(columns))
		for i, v := range values {
			rec[i] = frame.FormatValue(v)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return frame.New(columns, records)
}
