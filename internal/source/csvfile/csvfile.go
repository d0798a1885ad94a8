// Package csvfile loads a dataset from a local CSV file.
package csvfile

import (
	"context"

	"github.com/alexanderjulianmartinez/drift-gate/internal/frame"
)

type Loader struct {
	path string
}

func New(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) Name() string {
	return "csv:" + l.path
}

func (l *Loader) Fetch(ctx context.Context) (*frame.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return frame.ReadCSVFile(l.path)
}

func (l *Loader) Close() error {
	return nil
}
