// Package source selects and runs the dataset loader named in the config.
package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
	"github.com/alexanderjulianmartinez/drift-gate/internal/errs"
	"github.com/alexanderjulianmartinez/drift-gate/internal/frame"
	"github.com/alexanderjulianmartinez/drift-gate/internal/source/csvfile"
	"github.com/alexanderjulianmartinez/drift-gate/internal/source/kafka"
	"github.com/alexanderjulianmartinez/drift-gate/internal/source/mongo"
	"github.com/alexanderjulianmartinez/drift-gate/internal/source/sqldb"
)

type Source interface {
	Name() string
	Fetch(ctx context.Context) (*frame.Frame, error)
	Close() error
}

func Open(ctx context.Context, cfg config.SourceConfig, log *slog.Logger) (Source, error) {
	switch cfg.Type {
	case "mongodb":
		return mongo.New(ctx, cfg)
	case "mysql", "sqlite":
		l, err := sqldb.New(cfg)
		if err != nil {
			return nil, err
		}
		if n, err := l.FetchRowCount(ctx); err != nil {
			log.Warn("row count unavailable", "source", l.Name(), "error", err)
		} else {
			log.Info("source table", "source", l.Name(), "rows", n)
		}
		return l, nil
	case "kafka":
		return kafka.New(cfg)
	case "csv":
		return csvfile.New(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported source type %q", cfg.Type)
	}
}

// Load fetches the whole dataset and rejects an empty result.
func Load(ctx context.Context, src Source) (*frame.Frame, error) {
	f, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch from %s: %w", src.Name(), err)
	}
	if f.Empty() {
		return nil, &errs.DataUnavailableError{Source: src.Name(), Reason: "query returned no rows"}
	}
	return f, nil
}
