// Package ingest exports a source dataset to the feature store and splits it
// into train and test files.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderjulianmartinez/drift-gate/internal/artifact"
	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
	"github.com/alexanderjulianmartinez/drift-gate/internal/errs"
	"github.com/alexanderjulianmartinez/drift-gate/internal/frame"
	"github.com/alexanderjulianmartinez/drift-gate/internal/source"
)

type Artifact struct {
	FeatureStorePath string
	TrainPath        string
	TestPath         string
	Rows             int
}

type Ingestor struct {
	cfg    config.IngestionConfig
	layout artifact.Layout
	log    *slog.Logger
}

func New(cfg config.IngestionConfig, layout artifact.Layout, log *slog.Logger) *Ingestor {
	return &Ingestor{cfg: cfg, layout: layout, log: log}
}

func (i *Ingestor) Run(ctx context.Context, src source.Source) (Artifact, error) {
	i.log.Info("data ingestion started", "source", src.Name())

	f, err := source.Load(ctx, src)
	if err != nil {
		return Artifact{}, err
	}
	f = f.Drop(i.cfg.DropColumns...)
	if len(f.Columns()) == 0 {
		return Artifact{}, &errs.DataUnavailableError{Source: src.Name(), Reason: "no columns left after drop"}
	}

	if err := i.exportFeatureStore(f); err != nil {
		return Artifact{}, err
	}

	train, test, err := f.Split(i.cfg.TestRatio, i.cfg.Seed)
	if err != nil {
		return Artifact{}, fmt.Errorf("split dataset: %w", err)
	}
	if err := train.WriteCSVFile(i.layout.TrainPath); err != nil {
		return Artifact{}, fmt.Errorf("write train set: %w", err)
	}
	if err := test.WriteCSVFile(i.layout.TestPath); err != nil {
		return Artifact{}, fmt.Errorf("write test set: %w", err)
	}

	i.log.Info("data ingestion completed",
		"rows", f.Len(),
		"train_rows", train.Len(),
		"test_rows", test.Len(),
	)
	return Artifact{
		FeatureStorePath: i.layout.FeatureStorePath,
		TrainPath:        i.layout.TrainPath,
		TestPath:         i.layout.TestPath,
		Rows:             f.Len(),
	}, nil
}

// exportFeatureStore leaves an existing feature store file untouched.
func (i *Ingestor) exportFeatureStore(f *frame.Frame) error {
	path := i.layout.FeatureStorePath
	_, err := os.Stat(path)
	if err == nil {
		i.log.Info("feature store exists, skipping export", "path", path)
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat feature store: %w", err)
	}
	if err := f.WriteCSVFile(path); err != nil {
		return fmt.Errorf("export feature store: %w", err)
	}
	return nil
}
