// Package artifact computes where a pipeline run writes its files.
package artifact

import (
	"path/filepath"
	"time"

	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
	"github.com/alexanderjulianmartinez/drift-gate/internal/drift"
)

const (
	ingestionDir    = "DataIngestion"
	featureStoreDir = "feature_store"
	ingestedDir     = "ingested"
	validationDir   = "DataValidation"
	reportDir       = "drift_report"
	validDir        = "validated"
	invalidDir      = "invalid"
)

// TimestampFormat names each run directory.
const TimestampFormat = "01-02-2006-15-04-05"

type Layout struct {
	RunDir           string
	Timestamp        string
	FeatureStorePath string
	TrainPath        string
	TestPath         string
	ReportPath       string
	ValidDir         string
	InvalidDir       string

	trainFile string
	testFile  string
}

func NewLayout(cfg *config.Config, now time.Time) Layout {
	ts := now.Format(TimestampFormat)
	run := filepath.Join(cfg.Pipeline.ArtifactDir, ts)
	ing := filepath.Join(run, ingestionDir)
	val := filepath.Join(run, validationDir)
	return Layout{
		RunDir:           run,
		Timestamp:        ts,
		FeatureStorePath: filepath.Join(ing, featureStoreDir, cfg.Ingestion.FeatureStoreFile),
		TrainPath:        filepath.Join(ing, ingestedDir, cfg.Ingestion.TrainFile),
		TestPath:         filepath.Join(ing, ingestedDir, cfg.Ingestion.TestFile),
		ReportPath:       filepath.Join(val, reportDir, cfg.Validation.ReportFile),
		ValidDir:         filepath.Join(val, validDir),
		InvalidDir:       filepath.Join(val, invalidDir),
		trainFile:        cfg.Ingestion.TrainFile,
		testFile:         cfg.Ingestion.TestFile,
	}
}

// RoutedPaths returns where train and test go for a bucket.
func (l Layout) RoutedPaths(b drift.Bucket) (train, test string) {
	dir := l.InvalidDir
	if b == drift.BucketValid {
		dir = l.ValidDir
	}
	return filepath.Join(dir, l.trainFile), filepath.Join(dir, l.testFile)
}
