// Package pipeline runs ingestion and validation end to end.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderjulianmartinez/drift-gate/internal/artifact"
	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
	"github.com/alexanderjulianmartinez/drift-gate/internal/drift"
	"github.com/alexanderjulianmartinez/drift-gate/internal/frame"
	"github.com/alexanderjulianmartinez/drift-gate/internal/history"
	"github.com/alexanderjulianmartinez/drift-gate/internal/ingest"
	"github.com/alexanderjulianmartinez/drift-gate/internal/notify"
	"github.com/alexanderjulianmartinez/drift-gate/internal/report"
	"github.com/alexanderjulianmartinez/drift-gate/internal/schema"
	"github.com/alexanderjulianmartinez/drift-gate/internal/source"
	"github.com/alexanderjulianmartinez/drift-gate/internal/upload"
	"github.com/alexanderjulianmartinez/drift-gate/pkg/types"
)

type OpenFunc func(ctx context.Context, cfg config.SourceConfig, log *slog.Logger) (source.Source, error)

type Pipeline struct {
	cfg      *config.Config
	log      *slog.Logger
	now      func() time.Time
	open     OpenFunc
	notifier notify.Notifier
	uploader upload.Uploader
}

type Option func(*Pipeline)

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func WithSource(open OpenFunc) Option {
	return func(p *Pipeline) { p.open = open }
}

func WithNotifier(n notify.Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

func WithUploader(u upload.Uploader) Option {
	return func(p *Pipeline) { p.uploader = u }
}

// New builds a pipeline. Notifier and uploader default to the ones named in
// cfg.
func New(cfg *config.Config, log *slog.Logger, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{cfg: cfg, log: log, now: time.Now, open: source.Open}
	for _, opt := range opts {
		opt(p)
	}
	if p.notifier == nil {
		p.notifier = notify.New(cfg.Notify)
	}
	if p.uploader == nil {
		u, err := upload.New(cfg.Upload)
		if err != nil {
			return nil, err
		}
		p.uploader = u
	}
	return p, nil
}

func (p *Pipeline) Close() error {
	return p.notifier.Close()
}

// Run executes one pipeline run. A failed verdict is a successful run; the
// error is reserved for conditions that stop the run.
func (p *Pipeline) Run(ctx context.Context) (types.RunResult, error) {
	started := p.now()
	res := types.RunResult{
		RunID:     uuid.New().String(),
		Pipeline:  p.cfg.Pipeline.Name,
		StartedAt: started,
	}
	log := p.log.With("run_id", res.RunID)

	s, err := schema.Load(p.cfg.Validation.SchemaPath)
	if err != nil {
		return res, err
	}
	layout := artifact.NewLayout(p.cfg, started)

	src, err := p.open(ctx, p.cfg.Source, log)
	if err != nil {
		return res, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()
	res.Source = src.Name()

	art, err := ingest.New(p.cfg.Ingestion, layout, log).Run(ctx, src)
	if err != nil {
		return res, err
	}
	res.Rows = art.Rows

	log.Info("data validation started")
	train, err := frame.ReadCSVFile(art.TrainPath)
	if err != nil {
		return res, fmt.Errorf("read train set: %w", err)
	}
	test, err := frame.ReadCSVFile(art.TestPath)
	if err != nil {
		return res, fmt.Errorf("read test set: %w", err)
	}

	v := drift.NewValidator(
		drift.WithThreshold(p.cfg.Validation.Threshold),
		drift.WithLogger(log),
	)
	verdict, rep, err := v.Validate(train, test, s)
	if err != nil {
		return res, err
	}
	if err := report.WriteYAML(layout.ReportPath, rep); err != nil {
		return res, fmt.Errorf("write drift report: %w", err)
	}

	bucket := verdict.Bucket()
	trainPath, testPath := layout.RoutedPaths(bucket)
	if err := route(train, test, trainPath, testPath); err != nil {
		return res, err
	}
	log.Info("data validation completed", "bucket", bucket, "report", layout.ReportPath)

	res.ValidationStatus = verdict.ValidationStatus
	res.SchemaOKTrain = verdict.SchemaOKTrain
	res.SchemaOKTest = verdict.SchemaOKTest
	res.IsDrift = verdict.IsDrift
	res.Bucket = string(bucket)
	res.DriftedColumns = rep.Drifted()
	res.Reasons = verdict.Reasons()
	res.ReportPath = layout.ReportPath
	res.TrainPath = trainPath
	res.TestPath = testPath
	res.FinishedAt = p.now()

	if err := p.record(ctx, res); err != nil {
		return res, err
	}
	if err := p.notifier.Publish(ctx, res); err != nil {
		log.Warn("verdict notification failed", "error", err)
	}
	n, err := p.uploader.UploadDir(ctx, layout.RunDir)
	if err != nil {
		return res, err
	}
	if n > 0 {
		log.Info("artifacts uploaded", "files", n, "bucket", p.cfg.Upload.Bucket)
	}
	return res, nil
}

func (p *Pipeline) record(ctx context.Context, res types.RunResult) error {
	if p.cfg.History.Path == "" {
		return nil
	}
	store, err := history.NewStore(p.cfg.History.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	if _, err := store.Record(ctx, res); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// route writes both frames to one bucket. If the second write fails the
// first is removed.
func route(train, test *frame.Frame, trainPath, testPath string) error {
	if err := train.WriteCSVFile(trainPath); err != nil {
		return fmt.Errorf("route train set: %w", err)
	}
	if err := test.WriteCSVFile(testPath); err != nil {
		os.Remove(trainPath)
		return fmt.Errorf("route test set: %w", err)
	}
	return nil
}
