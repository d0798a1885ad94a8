package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Source     SourceConfig     `yaml:"source"`
	Ingestion  IngestionConfig  `yaml:"ingestion"`
	Validation ValidationConfig `yaml:"validation"`
	History    HistoryConfig    `yaml:"history"`
	Notify     NotifyConfig     `yaml:"notify"`
	Upload     UploadConfig     `yaml:"upload"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type PipelineConfig struct {
	Name        string `yaml:"name"`
	ArtifactDir string `yaml:"artifactDir"`
}

// SourceConfig selects the dataset loader. Collection names the Mongo
// collection, SQL table or Kafka topic depending on Type.
type SourceConfig struct {
	Type       string        `yaml:"type"`
	URI        string        `yaml:"uri"`
	Database   string        `yaml:"database"`
	Collection string        `yaml:"collection"`
	Path       string        `yaml:"path"`
	Brokers    []string      `yaml:"brokers"`
	MaxRecords int           `yaml:"maxRecords"`
	Timeout    time.Duration `yaml:"timeout"`
}

type IngestionConfig struct {
	FeatureStoreFile string   `yaml:"featureStoreFile"`
	TrainFile        string   `yaml:"trainFile"`
	TestFile         string   `yaml:"testFile"`
	TestRatio        float64  `yaml:"testRatio"`
	Seed             int64    `yaml:"seed"`
	DropColumns      []string `yaml:"dropColumns"`
}

type ValidationConfig struct {
	SchemaPath string  `yaml:"schemaPath"`
	Threshold  float64 `yaml:"threshold"`
	ReportFile string  `yaml:"reportFile"`
}

// HistoryConfig enables the sqlite run ledger when Path is set.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// NotifyConfig enables verdict publishing when Brokers is non-empty.
type NotifyConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// UploadConfig enables artifact upload when Bucket is set.
type UploadConfig struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
	Prefix string `yaml:"prefix"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Dir    string `yaml:"dir"`
	SeqURL string `yaml:"seqURL"`
}

// Default mirrors the constants the pipeline ran with before it was
// configurable.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{Name: "NetworkSecurity", ArtifactDir: "Artifacts"},
		Source: SourceConfig{
			Type:       "mongodb",
			Database:   "network_security",
			Collection: "phishing_data",
			MaxRecords: 100000,
			Timeout:    5 * time.Second,
		},
		Ingestion: IngestionConfig{
			FeatureStoreFile: "phisingData.csv",
			TrainFile:        "train.csv",
			TestFile:         "test.csv",
			TestRatio:        0.2,
			Seed:             42,
			DropColumns:      []string{"_id"},
		},
		Validation: ValidationConfig{
			SchemaPath: "data_schema/schema.yaml",
			Threshold:  0.05,
			ReportFile: "report.yaml",
		},
		Notify:  NotifyConfig{Topic: "driftgate.verdicts"},
		Logging: LoggingConfig{Level: "info", Dir: "logs"},
	}
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewEnv returns a viper instance reading DRIFTGATE_* variables, with
// MONGODB_URI accepted as the source URI.
func NewEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("DRIFTGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("config", DefaultPath)
	_ = v.BindEnv("source.uri", "DRIFTGATE_SOURCE_URI", "MONGODB_URI")
	return v
}

// ApplyEnv overlays environment values on a loaded config and re-validates.
func (c *Config) ApplyEnv(v *viper.Viper) error {
	str := func(key string, dst *string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	str("source.type", &c.Source.Type)
	str("source.uri", &c.Source.URI)
	str("source.database", &c.Source.Database)
	str("source.collection", &c.Source.Collection)
	str("source.path", &c.Source.Path)
	str("validation.schemapath", &c.Validation.SchemaPath)
	str("history.path", &c.History.Path)
	str("upload.bucket", &c.Upload.Bucket)
	str("upload.region", &c.Upload.Region)
	str("logging.level", &c.Logging.Level)
	str("logging.sequrl", &c.Logging.SeqURL)
	if v.IsSet("validation.threshold") {
		c.Validation.Threshold = v.GetFloat64("validation.threshold")
	}
	if s := v.GetString("notify.brokers"); s != "" {
		c.Notify.Brokers = splitList(s)
	}
	if s := v.GetString("source.brokers"); s != "" {
		c.Source.Brokers = splitList(s)
	}
	return c.validate()
}

func (c *Config) validate() error {
	if c.Pipeline.ArtifactDir == "" {
		return errors.New("pipeline.artifactDir is required")
	}
	switch c.Source.Type {
	case "mongodb", "mysql", "sqlite":
		if c.Source.Collection == "" {
			return fmt.Errorf("source.collection is required for %s", c.Source.Type)
		}
	case "kafka":
		if len(c.Source.Brokers) == 0 {
			return errors.New("source.brokers is required for kafka")
		}
		if c.Source.Collection == "" {
			return errors.New("source.collection (topic) is required for kafka")
		}
	case "csv":
		if c.Source.Path == "" {
			return errors.New("source.path is required for csv")
		}
	default:
		return fmt.Errorf("unsupported source.type %q", c.Source.Type)
	}
	if c.Source.Type == "mongodb" && c.Source.Database == "" {
		return errors.New("source.database is required for mongodb")
	}
	if c.Ingestion.TestRatio <= 0 || c.Ingestion.TestRatio >= 1 {
		return fmt.Errorf("ingestion.testRatio must be in (0,1), got %v", c.Ingestion.TestRatio)
	}
	for _, name := range []string{c.Ingestion.FeatureStoreFile, c.Ingestion.TrainFile, c.Ingestion.TestFile, c.Validation.ReportFile} {
		if name == "" {
			return errors.New("ingestion and validation file names must not be empty")
		}
	}
	if c.Validation.SchemaPath == "" {
		return errors.New("validation.schemaPath is required")
	}
	if c.Validation.Threshold <= 0 || c.Validation.Threshold >= 1 {
		return fmt.Errorf("validation.threshold must be in (0,1), got %v", c.Validation.Threshold)
	}
	if len(c.Notify.Brokers) > 0 && c.Notify.Topic == "" {
		return errors.New("notify.topic is required when brokers are set")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
