// Package kafka loads a dataset from JSON object messages on a Kafka topic.
package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
	"github.com/alexanderjulianmartinez/drift-gate/internal/frame"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Loader struct {
	r          messageReader
	topic      string
	maxRecords int
	timeout    time.Duration
}

func New(cfg config.SourceConfig) (*Loader, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers provided")
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Collection,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	return newLoader(r, cfg), nil
}

func newLoader(r messageReader, cfg config.SourceConfig) *Loader {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	maxRecords := cfg.MaxRecords
	if maxRecords <= 0 {
		maxRecords = 100000
	}
	return &Loader{r: r, topic: cfg.Collection, maxRecords: maxRecords, timeout: timeout}
}

func (l *Loader) Name() string {
	return "kafka:" + l.topic
}

func (l *Loader) Close() error {
	return l.r.Close()
}

// Fetch reads messages until maxRecords is reached or the topic stays quiet
// for the configured timeout. Messages that are not JSON objects are skipped.
func (l *Loader) Fetch(ctx context.Context) (*frame.Frame, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	var docs []frame.Document
	for count := 0; count < l.maxRecords; count++ {
		m, err := l.r.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				break
			}
			return nil, fmt.Errorf("read %s: %w", l.topic, err)
		}
		doc, err := decodeObject(m.Value)
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return frame.FromDocuments(docs), nil
}

// decodeObject decodes a JSON object keeping key order. Nested objects and
// arrays are kept as raw JSON text.
func decodeObject(data []byte) (frame.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("message is not a JSON object")
	}

	var doc frame.Document
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		doc = append(doc, frame.Field{Key: key, Value: scalar(raw)})
	}
	return doc, nil
}

func scalar(raw json.RawMessage) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	switch v.(type) {
	case map[string]any, []any:
		return string(raw)
	}
	return v
}
