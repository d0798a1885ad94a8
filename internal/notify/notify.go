// Package notify publishes run verdicts to Kafka.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	kafka "github.com/segmentio/kafka-go"

	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
	"github.com/alexanderjulianmartinez/drift-gate/pkg/types"
)

type Notifier interface {
	Publish(ctx context.Context, r types.RunResult) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes one JSON message per run, keyed by run id.
type Publisher struct {
	w     messageWriter
	topic string
}

// New returns a Kafka publisher, or Nop when no brokers are configured.
func New(cfg config.NotifyConfig) Notifier {
	if len(cfg.Brokers) == 0 {
		return Nop{}
	}
	w := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Publisher{w: w, topic: cfg.Topic}
}

func (p *Publisher) Publish(ctx context.Context, r types.RunResult) error {
	value, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal run result: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(r.RunID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "status", Value: []byte(r.Status())},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.w.Close()
}

type Nop struct{}

func (Nop) Publish(context.Context, types.RunResult) error { return nil }
func (Nop) Close() error                                   { return nil }
