package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaBus publishes change notifications to a Kafka topic, keyed by
// store key so per-key ordering survives partitioning. Publication is
// fire-and-forget: failures are logged, never surfaced to commands.
type KafkaBus struct {
	writer  *kafka.Writer
	log     *slog.Logger
	timeout time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	Log     *slog.Logger
	// Timeout bounds each publish attempt. Defaults to 5s.
	Timeout time.Duration
}

func NewKafkaBus(cfg *KafkaConfig) *KafkaBus {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &KafkaBus{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafka.Hash{},
		},
		log:     log,
		timeout: timeout,
	}
}

func (b *KafkaBus) PublishChange(event, key string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		err := b.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(key),
			Value: []byte(event),
		})
		if err != nil {
			b.log.Warn("kafka publish failed", "event", event, "key", key, "error", err)
		}
	}()
}

func (b *KafkaBus) Close() error {
	return b.writer.Close()
}
