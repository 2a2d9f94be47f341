// Package events publishes allocation and distribution reports to Kafka so
// field systems can follow each run.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher delivers one keyed event.
type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
	Close() error
}

// Event is the envelope written to the topic.
type Event struct {
	Kind      string    `json:"kind"`
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Payload   any       `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes JSON events to a single topic.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	log    *slog.Logger
}

var errNoBrokers = errors.New("at least one broker is required")

// NewKafkaPublisher builds a publisher for topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, log *slog.Logger) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errNoBrokers
	}
	if strings.TrimSpace(topic) == "" {
		return nil, fmt.Errorf("kafka topic must not be empty")
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return newKafkaPublisher(w, topic, log), nil
}

func newKafkaPublisher(w messageWriter, topic string, log *slog.Logger) *KafkaPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &KafkaPublisher{writer: w, topic: topic, log: log}
}

// Publish marshals v and writes it under key.
func (p *KafkaPublisher) Publish(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", key, err)
	}
	msg := kafka.Message{Key: []byte(key), Value: body, Time: time.Now().UTC()}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.log.Warn("event_publish_failed", "topic", p.topic, "key", key, "err", err)
		return fmt.Errorf("publish %s: %w", key, err)
	}
	p.log.Debug("event_published", "topic", p.topic, "key", key, "bytes", len(body))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Nop discards every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error { return nil }

// New returns a Kafka publisher when brokers are set and Nop otherwise.
func New(brokers []string, topic string, log *slog.Logger) (Publisher, error) {
	if len(brokers) == 0 {
		return Nop{}, nil
	}
	return NewKafkaPublisher(brokers, topic, log)
}
