package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/premarket-digest/internal/models"
)

// MessageWriter is the subset of *kafka.Writer used by Kafka.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes each digest as a JSON envelope keyed by a fresh id.
type Kafka struct {
	w     MessageWriter
	topic string
	now   func() time.Time
	newID func() string
}

// NewKafka builds a writer for topic. One attempt per digest, no retries.
func NewKafka(brokers []string, topic string) *Kafka {
	w := kafka.NewWriter(kafka.WriterConfig{
		Brokers:     brokers,
		Topic:       topic,
		MaxAttempts: 1,
	})
	return NewKafkaWithWriter(w, topic)
}

func NewKafkaWithWriter(w MessageWriter, topic string) *Kafka {
	return &Kafka{w: w, topic: topic, now: time.Now, newID: uuid.NewString}
}

func (k *Kafka) Name() string { return "kafka:" + k.topic }

func (k *Kafka) Notify(ctx context.Context, d models.Digest) error {
	env := models.NewEnvelope(k.newID(), d, k.now())
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(env.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := k.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write digest to %s: %w", k.topic, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.w.Close()
}
