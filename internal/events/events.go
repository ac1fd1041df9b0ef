package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TopicUsers    = "user_events"
	TopicMenus    = "menu_events"
	TopicCarts    = "cart_events"
	TopicPayments = "payment_events"
)

const (
	UserCreated      = "user_created"
	UserPromoted     = "user_promoted"
	UserDeleted      = "user_deleted"
	MenuCreated      = "menu_created"
	MenuUpdated      = "menu_updated"
	MenuDeleted      = "menu_deleted"
	CartItemAdded    = "cart_item_added"
	CartItemRemoved  = "cart_item_removed"
	PaymentCompleted = "payment_completed"
)

type Event struct {
	Type  string    `json:"type"`
	ID    string    `json:"id"`
	Email string    `json:"email,omitempty"`
	Count int64     `json:"count,omitempty"`
	At    time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, ev Event) error
	Close() error
}

// Nop drops every event. It is used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, Event) error { return nil }
func (Nop) Close() error                                 { return nil }

type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher returns a publisher whose writes never block the caller.
// Delivery failures are reported to logger once the writer gives up.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) *KafkaPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			MaxAttempts:            3,
			AllowAutoTopicCreation: true,
			Async:                  true,
			Completion: func(messages []kafka.Message, err error) {
				if err == nil {
					return
				}
				for _, m := range messages {
					logger.Error("kafka_write_error", "topic", m.Topic, "key", string(m.Key), "error", err)
				}
			},
		},
	}
}

// New returns a Kafka publisher, or Nop when brokers is empty.
func New(brokers []string, logger *slog.Logger) Publisher {
	if len(brokers) == 0 {
		return Nop{}
	}
	return NewKafkaPublisher(brokers, logger)
}

func Message(topic string, ev Event) (kafka.Message, error) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}
	return kafka.Message{Topic: topic, Key: []byte(ev.ID), Value: data}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, topic string, ev Event) error {
	msg, err := Message(topic, ev)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write to %s failed: %w", topic, err)
	}
	return nil
}

// Close flushes pending writes.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
