package appkafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"example.com/socialfeed/internal/logger"
	"github.com/segmentio/kafka-go"
)

var logg = logger.New()

// KafkaWriter defines an interface for writing messages to Kafka.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, messages ...kafka.Message) error
	Close() error
}

// KafkaConfig holds configuration parameters for Kafka.
type KafkaConfig struct {
	Brokers      []string      // list of Kafka brokers
	Topic        string        // topic name
	WriteTimeout time.Duration // write timeout duration
}

// EventType names an activity.
type EventType string

const (
	EventFollow  EventType = "follow"
	EventLike    EventType = "like"
	EventRetweet EventType = "retweet"
	EventPost    EventType = "post"
)

// Event is one user activity. State is the membership after a toggle.
type Event struct {
	Type      EventType `json:"type"`
	ActorID   string    `json:"actor_id"`
	SubjectID string    `json:"subject_id"`
	PostID    string    `json:"post_id,omitempty"`
	State     bool      `json:"state"`
	At        time.Time `json:"at"`
}

// Publisher emits activity events. Implementations are best effort.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// ActivityPublisher writes events as JSON to a Kafka topic, keyed by subject.
type ActivityPublisher struct {
	writer KafkaWriter
}

// Activity events are flushed as they arrive rather than waiting to fill a batch.
const (
	eventBatchSize    = 1
	eventBatchTimeout = 10 * time.Millisecond
)

// NewKafkaWriter creates an asynchronous topic writer that hashes keys onto
// partitions. WriteMessages returns without waiting for the broker; delivery
// failures are logged from the completion callback.
func NewKafkaWriter(cfg KafkaConfig) *kafka.Writer {
	if len(cfg.Brokers) == 0 {
		cfg.Brokers = []string{"localhost:9092"}
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchSize:              eventBatchSize,
		BatchTimeout:           eventBatchTimeout,
		Async:                  true,
		Completion:             logDeliveryFailure,
	}
}

func logDeliveryFailure(messages []kafka.Message, err error) {
	if err != nil {
		logg.Warn("broker", fmt.Sprintf("Failed to deliver %d activity event(s)", len(messages)), err)
	}
}

func NewActivityPublisher(w KafkaWriter) *ActivityPublisher {
	return &ActivityPublisher{writer: w}
}

// NewPublisher returns a Kafka publisher, or a no-op one when no broker is configured.
func NewPublisher(cfg KafkaConfig) Publisher {
	if len(cfg.Brokers) == 0 || cfg.Brokers[0] == "" {
		logg.Info("broker", "No Kafka broker configured, activity events disabled")
		return NopPublisher{}
	}
	logg.Info("broker", "Publishing activity events to topic "+cfg.Topic)
	return NewActivityPublisher(NewKafkaWriter(cfg))
}

func (p *ActivityPublisher) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := kafka.Message{Key: []byte(ev.SubjectID), Value: value}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", ev.Type, err)
	}
	return nil
}

func (p *ActivityPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, ev Event) error { return nil }
func (NopPublisher) Close() error                                { return nil }
