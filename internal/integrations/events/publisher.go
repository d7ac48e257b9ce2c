package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config настройки Kafka
type Config struct {
	Brokers      string // "host1:9092,host2:9092"
	Topic        string
	WriteTimeout time.Duration
	BatchTimeout time.Duration
}

// DefaultBatchTimeout сколько writer ждет добора пачки перед отправкой.
// Синхронный WriteMessages возвращается не раньше этого срока (в kafka-go по умолчанию 1s).
const DefaultBatchTimeout = 10 * time.Millisecond

// messageWriter часть kafka.Writer, нужная издателю
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher публикует события записей в Kafka.
// Ключ сообщения - ID записи, поэтому события одной записи попадают в одну партицию.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher создает издателя
func NewKafkaPublisher(cfg Config) (*KafkaPublisher, error) {
	brokers := SplitBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = DefaultBatchTimeout
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
		BatchTimeout: cfg.BatchTimeout,
	}

	return newKafkaPublisher(writer, cfg.Topic), nil
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

// Publish отправляет одно событие
func (p *KafkaPublisher) Publish(ctx context.Context, event AppointmentEvent) error {
	return p.PublishBatch(ctx, []AppointmentEvent{event})
}

// PublishBatch отправляет пачку событий одним вызовом WriteMessages
func (p *KafkaPublisher) PublishBatch(ctx context.Context, batch []AppointmentEvent) error {
	if len(batch) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(batch))
	for _, event := range batch {
		msg, err := toMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("%w: topic=%s, events=%d: %v", ErrPublish, p.topic, len(msgs), err)
	}

	return nil
}

func toMessage(event AppointmentEvent) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("%w: marshal event: %v", ErrPublish, err)
	}

	return kafka.Message{
		Key:   []byte(event.AppointmentID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}, nil
}

// Close закрывает writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// SplitBrokers разбирает список брокеров через запятую
func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NoopPublisher отбрасывает события, когда Kafka не настроена
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, AppointmentEvent) error { return nil }
