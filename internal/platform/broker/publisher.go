package broker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"

	"poiharvest/internal/modules/stores/application/port"
	"poiharvest/internal/modules/stores/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes domain messages to the topic named in each message, keyed by
// resource id so every update of a feature lands on the same partition.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers []string, batchTimeout time.Duration) *KafkaPublisher {
	if batchTimeout <= 0 {
		batchTimeout = 50 * time.Millisecond
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			BatchTimeout:           batchTimeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, msgs ...*domain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	records := make([]kafka.Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg == nil {
			continue
		}
		record, err := encodeMessage(msg)
		if err != nil {
			return err
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil
	}
	if err := p.writer.WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	slog.Debug("kafka messages published", slog.Int("count", len(records)), slog.String("topic", records[0].Topic))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func encodeMessage(msg *domain.Message) (kafka.Message, error) {
	if msg.Topic == "" {
		return kafka.Message{}, fmt.Errorf("kafka publish: message for %q has no topic", msg.ResourceID)
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka publish: encode %s: %w", msg.ResourceID, err)
	}
	record := kafka.Message{
		Topic: msg.Topic,
		Value: value,
		Time:  msg.Timestamp,
	}
	if msg.ResourceID != "" {
		record.Key = []byte(msg.ResourceID)
	}
	return record, nil
}

var _ port.FeaturePublisher = (*KafkaPublisher)(nil)
