package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"quad/internal/shared/events"

	"github.com/segmentio/kafka-go"
)

// Kafka publishes envelopes as JSON messages keyed by the envelope partition
// key. One writer is shared by all topics; each Subscribe call owns a reader.
type Kafka struct {
	brokers []string
	writer  *kafka.Writer
	logger  *slog.Logger

	mu      sync.Mutex
	readers []*kafka.Reader
	wg      sync.WaitGroup
}

func NewKafka(brokers []string, logger *slog.Logger) (*Kafka, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Kafka{
		brokers: brokers,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
		logger: logger,
	}, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, event events.Envelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = k.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(event.PartitionKey),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	})
	if err != nil {
		k.logger.Error("kafka publish failed",
			"event", "kafka_publish_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return fmt.Errorf("kafka publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe commits an offset only after handler returns nil, so failed
// messages are redelivered to the group.
func (k *Kafka) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, events.Envelope) error,
) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     k.brokers,
		Topic:       topic,
		GroupID:     consumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	k.mu.Lock()
	k.readers = append(k.readers, reader)
	k.mu.Unlock()

	k.wg.Add(1)
	go func() {
		defer k.wg.Done()
		k.consume(ctx, reader, topic, consumerGroup, handler)
	}()
	return nil
}

func (k *Kafka) consume(
	ctx context.Context,
	reader *kafka.Reader,
	topic string,
	consumerGroup string,
	handler func(context.Context, events.Envelope) error,
) {
	for {
		message, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			k.logger.Warn("kafka fetch failed",
				"event", "kafka_fetch_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"consumer_group", consumerGroup,
				"error", err.Error(),
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		var envelope events.Envelope
		if err := json.Unmarshal(message.Value, &envelope); err != nil {
			k.logger.Warn("dropping undecodable kafka message",
				"event", "kafka_message_invalid",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"partition", message.Partition,
				"offset", message.Offset,
				"error", err.Error(),
			)
			k.commit(ctx, reader, message, topic)
			continue
		}

		if err := handler(ctx, envelope); err != nil {
			k.logger.Error("consumer handler failed",
				"event", "kafka_consume_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"consumer_group", consumerGroup,
				"event_id", envelope.EventID,
				"event_type", envelope.EventType,
				"error", err.Error(),
			)
			continue
		}
		k.commit(ctx, reader, message, topic)
	}
}

func (k *Kafka) commit(ctx context.Context, reader *kafka.Reader, message kafka.Message, topic string) {
	if err := reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
		k.logger.Warn("kafka commit failed",
			"event", "kafka_commit_failed",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"offset", message.Offset,
			"error", err.Error(),
		)
	}
}

func (k *Kafka) Close() error {
	k.mu.Lock()
	readers := k.readers
	k.readers = nil
	k.mu.Unlock()

	var errs []error
	for _, reader := range readers {
		errs = append(errs, reader.Close())
	}
	k.wg.Wait()
	errs = append(errs, k.writer.Close())
	return errors.Join(errs...)
}
