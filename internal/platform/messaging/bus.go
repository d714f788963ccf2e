package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"quad/internal/shared/events"
)

const (
	subscriberBuffer   = 128
	DefaultPublishWait = time.Second
)

// ErrSubscriberBusy is returned when a subscriber buffer stays full for the
// whole publish wait. The event was not delivered to that subscriber.
var ErrSubscriberBusy = errors.New("messaging: subscriber busy")

// Bus is the in-process publish/subscribe transport used when no broker is
// configured. A full subscriber buffer holds the publisher for at most
// PublishWait before the publish fails.
type Bus struct {
	PublishWait time.Duration

	mu          sync.RWMutex
	subscribers map[string][]chan events.Envelope
	logger      *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		PublishWait: DefaultPublishWait,
		subscribers: make(map[string][]chan events.Envelope),
		logger:      logger,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, event events.Envelope) error {
	b.mu.RLock()
	subs := append([]chan events.Envelope(nil), b.subscribers[topic]...)
	b.mu.RUnlock()

	var busy int
	for _, sub := range subs {
		if err := b.deliver(ctx, sub, event); err != nil {
			if !errors.Is(err, ErrSubscriberBusy) {
				return err
			}
			busy++
			b.logger.Warn("subscriber buffer full, event not delivered",
				"event", "bus_publish_busy",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"event_id", event.EventID,
			)
		}
	}
	if busy > 0 {
		return fmt.Errorf("%w: topic %s, %d of %d subscribers", ErrSubscriberBusy, topic, busy, len(subs))
	}

	b.logger.Debug("event published",
		"event", "bus_publish",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

func (b *Bus) deliver(ctx context.Context, sub chan events.Envelope, event events.Envelope) error {
	select {
	case sub <- event:
		return nil
	default:
	}
	wait := b.PublishWait
	if wait <= 0 {
		return ErrSubscriberBusy
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case sub <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrSubscriberBusy
	}
}

func (b *Bus) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, events.Envelope) error,
) error {
	ch := make(chan events.Envelope, subscriberBuffer)

	b.mu.Lock()
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.removeSubscriber(topic, ch)
				return
			case event := <-ch:
				if err := handler(ctx, event); err != nil {
					b.logger.Error("consumer handler failed",
						"event", "bus_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

func (b *Bus) Close() error {
	return nil
}

func (b *Bus) removeSubscriber(topic string, target chan events.Envelope) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := b.subscribers[topic]
	if len(items) == 0 {
		return
	}
	filtered := make([]chan events.Envelope, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	b.subscribers[topic] = filtered
}
