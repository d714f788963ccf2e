package workers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

const defaultEnqueueConsumerGroup = "moderation-service-enqueue-cg"

type EnqueueHandler interface {
	Execute(ctx context.Context, req ports.EnqueueRequest) (entities.QueueItem, error)
}

// EnqueueConsumer turns allow_and_queue verdicts published by the request
// path into pending queue items.
type EnqueueConsumer struct {
	Subscriber    ports.EventSubscriber
	Dedup         ports.EventDedupStore
	Enqueue       EnqueueHandler
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Logger        *slog.Logger
}

func (c EnqueueConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultEnqueueConsumerGroup
	}
	if err := c.Subscriber.Subscribe(ctx, ports.TopicEnqueueRequested, group, c.handle); err != nil {
		logger.Error("enqueue consumer subscribe failed",
			"event", "moderation_enqueue_consumer_subscribe_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "worker",
			"topic", ports.TopicEnqueueRequested,
			"consumer_group", group,
			"error", err.Error(),
		)
		return err
	}
	logger.Info("enqueue consumer subscription active",
		"event", "moderation_enqueue_consumer_started",
		"module", "moderation-safety/moderation-service",
		"layer", "worker",
		"consumer_group", group,
	)
	return nil
}

func (c EnqueueConsumer) handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	alreadyProcessed, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), c.now().Add(c.dedupTTL()))
	if err != nil {
		enqueueConsumed.WithLabelValues("dedup_error").Inc()
		logger.Error("enqueue event dedupe failed",
			"event", "moderation_enqueue_dedupe_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	if alreadyProcessed {
		enqueueConsumed.WithLabelValues("replayed").Inc()
		logger.Debug("enqueue event replay skipped",
			"event", "moderation_enqueue_replayed",
			"module", "moderation-safety/moderation-service",
			"layer", "worker",
			"event_id", event.EventID,
		)
		return nil
	}

	var request ports.EnqueueRequest
	if err := json.Unmarshal(event.Data, &request); err != nil {
		enqueueConsumed.WithLabelValues("decode_error").Inc()
		logger.Error("enqueue payload decode failed",
			"event", "moderation_enqueue_decode_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "worker",
			"event_id", event.EventID,
			"error", err.Error(),
		)
		return err
	}
	item, err := c.Enqueue.Execute(ctx, request)
	if err != nil {
		enqueueConsumed.WithLabelValues("error").Inc()
		logger.Error("enqueue from event failed",
			"event", "moderation_enqueue_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "worker",
			"event_id", event.EventID,
			"content_id", request.ContentID,
			"error", err.Error(),
		)
		if errors.Is(err, domainerrors.ErrValidation) {
			// a malformed request will never succeed on redelivery
			return nil
		}
		return err
	}
	enqueueConsumed.WithLabelValues("queued").Inc()
	logger.Info("enqueue event consumed",
		"event", "moderation_enqueue_consumed",
		"module", "moderation-safety/moderation-service",
		"layer", "worker",
		"event_id", event.EventID,
		"item_id", item.ItemID,
	)
	return nil
}

func (c EnqueueConsumer) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (c EnqueueConsumer) dedupTTL() time.Duration {
	if c.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.DedupTTL
}
