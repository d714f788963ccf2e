package redisadapter

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"quad/contexts/moderation-safety/moderation-service/ports"
)

const DefaultInvalidationChannel = "moderation:filters:changed"

// Invalidator drops a local rule snapshot.
type Invalidator interface {
	Invalidate()
}

type filterChange struct {
	Name      string    `json:"name"`
	Origin    string    `json:"origin"`
	ChangedAt time.Time `json:"changed_at"`
}

// FilterInvalidation fans filter edits out to every instance over a Redis
// channel. Messages from this instance are ignored by Listen since the
// editing use case already invalidated locally.
type FilterInvalidation struct {
	client  *redis.Client
	channel string
	origin  string
	logger  *slog.Logger
}

func NewFilterInvalidation(client *redis.Client, channel string, origin string, logger *slog.Logger) *FilterInvalidation {
	if strings.TrimSpace(channel) == "" {
		channel = DefaultInvalidationChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FilterInvalidation{
		client:  client,
		channel: channel,
		origin:  strings.TrimSpace(origin),
		logger:  logger,
	}
}

func (f *FilterInvalidation) NotifyFilterChanged(ctx context.Context, name string) error {
	payload, err := json.Marshal(filterChange{
		Name:      strings.TrimSpace(name),
		Origin:    f.origin,
		ChangedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, f.channel, payload).Err()
}

// Listen invalidates cache for every peer change until ctx is cancelled.
func (f *FilterInvalidation) Listen(ctx context.Context, cache Invalidator) error {
	pubsub := f.client.Subscribe(ctx, f.channel)
	defer func() {
		if err := pubsub.Close(); err != nil {
			f.logger.Warn("filter invalidation pubsub close failed",
				"event", "moderation_filter_invalidation_close_failed",
				"module", "moderation-safety/moderation-service",
				"layer", "adapter",
				"error", err.Error(),
			)
		}
	}()
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			f.handle(msg.Payload, cache)
		}
	}
}

func (f *FilterInvalidation) handle(payload string, cache Invalidator) bool {
	var change filterChange
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		f.logger.Warn("filter invalidation message rejected",
			"event", "moderation_filter_invalidation_decode_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "adapter",
			"error", err.Error(),
		)
		return false
	}
	if f.origin != "" && change.Origin == f.origin {
		return false
	}
	cache.Invalidate()
	f.logger.Debug("rule cache invalidated by peer",
		"event", "moderation_filter_invalidation_applied",
		"module", "moderation-safety/moderation-service",
		"layer", "adapter",
		"filter_name", change.Name,
		"origin", change.Origin,
	)
	return true
}

var _ ports.FilterChangeNotifier = (*FilterInvalidation)(nil)
