package application

import (
	"time"

	"quad/contexts/moderation-safety/moderation-service/ports"
	"quad/internal/shared/events"
	"quad/internal/shared/outbox"
)

const SourceService = "moderation-service"

// NewOutboxEvent builds the outbox row for a moderation event.
func NewOutboxEvent(
	eventID string,
	eventType string,
	partitionKeyPath string,
	partitionKey string,
	occurredAt time.Time,
	data map[string]any,
) (ports.OutboxMessage, error) {
	envelope, err := events.New(eventID, eventType, SourceService, partitionKeyPath, partitionKey, occurredAt, data)
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return outbox.FromEnvelope(envelope)
}
