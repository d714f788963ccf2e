package outbox

import (
	"encoding/json"
	"time"

	"quad/internal/shared/events"
)

const (
	StatusPending   = "pending"
	StatusPublished = "published"
)

// Message is an outbox row persisted in the same transaction as the state
// change it describes. The relay publishes pending rows to the bus.
type Message struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

// FromEnvelope encodes an envelope as an outbox row keyed by the event id.
func FromEnvelope(envelope events.Envelope) (Message, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return Message{}, err
	}
	return Message{
		OutboxID:     envelope.EventID,
		EventType:    envelope.EventType,
		PartitionKey: envelope.PartitionKey,
		Payload:      payload,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}, nil
}

// Decode restores the envelope carried by a row.
func (m Message) Decode() (events.Envelope, error) {
	var envelope events.Envelope
	if err := json.Unmarshal(m.Payload, &envelope); err != nil {
		return events.Envelope{}, err
	}
	return envelope, nil
}
