package ports

import (
	"context"
	"time"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	"quad/internal/shared/events"
	"quad/internal/shared/outbox"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts identifier generation for items, actions and outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// IdempotencyRecord maps a client key to the action it produced.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	ResultID    string
	ExpiresAt   time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	Put(ctx context.Context, record IdempotencyRecord) error
}

type EventEnvelope = events.Envelope

type OutboxMessage = outbox.Message

// Effects are rows written in the same atomic unit as the aggregate they
// accompany. A mutation that returns an error writes nothing.
type Effects struct {
	Actions   []entities.ActionRecord
	Penalties []entities.PenaltyTask
	Events    []OutboxMessage
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// PenaltyQueue is the durable hand-off to the reputation collaborator.
// ClaimDuePenalties leases the returned tasks until now+lease so concurrent
// dispatchers never receive the same task; an unfinished lease expires and
// the task becomes due again.
type PenaltyQueue interface {
	ClaimDuePenalties(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]entities.PenaltyTask, error)
	MarkPenaltyDone(ctx context.Context, taskID string, attempts int, doneAt time.Time) error
	MarkPenaltyFailed(ctx context.Context, taskID string, attempts int, nextAttemptAt time.Time, lastError string, dead bool) error
}

// EventDedupStore enforces idempotent processing for consumed events.
type EventDedupStore interface {
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
}
