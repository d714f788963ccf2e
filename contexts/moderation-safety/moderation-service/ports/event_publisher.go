package ports

import (
	"context"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
)

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(ctx context.Context, topic string, consumerGroup string, handler func(context.Context, EventEnvelope) error) error
}

// EnqueueRequest is the payload handed from the ingestion gate to the worker.
type EnqueueRequest struct {
	ContentKind    entities.ContentKind     `json:"content_kind"`
	ContentID      string                   `json:"content_id"`
	UserID         string                   `json:"user_id"`
	Snapshot       entities.ContentSnapshot `json:"snapshot"`
	Analysis       entities.AnalysisResult  `json:"analysis"`
	Recommendation entities.Recommendation  `json:"recommendation"`
}

// EnqueueDispatcher hands an analysed submission to the queue asynchronously.
type EnqueueDispatcher interface {
	DispatchEnqueue(ctx context.Context, request EnqueueRequest) error
}

// ReputationClient is the penalty side of the reputation collaborator.
type ReputationClient interface {
	PenalizeUser(ctx context.Context, userID string, actionKind entities.Action, referenceID string) error
}

// FilterChangeNotifier tells peer instances to drop their rule cache.
type FilterChangeNotifier interface {
	NotifyFilterChanged(ctx context.Context, name string) error
}

const (
	TopicDecisionRecorded = "moderation.decision_recorded"
	TopicActionReversed   = "moderation.action_reversed"
	TopicActionExpired    = "moderation.action_expired"
	TopicAppealResolved   = "moderation.appeal_resolved"
	TopicEnqueueRequested = "moderation.enqueue_requested"
)
