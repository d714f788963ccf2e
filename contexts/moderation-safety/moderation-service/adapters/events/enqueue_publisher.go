package eventsadapter

import (
	"context"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	"quad/contexts/moderation-safety/moderation-service/ports"
	"quad/internal/shared/events"
)

// EnqueuePublisher hands analysed submissions to the enqueue consumer over
// the message bus, keyed by content id so redeliveries land on one partition.
type EnqueuePublisher struct {
	Publisher   ports.EventPublisher
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
}

func (p EnqueuePublisher) DispatchEnqueue(ctx context.Context, request ports.EnqueueRequest) error {
	eventID, err := p.IDGenerator.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := events.New(
		eventID,
		ports.TopicEnqueueRequested,
		application.SourceService,
		"data.content_id",
		request.ContentID,
		p.Clock.Now(),
		request,
	)
	if err != nil {
		return err
	}
	return p.Publisher.Publish(ctx, ports.TopicEnqueueRequested, envelope)
}

var _ ports.EnqueueDispatcher = EnqueuePublisher{}

// EnqueueHandler creates the queue item for an analysed submission.
type EnqueueHandler interface {
	Execute(ctx context.Context, request ports.EnqueueRequest) (entities.QueueItem, error)
}

// Direct enqueues in the caller's goroutine. Used when no message bus is
// configured.
type Direct struct {
	Enqueue EnqueueHandler
}

func (d Direct) DispatchEnqueue(ctx context.Context, request ports.EnqueueRequest) error {
	_, err := d.Enqueue.Execute(ctx, request)
	return err
}

var _ ports.EnqueueDispatcher = Direct{}
