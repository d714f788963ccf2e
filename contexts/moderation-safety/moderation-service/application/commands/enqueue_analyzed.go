package commands

import (
	"context"
	"log/slog"
	"time"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/domain/services"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

// EnqueueAnalyzedUseCase persists a pending item for content that was already
// analysed by the ingestion gate.
type EnqueueAnalyzedUseCase struct {
	Queue       ports.QueueRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u EnqueueAnalyzedUseCase) Execute(ctx context.Context, req ports.EnqueueRequest) (entities.QueueItem, error) {
	content, err := entities.NewContentRef(req.ContentKind, req.ContentID)
	if err != nil {
		return entities.QueueItem{}, err
	}
	itemID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.QueueItem{}, domainerrors.Upstream(err)
	}
	item, err := entities.NewQueueItem(itemID, content, req.UserID, req.Snapshot, req.Analysis,
		services.InitialPriority(req.Analysis, req.Recommendation), u.now())
	if err != nil {
		return entities.QueueItem{}, err
	}
	if err := u.Queue.CreateQueueItem(ctx, item); err != nil {
		return entities.QueueItem{}, domainerrors.Upstream(err)
	}
	application.ResolveLogger(u.Logger).Info("analysed content enqueued",
		"event", "moderation_content_enqueued",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"item_id", item.ItemID,
		"content_id", content.ID(),
		"priority", item.Priority,
	)
	return item, nil
}

func (u EnqueueAnalyzedUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
