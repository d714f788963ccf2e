package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

type EscalateItemCommand struct {
	ItemID      string
	ModeratorID string
	EscalateTo  string
	Reason      string
}

type EscalateItemUseCase struct {
	Queue  ports.QueueRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u EscalateItemUseCase) Execute(ctx context.Context, cmd EscalateItemCommand) (entities.QueueItem, error) {
	if strings.TrimSpace(cmd.ItemID) == "" || strings.TrimSpace(cmd.ModeratorID) == "" || strings.TrimSpace(cmd.Reason) == "" {
		return entities.QueueItem{}, validationErrorf("item_id, moderator_id and reason are required")
	}
	now := u.now()
	item, err := u.Queue.UpdateQueueItem(ctx, cmd.ItemID, func(item *entities.QueueItem) (ports.Effects, error) {
		return ports.Effects{}, item.Escalate(strings.TrimSpace(cmd.ModeratorID), cmd.EscalateTo, cmd.Reason, now)
	})
	if err != nil {
		return entities.QueueItem{}, domainerrors.Upstream(err)
	}
	application.ResolveLogger(u.Logger).Info("queue item escalated",
		"event", "moderation_item_escalated",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"item_id", item.ItemID,
		"moderator_id", cmd.ModeratorID,
		"escalated_to", item.EscalatedTo,
	)
	return item, nil
}

func (u EscalateItemUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
