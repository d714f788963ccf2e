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

type ClaimItemCommand struct {
	ItemID      string
	ModeratorID string
}

type ClaimItemUseCase struct {
	Queue  ports.QueueRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u ClaimItemUseCase) Execute(ctx context.Context, cmd ClaimItemCommand) (entities.QueueItem, error) {
	if strings.TrimSpace(cmd.ItemID) == "" || strings.TrimSpace(cmd.ModeratorID) == "" {
		return entities.QueueItem{}, validationErrorf("item_id and moderator_id are required")
	}
	now := u.now()
	item, err := u.Queue.UpdateQueueItem(ctx, cmd.ItemID, func(item *entities.QueueItem) (ports.Effects, error) {
		return ports.Effects{}, item.Claim(strings.TrimSpace(cmd.ModeratorID), now)
	})
	if err != nil {
		return entities.QueueItem{}, domainerrors.Upstream(err)
	}
	application.ResolveLogger(u.Logger).Info("queue item claimed",
		"event", "moderation_item_claimed",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"item_id", item.ItemID,
		"moderator_id", cmd.ModeratorID,
	)
	return item, nil
}

func (u ClaimItemUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
