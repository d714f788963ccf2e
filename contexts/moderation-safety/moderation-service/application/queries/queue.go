package queries

import (
	"context"
	"strings"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

type GetQueueQuery struct {
	Status      entities.QueueStatus
	Category    entities.Category
	MaxPriority int
	ModeratorID string
	Page        int
	Limit       int
}

type QueuePage struct {
	Items      []entities.QueueItem
	Total      int
	Page       int
	TotalPages int
}

type QueueQueryUseCase struct {
	Queue ports.QueueRepository
}

// List returns one page ordered by priority then age. Status defaults to pending.
func (uc QueueQueryUseCase) List(ctx context.Context, query GetQueueQuery) (QueuePage, error) {
	status := query.Status
	if status == "" {
		status = entities.QueueStatusPending
	}
	if _, ok := entities.ParseQueueStatus(string(status)); !ok {
		return QueuePage{}, domainerrors.ErrValidation
	}
	if query.Category != "" && !query.Category.IsValid() {
		return QueuePage{}, domainerrors.ErrValidation
	}
	page := NewPage(query.Page, query.Limit)
	items, total, err := uc.Queue.ListQueue(ctx, ports.QueueListFilter{
		Status:      status,
		Category:    query.Category,
		MaxPriority: query.MaxPriority,
		ModeratorID: strings.TrimSpace(query.ModeratorID),
		Offset:      page.Offset(),
		Limit:       page.Limit,
	})
	if err != nil {
		return QueuePage{}, domainerrors.Upstream(err)
	}
	return QueuePage{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		TotalPages: page.TotalPages(total),
	}, nil
}

func (uc QueueQueryUseCase) Get(ctx context.Context, itemID string) (entities.QueueItem, error) {
	item, err := uc.Queue.GetQueueItem(ctx, strings.TrimSpace(itemID))
	if err != nil {
		return entities.QueueItem{}, domainerrors.Upstream(err)
	}
	return item, nil
}
