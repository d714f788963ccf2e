package queries

import (
	"context"
	"time"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

type Statistics struct {
	From           *time.Time
	To             *time.Time
	QueueByStatus  map[entities.QueueStatus]int
	ActionsByKind  map[entities.Action]int
	AppealByStatus map[entities.AppealStatus]int
	PendingQueue   int
	TotalActions   int
	TotalAppeals   int
}

type StatisticsUseCase struct {
	Queue   ports.QueueRepository
	Actions ports.ActionRepository
	Appeals ports.AppealRepository
}

// Execute counts items by creation time within the optional window.
func (uc StatisticsUseCase) Execute(ctx context.Context, window ports.TimeRange) (Statistics, error) {
	if window.From != nil && window.To != nil && window.To.Before(*window.From) {
		return Statistics{}, domainerrors.ErrValidation
	}
	queue, err := uc.Queue.CountQueueByStatus(ctx, window)
	if err != nil {
		return Statistics{}, domainerrors.Upstream(err)
	}
	actions, err := uc.Actions.CountActionsByKind(ctx, window)
	if err != nil {
		return Statistics{}, domainerrors.Upstream(err)
	}
	appeals, err := uc.Appeals.CountAppealsByStatus(ctx, window)
	if err != nil {
		return Statistics{}, domainerrors.Upstream(err)
	}

	stats := Statistics{
		From:           window.From,
		To:             window.To,
		QueueByStatus:  make(map[entities.QueueStatus]int, len(entities.QueueStatuses)),
		ActionsByKind:  make(map[entities.Action]int, len(actions)),
		AppealByStatus: make(map[entities.AppealStatus]int, len(entities.AppealStatuses)),
	}
	for _, status := range entities.QueueStatuses {
		stats.QueueByStatus[status] = queue[status]
	}
	for kind, count := range actions {
		stats.ActionsByKind[kind] = count
		stats.TotalActions += count
	}
	for _, status := range entities.AppealStatuses {
		stats.AppealByStatus[status] = appeals[status]
		stats.TotalAppeals += appeals[status]
	}
	stats.PendingQueue = stats.QueueByStatus[entities.QueueStatusPending]
	return stats, nil
}
