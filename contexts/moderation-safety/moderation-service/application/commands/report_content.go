package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/domain/services"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

type ReportContentCommand struct {
	ItemID     string
	ReporterID string
	Reason     string
	Details    string
}

// ReportContentUseCase appends a user report and recomputes priority in the
// same atomic update.
type ReportContentUseCase struct {
	Queue  ports.QueueRepository
	Clock  ports.Clock
	Logger *slog.Logger
}

func (u ReportContentUseCase) Execute(ctx context.Context, cmd ReportContentCommand) (entities.QueueItem, error) {
	if strings.TrimSpace(cmd.ItemID) == "" || strings.TrimSpace(cmd.ReporterID) == "" || strings.TrimSpace(cmd.Reason) == "" {
		return entities.QueueItem{}, validationErrorf("item_id, reporter_id and reason are required")
	}
	now := u.now()
	item, err := u.Queue.UpdateQueueItem(ctx, cmd.ItemID, func(item *entities.QueueItem) (ports.Effects, error) {
		if err := item.AddReport(entities.Report{
			ReporterID: strings.TrimSpace(cmd.ReporterID),
			Reason:     strings.TrimSpace(cmd.Reason),
			Details:    strings.TrimSpace(cmd.Details),
			ReportedAt: now,
		}); err != nil {
			return ports.Effects{}, err
		}
		item.Priority = services.RecalculatePriority(item.Analysis, item.ReportCount)
		return ports.Effects{}, nil
	})
	if err != nil {
		return entities.QueueItem{}, domainerrors.Upstream(err)
	}
	application.ResolveLogger(u.Logger).Info("content reported",
		"event", "moderation_content_reported",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"item_id", item.ItemID,
		"reporter_id", cmd.ReporterID,
		"report_count", item.ReportCount,
		"priority", item.Priority,
	)
	return item, nil
}

func (u ReportContentUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
