package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/application/analysis"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/domain/services"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

const (
	SubmissionApproved = "approved"
	SubmissionQueued   = "queued"
)

type SubmitForModerationCommand struct {
	Content  entities.ContentRef
	UserID   string
	Snapshot entities.ContentSnapshot
}

type SubmitForModerationResult struct {
	Status         string
	QueueItem      entities.QueueItem
	Recommendation entities.Recommendation
}

// SubmitForModerationUseCase analyses content and either auto-approves it
// (kept as an audit item) or places it on the review queue.
type SubmitForModerationUseCase struct {
	Analyzer    ContentAnalyzer
	Queue       ports.QueueRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u SubmitForModerationUseCase) Execute(ctx context.Context, cmd SubmitForModerationCommand) (SubmitForModerationResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if cmd.Content == nil || strings.TrimSpace(cmd.UserID) == "" {
		return SubmitForModerationResult{}, validationErrorf("content and user_id are required")
	}

	result := u.Analyzer.Analyze(ctx, analysis.AnalyzeInput{
		Text:      cmd.Snapshot.Text,
		ImageURLs: cmd.Snapshot.ImageURLs,
		VideoURLs: cmd.Snapshot.VideoURLs,
		Kind:      cmd.Content.Kind(),
	})
	recommendation := services.Recommend(result)

	itemID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return SubmitForModerationResult{}, domainerrors.Upstream(err)
	}
	now := u.now()
	item, err := entities.NewQueueItem(itemID, cmd.Content, cmd.UserID, cmd.Snapshot, result,
		services.InitialPriority(result, recommendation), now)
	if err != nil {
		return SubmitForModerationResult{}, err
	}

	status := SubmissionQueued
	if !recommendation.RequiresReview {
		item.AutoApprove(now)
		status = SubmissionApproved
	}
	if err := u.Queue.CreateQueueItem(ctx, item); err != nil {
		logger.Error("queue item create failed",
			"event", "moderation_submit_create_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "application",
			"content_id", cmd.Content.ID(),
			"error", err.Error(),
		)
		return SubmitForModerationResult{}, domainerrors.Upstream(err)
	}

	logger.Info("content submitted for moderation",
		"event", "moderation_content_submitted",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"item_id", item.ItemID,
		"content_kind", string(cmd.Content.Kind()),
		"content_id", cmd.Content.ID(),
		"status", status,
		"priority", item.Priority,
	)
	return SubmitForModerationResult{
		Status:         status,
		QueueItem:      item,
		Recommendation: recommendation,
	}, nil
}

func (u SubmitForModerationUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
