package commands

import (
	"context"
	"log/slog"
	"strings"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultBulkConcurrency = 8
	MaxBulkItems           = 500
)

type BulkActionCommand struct {
	ItemIDs     []string
	ModeratorID string
	Action      entities.Action
	Reason      string
}

type BulkItemResult struct {
	ItemID   string
	Success  bool
	ActionID string
	Error    string
}

type BulkActionResult struct {
	Results   []BulkItemResult
	Succeeded int
	Failed    int
}

// BulkActionUseCase applies one decision to many items. Every input id yields
// exactly one result in input order; item failures never abort the batch.
type BulkActionUseCase struct {
	TakeAction  TakeActionUseCase
	Concurrency int
	Logger      *slog.Logger
}

func (u BulkActionUseCase) Execute(ctx context.Context, cmd BulkActionCommand) (BulkActionResult, error) {
	if len(cmd.ItemIDs) == 0 || strings.TrimSpace(cmd.ModeratorID) == "" {
		return BulkActionResult{}, validationErrorf("item_ids and moderator_id are required")
	}
	if len(cmd.ItemIDs) > MaxBulkItems {
		return BulkActionResult{}, validationErrorf("at most %d items per bulk action", MaxBulkItems)
	}
	if !cmd.Action.IsValid() {
		return BulkActionResult{}, validationErrorf("unknown action %q", cmd.Action)
	}

	results := make([]BulkItemResult, len(cmd.ItemIDs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(u.concurrency())
	for index, itemID := range cmd.ItemIDs {
		group.Go(func() error {
			outcome, err := u.TakeAction.Execute(groupCtx, TakeActionCommand{
				ItemID:      itemID,
				ModeratorID: cmd.ModeratorID,
				Action:      cmd.Action,
				Reason:      cmd.Reason,
			})
			if err != nil {
				results[index] = BulkItemResult{ItemID: itemID, Error: err.Error()}
				return nil
			}
			results[index] = BulkItemResult{ItemID: itemID, Success: true, ActionID: outcome.Action.ActionID}
			return nil
		})
	}
	_ = group.Wait()

	summary := BulkActionResult{Results: results}
	for _, result := range results {
		if result.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	bulkItemCount.WithLabelValues("success").Add(float64(summary.Succeeded))
	bulkItemCount.WithLabelValues("failure").Add(float64(summary.Failed))

	application.ResolveLogger(u.Logger).Info("bulk action completed",
		"event", "moderation_bulk_action_completed",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"moderator_id", cmd.ModeratorID,
		"action", string(cmd.Action),
		"requested", len(cmd.ItemIDs),
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (u BulkActionUseCase) concurrency() int {
	if u.Concurrency <= 0 {
		return DefaultBulkConcurrency
	}
	return u.Concurrency
}
