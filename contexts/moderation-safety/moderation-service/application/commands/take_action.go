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

type TakeActionCommand struct {
	IdempotencyKey string
	ItemID         string
	ModeratorID    string
	Action         entities.Action
	Reason         string
	Notes          string
	Duration       time.Duration
}

type TakeActionResult struct {
	QueueItem entities.QueueItem
	Action    entities.ActionRecord
	Replayed  bool
}

// TakeActionUseCase records a moderator decision. The queue transition, the
// action record, the penalty task and the outbox event commit together.
type TakeActionUseCase struct {
	Queue          ports.QueueRepository
	Actions        ports.ActionRepository
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func (u TakeActionUseCase) Execute(ctx context.Context, cmd TakeActionCommand) (TakeActionResult, error) {
	logger := application.ResolveLogger(u.Logger)
	cmd.ItemID = strings.TrimSpace(cmd.ItemID)
	cmd.ModeratorID = strings.TrimSpace(cmd.ModeratorID)
	cmd.IdempotencyKey = strings.TrimSpace(cmd.IdempotencyKey)
	if cmd.ItemID == "" || cmd.ModeratorID == "" {
		return TakeActionResult{}, validationErrorf("item_id and moderator_id are required")
	}
	if !cmd.Action.IsValid() {
		return TakeActionResult{}, validationErrorf("unknown action %q", cmd.Action)
	}
	if cmd.Duration < 0 {
		return TakeActionResult{}, validationErrorf("duration must not be negative")
	}

	now := u.now()
	var requestHash string
	if cmd.IdempotencyKey != "" && u.Idempotency != nil {
		hash, err := hashRequest(struct {
			ItemID      string          `json:"item_id"`
			ModeratorID string          `json:"moderator_id"`
			Action      entities.Action `json:"action"`
			Reason      string          `json:"reason"`
			Notes       string          `json:"notes"`
			Duration    time.Duration   `json:"duration"`
		}{cmd.ItemID, cmd.ModeratorID, cmd.Action, strings.TrimSpace(cmd.Reason), strings.TrimSpace(cmd.Notes), cmd.Duration})
		if err != nil {
			return TakeActionResult{}, err
		}
		requestHash = hash
		existing, found, err := u.Idempotency.Get(ctx, idempotencyKey(cmd.IdempotencyKey), now)
		if err != nil {
			return TakeActionResult{}, domainerrors.Upstream(err)
		}
		if found {
			if existing.RequestHash != requestHash {
				return TakeActionResult{}, domainerrors.ErrIdempotencyConflict
			}
			return u.replay(ctx, existing.ResultID)
		}
	}

	actionID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return TakeActionResult{}, domainerrors.Upstream(err)
	}
	penaltyID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return TakeActionResult{}, domainerrors.Upstream(err)
	}
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return TakeActionResult{}, domainerrors.Upstream(err)
	}

	var record entities.ActionRecord
	item, err := u.Queue.UpdateQueueItem(ctx, cmd.ItemID, func(item *entities.QueueItem) (ports.Effects, error) {
		if err := item.Decide(cmd.Action, cmd.ModeratorID, cmd.Reason, cmd.Notes, now); err != nil {
			return ports.Effects{}, err
		}
		built, err := entities.NewActionRecord(actionID, *item, cmd.Action, cmd.ModeratorID, cmd.Reason, cmd.Notes, cmd.Duration, now)
		if err != nil {
			return ports.Effects{}, err
		}
		record = built
		effects := ports.Effects{Actions: []entities.ActionRecord{built}}
		if cmd.Action.Penalizes() {
			effects.Penalties = append(effects.Penalties, entities.NewPenaltyTask(penaltyID, built, cmd.Action, now))
		}
		event, err := decisionRecordedEvent(eventID, *item, built)
		if err != nil {
			return ports.Effects{}, err
		}
		effects.Events = append(effects.Events, event)
		return effects, nil
	})
	if err != nil {
		logger.Warn("take action rejected",
			"event", "moderation_take_action_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "application",
			"item_id", cmd.ItemID,
			"moderator_id", cmd.ModeratorID,
			"action", string(cmd.Action),
			"error", err.Error(),
		)
		return TakeActionResult{}, domainerrors.Upstream(err)
	}
	decisionCount.WithLabelValues(string(cmd.Action)).Inc()

	if requestHash != "" {
		if err := u.Idempotency.Put(ctx, ports.IdempotencyRecord{
			Key:         idempotencyKey(cmd.IdempotencyKey),
			RequestHash: requestHash,
			ResultID:    record.ActionID,
			ExpiresAt:   now.Add(u.idempotencyTTL()),
		}); err != nil {
			logger.Error("take action idempotency save failed",
				"event", "moderation_take_action_idempotency_put_failed",
				"module", "moderation-safety/moderation-service",
				"layer", "application",
				"item_id", cmd.ItemID,
				"action_id", record.ActionID,
				"error", err.Error(),
			)
			return TakeActionResult{}, domainerrors.Upstream(err)
		}
	}

	logger.Info("moderation decision recorded",
		"event", "moderation_decision_recorded",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"item_id", item.ItemID,
		"action_id", record.ActionID,
		"action", string(record.Action),
		"moderator_id", cmd.ModeratorID,
		"status", string(item.Status),
	)
	return TakeActionResult{QueueItem: item, Action: record}, nil
}

func (u TakeActionUseCase) replay(ctx context.Context, actionID string) (TakeActionResult, error) {
	record, err := u.Actions.GetAction(ctx, actionID)
	if err != nil {
		return TakeActionResult{}, domainerrors.Upstream(err)
	}
	item, err := u.Queue.GetQueueItem(ctx, record.QueueItemID)
	if err != nil {
		return TakeActionResult{}, domainerrors.Upstream(err)
	}
	application.ResolveLogger(u.Logger).Info("take action replayed",
		"event", "moderation_take_action_replayed",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"item_id", item.ItemID,
		"action_id", record.ActionID,
	)
	return TakeActionResult{QueueItem: item, Action: record, Replayed: true}, nil
}

func (u TakeActionUseCase) idempotencyTTL() time.Duration {
	if u.IdempotencyTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return u.IdempotencyTTL
}

func (u TakeActionUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func idempotencyKey(key string) string {
	return "moderation_take_action:" + key
}
