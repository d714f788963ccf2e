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

type ReverseActionCommand struct {
	ActionID   string
	ReviewerID string
	Reason     string
}

// ReverseActionUseCase marks an action reversed and queues a restore penalty
// so the reputation side can undo its effect.
type ReverseActionUseCase struct {
	Actions     ports.ActionRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u ReverseActionUseCase) Execute(ctx context.Context, cmd ReverseActionCommand) (entities.ActionRecord, error) {
	if strings.TrimSpace(cmd.ActionID) == "" || strings.TrimSpace(cmd.ReviewerID) == "" || strings.TrimSpace(cmd.Reason) == "" {
		return entities.ActionRecord{}, validationErrorf("action_id, reviewer_id and reason are required")
	}
	penaltyID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.ActionRecord{}, domainerrors.Upstream(err)
	}
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.ActionRecord{}, domainerrors.Upstream(err)
	}
	now := u.now()
	record, err := u.Actions.UpdateAction(ctx, cmd.ActionID, func(record *entities.ActionRecord) (ports.Effects, error) {
		if err := record.Reverse(strings.TrimSpace(cmd.ReviewerID), cmd.Reason, now); err != nil {
			return ports.Effects{}, err
		}
		event, err := actionReversedEvent(eventID, *record)
		if err != nil {
			return ports.Effects{}, err
		}
		effects := ports.Effects{Events: []ports.OutboxMessage{event}}
		if record.Action != entities.ActionApprove {
			effects.Penalties = []entities.PenaltyTask{entities.NewPenaltyTask(penaltyID, *record, entities.ActionRestore, now)}
		}
		return effects, nil
	})
	if err != nil {
		return entities.ActionRecord{}, domainerrors.Upstream(err)
	}
	application.ResolveLogger(u.Logger).Info("moderation action reversed",
		"event", "moderation_action_reversed",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"action_id", record.ActionID,
		"reviewer_id", cmd.ReviewerID,
	)
	return record, nil
}

func (u ReverseActionUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
