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

type SubmitAppealCommand struct {
	ActionID string
	UserID   string
	Reason   string
	Evidence []string
}

// SubmitAppealUseCase opens an appeal. The action is flipped to appealed in
// the same atomic unit, so an action can carry at most one appeal.
type SubmitAppealUseCase struct {
	Appeals     ports.AppealRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u SubmitAppealUseCase) Execute(ctx context.Context, cmd SubmitAppealCommand) (entities.Appeal, error) {
	if strings.TrimSpace(cmd.Reason) == "" {
		return entities.Appeal{}, validationErrorf("reason is required")
	}
	if strings.TrimSpace(cmd.ActionID) == "" || strings.TrimSpace(cmd.UserID) == "" {
		return entities.Appeal{}, validationErrorf("action_id and user_id are required")
	}
	appealID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Appeal{}, domainerrors.Upstream(err)
	}
	now := u.now()
	appeal, err := u.Appeals.CreateAppeal(ctx, strings.TrimSpace(cmd.ActionID), func(action entities.ActionRecord) (entities.Appeal, error) {
		return entities.NewAppeal(appealID, action, cmd.UserID, cmd.Reason, cmd.Evidence, now)
	})
	if err != nil {
		return entities.Appeal{}, domainerrors.Upstream(err)
	}
	application.ResolveLogger(u.Logger).Info("appeal submitted",
		"event", "moderation_appeal_submitted",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"appeal_id", appeal.AppealID,
		"action_id", appeal.ActionID,
		"user_id", appeal.UserID,
		"priority", appeal.Priority,
	)
	return appeal, nil
}

func (u SubmitAppealUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
