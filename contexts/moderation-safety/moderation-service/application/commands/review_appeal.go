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

type StartReviewCommand struct {
	AppealID   string
	ReviewerID string
}

type ResolveAppealCommand struct {
	AppealID   string
	ReviewerID string
	Outcome    entities.AppealOutcome
	Reason     string
	NewAction  entities.Action
}

type EscalateAppealCommand struct {
	AppealID   string
	ReviewerID string
	EscalateTo string
	Reason     string
}

type AddAppealMessageCommand struct {
	AppealID string
	AuthorID string
	Body     string
}

// AppealReviewUseCase drives the reviewer side of the appeal state machine.
type AppealReviewUseCase struct {
	Appeals     ports.AppealRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u AppealReviewUseCase) StartReview(ctx context.Context, cmd StartReviewCommand) (entities.Appeal, error) {
	if strings.TrimSpace(cmd.AppealID) == "" || strings.TrimSpace(cmd.ReviewerID) == "" {
		return entities.Appeal{}, validationErrorf("appeal_id and reviewer_id are required")
	}
	now := u.now()
	appeal, err := u.Appeals.UpdateAppeal(ctx, cmd.AppealID, func(appeal *entities.Appeal) (ports.Effects, error) {
		return ports.Effects{}, appeal.StartReview(strings.TrimSpace(cmd.ReviewerID), now)
	})
	if err != nil {
		return entities.Appeal{}, domainerrors.Upstream(err)
	}
	u.logTransition("moderation_appeal_review_started", appeal)
	return appeal, nil
}

func (u AppealReviewUseCase) Resolve(ctx context.Context, cmd ResolveAppealCommand) (entities.Appeal, error) {
	if strings.TrimSpace(cmd.AppealID) == "" || strings.TrimSpace(cmd.ReviewerID) == "" || strings.TrimSpace(cmd.Reason) == "" {
		return entities.Appeal{}, validationErrorf("appeal_id, reviewer_id and reason are required")
	}
	if _, ok := entities.ParseAppealOutcome(string(cmd.Outcome)); !ok {
		return entities.Appeal{}, validationErrorf("unknown outcome %q", cmd.Outcome)
	}
	if cmd.Outcome == entities.OutcomeModify && !cmd.NewAction.IsValid() {
		return entities.Appeal{}, validationErrorf("new_action is required for modify")
	}
	eventID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return entities.Appeal{}, domainerrors.Upstream(err)
	}
	now := u.now()
	appeal, err := u.Appeals.UpdateAppeal(ctx, cmd.AppealID, func(appeal *entities.Appeal) (ports.Effects, error) {
		if err := appeal.Resolve(strings.TrimSpace(cmd.ReviewerID), cmd.Outcome, cmd.Reason, cmd.NewAction, now); err != nil {
			return ports.Effects{}, err
		}
		event, err := appealResolvedEvent(eventID, *appeal)
		if err != nil {
			return ports.Effects{}, err
		}
		return ports.Effects{Events: []ports.OutboxMessage{event}}, nil
	})
	if err != nil {
		return entities.Appeal{}, domainerrors.Upstream(err)
	}
	u.logTransition("moderation_appeal_resolved", appeal)
	return appeal, nil
}

func (u AppealReviewUseCase) Escalate(ctx context.Context, cmd EscalateAppealCommand) (entities.Appeal, error) {
	if strings.TrimSpace(cmd.AppealID) == "" || strings.TrimSpace(cmd.ReviewerID) == "" || strings.TrimSpace(cmd.EscalateTo) == "" {
		return entities.Appeal{}, validationErrorf("appeal_id, reviewer_id and escalate_to are required")
	}
	now := u.now()
	appeal, err := u.Appeals.UpdateAppeal(ctx, cmd.AppealID, func(appeal *entities.Appeal) (ports.Effects, error) {
		return ports.Effects{}, appeal.Escalate(strings.TrimSpace(cmd.ReviewerID), cmd.EscalateTo, cmd.Reason, now)
	})
	if err != nil {
		return entities.Appeal{}, domainerrors.Upstream(err)
	}
	u.logTransition("moderation_appeal_escalated", appeal)
	return appeal, nil
}

func (u AppealReviewUseCase) AddMessage(ctx context.Context, cmd AddAppealMessageCommand) (entities.Appeal, entities.AppealMessage, error) {
	if strings.TrimSpace(cmd.AppealID) == "" || strings.TrimSpace(cmd.AuthorID) == "" || strings.TrimSpace(cmd.Body) == "" {
		return entities.Appeal{}, entities.AppealMessage{}, validationErrorf("appeal_id, author_id and body are required")
	}
	now := u.now()
	var message entities.AppealMessage
	appeal, err := u.Appeals.UpdateAppeal(ctx, cmd.AppealID, func(appeal *entities.Appeal) (ports.Effects, error) {
		added, err := appeal.AddMessage(cmd.AuthorID, cmd.Body, now)
		if err != nil {
			return ports.Effects{}, err
		}
		message = added
		return ports.Effects{}, nil
	})
	if err != nil {
		return entities.Appeal{}, entities.AppealMessage{}, domainerrors.Upstream(err)
	}
	return appeal, message, nil
}

func (u AppealReviewUseCase) logTransition(event string, appeal entities.Appeal) {
	application.ResolveLogger(u.Logger).Info("appeal transitioned",
		"event", event,
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"appeal_id", appeal.AppealID,
		"action_id", appeal.ActionID,
		"status", string(appeal.Status),
		"reviewer_id", appeal.ReviewerID,
	)
}

func (u AppealReviewUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
