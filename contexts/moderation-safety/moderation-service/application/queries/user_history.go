package queries

import (
	"context"
	"strings"
	"time"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

const DefaultHistoryLimit = 50

type UserHistory struct {
	UserID        string
	Actions       []entities.ActionRecord
	Appeals       []entities.Appeal
	ActiveActions int
}

type UserHistoryUseCase struct {
	Actions ports.ActionRepository
	Appeals ports.AppealRepository
	Clock   ports.Clock
}

// Execute returns the newest actions taken against a user and their appeals.
func (uc UserHistoryUseCase) Execute(ctx context.Context, userID string, limit int) (UserHistory, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return UserHistory{}, domainerrors.ErrValidation
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	actions, err := uc.Actions.ListActionsByUser(ctx, userID, limit)
	if err != nil {
		return UserHistory{}, domainerrors.Upstream(err)
	}
	appeals, _, err := uc.Appeals.ListAppeals(ctx, ports.AppealListFilter{UserID: userID, Limit: limit})
	if err != nil {
		return UserHistory{}, domainerrors.Upstream(err)
	}

	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	history := UserHistory{UserID: userID, Actions: actions, Appeals: appeals}
	for _, action := range actions {
		if action.Action != entities.ActionApprove && action.Active(now) {
			history.ActiveActions++
		}
	}
	return history, nil
}
