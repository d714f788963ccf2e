package entities

import (
	"strings"
	"time"

	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
)

type Action string

const (
	ActionApprove   Action = "approve"
	ActionWarn      Action = "warn"
	ActionHide      Action = "hide"
	ActionRemove    Action = "remove"
	ActionBanUser   Action = "ban_user"
	ActionShadowBan Action = "shadow_ban"
	ActionRateLimit Action = "rate_limit"
	ActionRestore   Action = "restore"
)

func ParseAction(raw string) (Action, bool) {
	action := Action(strings.ToLower(strings.TrimSpace(raw)))
	return action, action.IsValid()
}

func (a Action) IsValid() bool {
	switch a {
	case ActionApprove, ActionWarn, ActionHide, ActionRemove, ActionBanUser,
		ActionShadowBan, ActionRateLimit, ActionRestore:
		return true
	default:
		return false
	}
}

// Appealable reports whether the affected user may contest this action.
func (a Action) Appealable() bool {
	switch a {
	case ActionWarn, ActionHide, ActionRemove, ActionBanUser:
		return true
	case ActionApprove, ActionShadowBan, ActionRateLimit, ActionRestore:
		return false
	default:
		return false
	}
}

// Penalizes reports whether the reputation collaborator is notified.
func (a Action) Penalizes() bool {
	switch a {
	case ActionWarn, ActionHide, ActionRemove:
		return true
	case ActionApprove, ActionBanUser, ActionShadowBan, ActionRateLimit, ActionRestore:
		return false
	default:
		return false
	}
}

// TimeBound reports whether a duration turns into an expiry.
func (a Action) TimeBound() bool {
	switch a {
	case ActionBanUser, ActionShadowBan, ActionRateLimit:
		return true
	case ActionApprove, ActionWarn, ActionHide, ActionRemove, ActionRestore:
		return false
	default:
		return false
	}
}

// QueueOutcome is the terminal queue status a decision produces.
func (a Action) QueueOutcome() QueueStatus {
	if a == ActionApprove {
		return QueueStatusApproved
	}
	return QueueStatusRejected
}

// AppealPriority orders appeals by the weight of the contested action.
func (a Action) AppealPriority() int {
	switch a {
	case ActionBanUser:
		return 1
	case ActionRemove:
		return 3
	case ActionHide:
		return 5
	case ActionWarn:
		return 7
	case ActionApprove, ActionShadowBan, ActionRateLimit, ActionRestore:
		return 10
	default:
		return 10
	}
}

type ActionRecord struct {
	ActionID          string
	QueueItemID       string
	Content           ContentRef
	UserID            string
	Action            Action
	Reason            string
	Notes             string
	ModeratorID       string
	IsAutomated       bool
	AIConfidenceScore float64
	Duration          time.Duration
	ExpiresAt         *time.Time
	Appealable        bool
	Appealed          bool
	AppealID          string
	Reversed          bool
	ReversedBy        string
	ReversalReason    string
	ReversedAt        *time.Time
	Expired           bool
	CreatedAt         time.Time
}

// NewActionRecord derives appealability and expiry from the action kind.
func NewActionRecord(
	actionID string,
	item QueueItem,
	action Action,
	moderatorID string,
	reason string,
	notes string,
	duration time.Duration,
	now time.Time,
) (ActionRecord, error) {
	if strings.TrimSpace(actionID) == "" || strings.TrimSpace(moderatorID) == "" || !action.IsValid() {
		return ActionRecord{}, domainerrors.ErrValidation
	}
	if duration < 0 {
		return ActionRecord{}, domainerrors.ErrValidation
	}
	record := ActionRecord{
		ActionID:          actionID,
		QueueItemID:       item.ItemID,
		Content:           item.Content,
		UserID:            item.UserID,
		Action:            action,
		Reason:            strings.TrimSpace(reason),
		Notes:             strings.TrimSpace(notes),
		ModeratorID:       moderatorID,
		AIConfidenceScore: item.Analysis.OverallConfidence,
		Appealable:        action.Appealable(),
		CreatedAt:         now.UTC(),
	}
	if duration > 0 && action.TimeBound() {
		expiresAt := now.UTC().Add(duration)
		record.Duration = duration
		record.ExpiresAt = &expiresAt
	}
	return record, nil
}

// CanAppeal enforces the single-appeal invariant.
func (r ActionRecord) CanAppeal() error {
	if !r.Appealable {
		return domainerrors.ErrNotAppealable
	}
	if r.Appealed {
		return domainerrors.ErrAlreadyAppealed
	}
	return nil
}

func (r *ActionRecord) LinkAppeal(appealID string) error {
	if err := r.CanAppeal(); err != nil {
		return err
	}
	r.Appealed = true
	r.AppealID = appealID
	return nil
}

func (r *ActionRecord) Reverse(reviewerID string, reason string, now time.Time) error {
	if r.Reversed {
		return domainerrors.ErrAlreadyReversed
	}
	if strings.TrimSpace(reviewerID) == "" || strings.TrimSpace(reason) == "" {
		return domainerrors.ErrValidation
	}
	at := now.UTC()
	r.Reversed = true
	r.ReversedBy = reviewerID
	r.ReversalReason = strings.TrimSpace(reason)
	r.ReversedAt = &at
	return nil
}

// Active reports whether a time-bound action is still in force.
func (r ActionRecord) Active(now time.Time) bool {
	if r.Reversed || r.Expired {
		return false
	}
	return r.ExpiresAt == nil || now.Before(*r.ExpiresAt)
}

// Expire closes a time-bound action whose expiry has passed.
func (r *ActionRecord) Expire(now time.Time) error {
	if r.ExpiresAt == nil || now.Before(*r.ExpiresAt) {
		return domainerrors.ErrInvalidState
	}
	if r.Reversed || r.Expired {
		return domainerrors.ErrInvalidState
	}
	r.Expired = true
	return nil
}
