package entities

import (
	"strings"
	"time"

	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
)

type AppealStatus string

const (
	AppealStatusPending     AppealStatus = "pending"
	AppealStatusUnderReview AppealStatus = "under_review"
	AppealStatusApproved    AppealStatus = "approved"
	AppealStatusRejected    AppealStatus = "rejected"
	AppealStatusEscalated   AppealStatus = "escalated"
)

func ParseAppealStatus(raw string) (AppealStatus, bool) {
	status := AppealStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case AppealStatusPending, AppealStatusUnderReview, AppealStatusApproved, AppealStatusRejected, AppealStatusEscalated:
		return status, true
	default:
		return "", false
	}
}

func (s AppealStatus) Terminal() bool {
	switch s {
	case AppealStatusApproved, AppealStatusRejected, AppealStatusEscalated:
		return true
	case AppealStatusPending, AppealStatusUnderReview:
		return false
	default:
		return false
	}
}

var AppealStatuses = []AppealStatus{
	AppealStatusPending,
	AppealStatusUnderReview,
	AppealStatusApproved,
	AppealStatusRejected,
	AppealStatusEscalated,
}

type AppealOutcome string

const (
	OutcomeUphold   AppealOutcome = "uphold"
	OutcomeOverturn AppealOutcome = "overturn"
	OutcomeModify   AppealOutcome = "modify"
)

func ParseAppealOutcome(raw string) (AppealOutcome, bool) {
	outcome := AppealOutcome(strings.ToLower(strings.TrimSpace(raw)))
	switch outcome {
	case OutcomeUphold, OutcomeOverturn, OutcomeModify:
		return outcome, true
	default:
		return "", false
	}
}

// Status is the terminal appeal status the outcome resolves to.
func (o AppealOutcome) Status() AppealStatus {
	switch o {
	case OutcomeUphold:
		return AppealStatusRejected
	case OutcomeOverturn, OutcomeModify:
		return AppealStatusApproved
	default:
		return AppealStatusRejected
	}
}

type MessageRole string

const (
	MessageRoleUser     MessageRole = "user"
	MessageRoleReviewer MessageRole = "reviewer"
)

type AppealMessage struct {
	AuthorID string
	Role     MessageRole
	Body     string
	SentAt   time.Time
}

type AppealDecision struct {
	Outcome   AppealOutcome
	NewAction Action
	Reason    string
	DecidedBy string
	DecidedAt time.Time
}

type Appeal struct {
	AppealID    string
	ActionID    string
	UserID      string
	Reason      string
	Evidence    []string
	Status      AppealStatus
	ReviewerID  string
	Decision    *AppealDecision
	Priority    int
	Messages    []AppealMessage
	EscalatedTo string
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// NewAppeal validates the appellant against the contested action.
func NewAppeal(
	appealID string,
	action ActionRecord,
	userID string,
	reason string,
	evidence []string,
	now time.Time,
) (Appeal, error) {
	userID = strings.TrimSpace(userID)
	reason = strings.TrimSpace(reason)
	if strings.TrimSpace(appealID) == "" || userID == "" || reason == "" {
		return Appeal{}, domainerrors.ErrValidation
	}
	if action.UserID != userID {
		return Appeal{}, domainerrors.ErrForbidden
	}
	if err := action.CanAppeal(); err != nil {
		return Appeal{}, err
	}
	cleaned := make([]string, 0, len(evidence))
	for _, item := range evidence {
		if value := strings.TrimSpace(item); value != "" {
			cleaned = append(cleaned, value)
		}
	}
	return Appeal{
		AppealID:    appealID,
		ActionID:    action.ActionID,
		UserID:      userID,
		Reason:      reason,
		Evidence:    cleaned,
		Status:      AppealStatusPending,
		Priority:    action.Action.AppealPriority(),
		SubmittedAt: now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

func (a *Appeal) StartReview(reviewerID string, now time.Time) error {
	if strings.TrimSpace(reviewerID) == "" {
		return domainerrors.ErrValidation
	}
	switch a.Status {
	case AppealStatusPending:
	case AppealStatusUnderReview:
		if a.ReviewerID == reviewerID {
			return nil
		}
		return domainerrors.ErrInvalidState
	case AppealStatusApproved, AppealStatusRejected, AppealStatusEscalated:
		return domainerrors.ErrAppealClosed
	default:
		return domainerrors.ErrInvalidState
	}
	a.Status = AppealStatusUnderReview
	a.ReviewerID = reviewerID
	a.UpdatedAt = now.UTC()
	return nil
}

func (a *Appeal) Resolve(reviewerID string, outcome AppealOutcome, reason string, newAction Action, now time.Time) error {
	if strings.TrimSpace(reviewerID) == "" || strings.TrimSpace(reason) == "" {
		return domainerrors.ErrValidation
	}
	switch outcome {
	case OutcomeUphold, OutcomeOverturn:
		newAction = ""
	case OutcomeModify:
		if !newAction.IsValid() {
			return domainerrors.ErrValidation
		}
	default:
		return domainerrors.ErrValidation
	}
	if a.Status.Terminal() {
		return domainerrors.ErrAppealClosed
	}
	a.Status = outcome.Status()
	a.ReviewerID = reviewerID
	a.Decision = &AppealDecision{
		Outcome:   outcome,
		NewAction: newAction,
		Reason:    strings.TrimSpace(reason),
		DecidedBy: reviewerID,
		DecidedAt: now.UTC(),
	}
	a.UpdatedAt = now.UTC()
	return nil
}

func (a *Appeal) Escalate(reviewerID string, escalateTo string, reason string, now time.Time) error {
	if strings.TrimSpace(reviewerID) == "" || strings.TrimSpace(escalateTo) == "" {
		return domainerrors.ErrValidation
	}
	if a.Status.Terminal() {
		return domainerrors.ErrAppealClosed
	}
	a.Status = AppealStatusEscalated
	a.ReviewerID = reviewerID
	a.EscalatedTo = strings.TrimSpace(escalateTo)
	if reason = strings.TrimSpace(reason); reason != "" {
		a.Messages = append(a.Messages, AppealMessage{
			AuthorID: reviewerID,
			Role:     MessageRoleReviewer,
			Body:     reason,
			SentAt:   now.UTC(),
		})
	}
	a.UpdatedAt = now.UTC()
	return nil
}

// AddMessage appends to the thread. The appellant posts as user, everyone else as reviewer.
func (a *Appeal) AddMessage(authorID string, body string, now time.Time) (AppealMessage, error) {
	authorID = strings.TrimSpace(authorID)
	body = strings.TrimSpace(body)
	if authorID == "" || body == "" {
		return AppealMessage{}, domainerrors.ErrValidation
	}
	if a.Status.Terminal() {
		return AppealMessage{}, domainerrors.ErrAppealClosed
	}
	role := MessageRoleReviewer
	if authorID == a.UserID {
		role = MessageRoleUser
	}
	message := AppealMessage{
		AuthorID: authorID,
		Role:     role,
		Body:     body,
		SentAt:   now.UTC(),
	}
	a.Messages = append(a.Messages, message)
	a.UpdatedAt = now.UTC()
	return message, nil
}
