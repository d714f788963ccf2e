package entities

import (
	"strings"
	"time"

	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
)

type QueueStatus string

const (
	QueueStatusPending   QueueStatus = "pending"
	QueueStatusInReview  QueueStatus = "in_review"
	QueueStatusApproved  QueueStatus = "approved"
	QueueStatusRejected  QueueStatus = "rejected"
	QueueStatusEscalated QueueStatus = "escalated"
)

func ParseQueueStatus(raw string) (QueueStatus, bool) {
	status := QueueStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case QueueStatusPending, QueueStatusInReview, QueueStatusApproved, QueueStatusRejected, QueueStatusEscalated:
		return status, true
	default:
		return "", false
	}
}

// Terminal statuses never transition again.
func (s QueueStatus) Terminal() bool {
	switch s {
	case QueueStatusApproved, QueueStatusRejected, QueueStatusEscalated:
		return true
	case QueueStatusPending, QueueStatusInReview:
		return false
	default:
		return false
	}
}

// QueueStatuses lists every queue status, used for statistics.
var QueueStatuses = []QueueStatus{
	QueueStatusPending,
	QueueStatusInReview,
	QueueStatusApproved,
	QueueStatusRejected,
	QueueStatusEscalated,
}

type Report struct {
	ReporterID string
	Reason     string
	Details    string
	ReportedAt time.Time
}

type Decision struct {
	Action    Action
	Reason    string
	Notes     string
	DecidedBy string
	DecidedAt time.Time
}

type QueueItem struct {
	ItemID        string
	Content       ContentRef
	UserID        string
	Snapshot      ContentSnapshot
	Analysis      AnalysisResult
	Priority      int
	Status        QueueStatus
	Reports       []Report
	ReportCount   int
	AssignedTo    string
	Decision      *Decision
	AutoModerated bool
	EscalatedTo   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewQueueItem(
	itemID string,
	content ContentRef,
	userID string,
	snapshot ContentSnapshot,
	analysis AnalysisResult,
	priority int,
	now time.Time,
) (QueueItem, error) {
	if strings.TrimSpace(itemID) == "" || content == nil || strings.TrimSpace(userID) == "" {
		return QueueItem{}, domainerrors.ErrValidation
	}
	return QueueItem{
		ItemID:    itemID,
		Content:   content,
		UserID:    strings.TrimSpace(userID),
		Snapshot:  snapshot,
		Analysis:  analysis,
		Priority:  ClampPriority(priority),
		Status:    QueueStatusPending,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// AutoApprove closes an item without human review.
func (q *QueueItem) AutoApprove(now time.Time) {
	q.Status = QueueStatusApproved
	q.AutoModerated = true
	q.Decision = &Decision{
		Action:    ActionApprove,
		Reason:    "auto_approved_low_risk",
		DecidedBy: "system",
		DecidedAt: now.UTC(),
	}
	q.UpdatedAt = now.UTC()
}

// Claim moves a pending item into review for moderatorID.
func (q *QueueItem) Claim(moderatorID string, now time.Time) error {
	if strings.TrimSpace(moderatorID) == "" {
		return domainerrors.ErrValidation
	}
	switch q.Status {
	case QueueStatusPending:
	case QueueStatusInReview:
		if q.AssignedTo == moderatorID {
			return nil
		}
		return domainerrors.ErrItemAssigned
	case QueueStatusApproved, QueueStatusRejected, QueueStatusEscalated:
		return domainerrors.ErrItemDecided
	default:
		return domainerrors.ErrInvalidState
	}
	if q.AssignedTo != "" && q.AssignedTo != moderatorID {
		return domainerrors.ErrItemAssigned
	}
	q.Status = QueueStatusInReview
	q.AssignedTo = moderatorID
	q.UpdatedAt = now.UTC()
	return nil
}

// Decide applies a moderator decision. It fails on terminal items so a double
// submission never produces a second decision.
func (q *QueueItem) Decide(action Action, moderatorID string, reason string, notes string, now time.Time) error {
	if !action.IsValid() || strings.TrimSpace(moderatorID) == "" {
		return domainerrors.ErrValidation
	}
	if q.Status.Terminal() {
		return domainerrors.ErrItemDecided
	}
	if q.Status == QueueStatusInReview && q.AssignedTo != "" && q.AssignedTo != moderatorID {
		return domainerrors.ErrItemAssigned
	}
	q.Status = action.QueueOutcome()
	q.AssignedTo = moderatorID
	q.Decision = &Decision{
		Action:    action,
		Reason:    strings.TrimSpace(reason),
		Notes:     strings.TrimSpace(notes),
		DecidedBy: moderatorID,
		DecidedAt: now.UTC(),
	}
	q.UpdatedAt = now.UTC()
	return nil
}

func (q *QueueItem) Escalate(moderatorID string, escalateTo string, reason string, now time.Time) error {
	if strings.TrimSpace(moderatorID) == "" || strings.TrimSpace(reason) == "" {
		return domainerrors.ErrValidation
	}
	if q.Status.Terminal() {
		return domainerrors.ErrItemDecided
	}
	q.Status = QueueStatusEscalated
	q.EscalatedTo = strings.TrimSpace(escalateTo)
	q.AssignedTo = moderatorID
	q.Decision = &Decision{
		Reason:    strings.TrimSpace(reason),
		DecidedBy: moderatorID,
		DecidedAt: now.UTC(),
	}
	q.UpdatedAt = now.UTC()
	return nil
}

// AddReport records a user flag. Callers recompute priority afterwards.
func (q *QueueItem) AddReport(report Report) error {
	if strings.TrimSpace(report.ReporterID) == "" || strings.TrimSpace(report.Reason) == "" {
		return domainerrors.ErrValidation
	}
	if q.Status.Terminal() {
		return domainerrors.ErrItemDecided
	}
	for _, existing := range q.Reports {
		if existing.ReporterID == report.ReporterID {
			return domainerrors.ErrDuplicateReport
		}
	}
	report.ReportedAt = report.ReportedAt.UTC()
	q.Reports = append(q.Reports, report)
	q.ReportCount = len(q.Reports)
	q.UpdatedAt = report.ReportedAt
	return nil
}

func ClampPriority(priority int) int {
	if priority < 1 {
		return 1
	}
	if priority > 10 {
		return 10
	}
	return priority
}
