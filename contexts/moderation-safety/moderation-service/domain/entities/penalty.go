package entities

import "time"

type PenaltyStatus string

const (
	PenaltyStatusPending PenaltyStatus = "pending"
	PenaltyStatusDone    PenaltyStatus = "done"
	PenaltyStatusDead    PenaltyStatus = "dead"
)

// PenaltyTask is the durable hand-off to the reputation collaborator. It is
// written together with the decision and drained by the penalty dispatcher.
type PenaltyTask struct {
	TaskID        string
	UserID        string
	ActionKind    Action
	ActionID      string
	Status        PenaltyStatus
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
}

func NewPenaltyTask(taskID string, record ActionRecord, kind Action, now time.Time) PenaltyTask {
	return PenaltyTask{
		TaskID:        taskID,
		UserID:        record.UserID,
		ActionKind:    kind,
		ActionID:      record.ActionID,
		Status:        PenaltyStatusPending,
		NextAttemptAt: now.UTC(),
		CreatedAt:     now.UTC(),
	}
}
