package reputationadapter

import (
	"context"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

// PenaltyLedger is the reputation context's in-process entry point.
type PenaltyLedger interface {
	RecordPenalty(ctx context.Context, userID string, kind string, referenceID string) error
}

// InProcess calls the reputation ledger directly when both contexts run in
// the same binary.
type InProcess struct {
	Ledger PenaltyLedger
}

func (c InProcess) PenalizeUser(ctx context.Context, userID string, actionKind entities.Action, referenceID string) error {
	return c.Ledger.RecordPenalty(ctx, userID, string(actionKind), referenceID)
}

var _ ports.ReputationClient = InProcess{}
