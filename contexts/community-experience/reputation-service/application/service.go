package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainerrors "quad/contexts/community-experience/reputation-service/domain/errors"
	"quad/contexts/community-experience/reputation-service/ports"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

type ApplyPenaltyCommand struct {
	UserID      string
	Kind        string
	ReferenceID string
}

func (s Service) GetUserReputation(ctx context.Context, userID string) (ports.UserReputation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ports.UserReputation{}, domainerrors.ErrUserRequired
	}
	return s.Repo.GetUserReputation(ctx, userID)
}

// ApplyModerationPenalty records a penalty once per (kind, reference). A
// repeated delivery returns the current reputation unchanged.
func (s Service) ApplyModerationPenalty(ctx context.Context, cmd ApplyPenaltyCommand) (ports.UserReputation, bool, error) {
	userID := strings.TrimSpace(cmd.UserID)
	referenceID := strings.TrimSpace(cmd.ReferenceID)
	switch {
	case userID == "":
		return ports.UserReputation{}, false, domainerrors.ErrUserRequired
	case referenceID == "":
		return ports.UserReputation{}, false, domainerrors.ErrReferenceRequired
	}
	kind, ok := ports.ParsePenaltyKind(cmd.Kind)
	if !ok {
		return ports.UserReputation{}, false, domainerrors.ErrUnknownPenaltyKind
	}

	now := s.now()
	applied := false
	updated, err := s.Repo.UpdateUserReputation(ctx, userID, func(rep *ports.UserReputation) error {
		applied = ApplyPenalty(rep, kind, referenceID, now)
		return nil
	})
	if err != nil {
		return ports.UserReputation{}, false, err
	}

	resolveLogger(s.Logger).Info("moderation penalty applied",
		"event", "reputation_penalty_applied",
		"module", "community-experience/reputation-service",
		"layer", "application",
		"user_id", userID,
		"penalty_kind", string(kind),
		"reference_id", referenceID,
		"applied", applied,
		"reputation_score", updated.ReputationScore,
	)
	return updated, applied, nil
}

// RecordPenalty adapts ApplyModerationPenalty for in-process callers.
func (s Service) RecordPenalty(ctx context.Context, userID string, kind string, referenceID string) error {
	_, _, err := s.ApplyModerationPenalty(ctx, ApplyPenaltyCommand{
		UserID:      userID,
		Kind:        kind,
		ReferenceID: referenceID,
	})
	return err
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
