package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

// ActionExpirySweep closes time-bound actions (bans, rate limits, shadow bans)
// whose expiry has passed and announces it on the outbox.
type ActionExpirySweep struct {
	Actions     ports.ActionRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	BatchSize   int
	Logger      *slog.Logger
}

func (s ActionExpirySweep) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(s.Logger)
	limit := s.BatchSize
	if limit <= 0 {
		limit = 100
	}
	now := s.now()
	due, err := s.Actions.ListExpiredActions(ctx, now, limit)
	if err != nil {
		logger.Error("expired action list failed",
			"event", "moderation_expiry_list_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	expired := 0
	for _, candidate := range due {
		eventID, err := s.IDGenerator.NewID(ctx)
		if err != nil {
			return err
		}
		_, err = s.Actions.UpdateAction(ctx, candidate.ActionID, func(record *entities.ActionRecord) (ports.Effects, error) {
			if err := record.Expire(now); err != nil {
				return ports.Effects{}, err
			}
			event, err := actionExpiredEvent(eventID, *record)
			if err != nil {
				return ports.Effects{}, err
			}
			return ports.Effects{Events: []ports.OutboxMessage{event}}, nil
		})
		if errors.Is(err, domainerrors.ErrInvalidState) {
			// reversed or expired between list and update
			continue
		}
		if err != nil {
			logger.Error("action expiry failed",
				"event", "moderation_expiry_failed",
				"module", "moderation-safety/moderation-service",
				"layer", "worker",
				"action_id", candidate.ActionID,
				"error", err.Error(),
			)
			return err
		}
		actionsExpired.Inc()
		expired++
	}
	if expired > 0 {
		logger.Info("expired actions closed",
			"event", "moderation_expiry_completed",
			"module", "moderation-safety/moderation-service",
			"layer", "worker",
			"expired", expired,
		)
	}
	return nil
}

func (s ActionExpirySweep) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
