package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

const (
	DefaultPenaltyMaxAttempts = 8
	DefaultPenaltyLease       = 2 * time.Minute
	defaultPenaltyBatchSize   = 50
)

// PenaltyDispatcher drains due penalty tasks into the reputation collaborator.
// A failed call is rescheduled with exponential delay; after MaxAttempts the
// task is parked as dead. Tasks are leased while in flight so replicas do not
// deliver the same task twice. Decisions are never rolled back.
type PenaltyDispatcher struct {
	Penalties       ports.PenaltyQueue
	Reputation      ports.ReputationClient
	Clock           ports.Clock
	BatchSize       int
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Lease           time.Duration
	Logger          *slog.Logger
}

func (d PenaltyDispatcher) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(d.Logger)
	limit := d.BatchSize
	if limit <= 0 {
		limit = defaultPenaltyBatchSize
	}
	now := d.now()
	lease := d.Lease
	if lease <= 0 {
		lease = DefaultPenaltyLease
	}
	tasks, err := d.Penalties.ClaimDuePenalties(ctx, now, lease, limit)
	if err != nil {
		logger.Error("penalty queue claim failed",
			"event", "moderation_penalty_claim_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(tasks) == 0 {
		return nil
	}

	delivered := 0
	for _, task := range tasks {
		attempts := task.Attempts + 1
		callErr := d.Reputation.PenalizeUser(ctx, task.UserID, task.ActionKind, task.ActionID)
		if callErr == nil {
			if err := d.Penalties.MarkPenaltyDone(ctx, task.TaskID, attempts, d.now()); err != nil {
				logger.Error("penalty mark done failed",
					"event", "moderation_penalty_mark_done_failed",
					"module", "moderation-safety/moderation-service",
					"layer", "worker",
					"task_id", task.TaskID,
					"error", err.Error(),
				)
				return err
			}
			penaltyDispatches.WithLabelValues("delivered").Inc()
			delivered++
			continue
		}

		dead := attempts >= d.maxAttempts()
		next := d.now().Add(d.retryDelay(attempts))
		if err := d.Penalties.MarkPenaltyFailed(ctx, task.TaskID, attempts, next, callErr.Error(), dead); err != nil {
			logger.Error("penalty mark failed failed",
				"event", "moderation_penalty_mark_failed_failed",
				"module", "moderation-safety/moderation-service",
				"layer", "worker",
				"task_id", task.TaskID,
				"error", err.Error(),
			)
			return err
		}
		if dead {
			penaltyDispatches.WithLabelValues("dead").Inc()
			logger.Error("penalty task exhausted retries",
				"event", "moderation_penalty_dead",
				"module", "moderation-safety/moderation-service",
				"layer", "worker",
				"task_id", task.TaskID,
				"user_id", task.UserID,
				"action", string(task.ActionKind),
				"attempts", attempts,
				"error", callErr.Error(),
			)
			continue
		}
		penaltyDispatches.WithLabelValues("retry").Inc()
		logger.Warn("penalty call failed, rescheduled",
			"event", "moderation_penalty_retry_scheduled",
			"module", "moderation-safety/moderation-service",
			"layer", "worker",
			"task_id", task.TaskID,
			"user_id", task.UserID,
			"attempts", attempts,
			"next_attempt_at", next,
			"error", callErr.Error(),
		)
	}

	logger.Info("penalty dispatch cycle completed",
		"event", "moderation_penalty_cycle_completed",
		"module", "moderation-safety/moderation-service",
		"layer", "worker",
		"due", len(tasks),
		"delivered", delivered,
	)
	return nil
}

// retryDelay returns the attempts-th interval of an exponential schedule.
func (d PenaltyDispatcher) retryDelay(attempts int) time.Duration {
	policy := backoff.NewExponentialBackOff()
	if d.InitialInterval > 0 {
		policy.InitialInterval = d.InitialInterval
	}
	if d.MaxInterval > 0 {
		policy.MaxInterval = d.MaxInterval
	}
	policy.MaxElapsedTime = 0
	policy.Reset()

	delay := policy.InitialInterval
	for i := 0; i < attempts; i++ {
		delay = policy.NextBackOff()
	}
	return delay
}

func (d PenaltyDispatcher) maxAttempts() int {
	if d.MaxAttempts <= 0 {
		return DefaultPenaltyMaxAttempts
	}
	return d.MaxAttempts
}

func (d PenaltyDispatcher) now() time.Time {
	if d.Clock != nil {
		return d.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
