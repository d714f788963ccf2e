package workers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var penaltyDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_penalty_dispatches_total",
	Help: "penalty task dispatch attempts, by result",
}, []string{"result"})

var outboxPublished = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moderation_outbox_published_total",
	Help: "outbox rows published to the event bus",
})

var enqueueConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_enqueue_consumed_total",
	Help: "enqueue requests consumed by the worker, by result",
}, []string{"result"})

var actionsExpired = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moderation_actions_expired_total",
	Help: "time-bound actions closed by the expiry sweep",
})
