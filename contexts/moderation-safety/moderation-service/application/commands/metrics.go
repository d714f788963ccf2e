package commands

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var screeningVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_screening_verdicts",
	Help: "Number of ingestion gate verdicts",
}, []string{"verdict"})

var enqueueDispatchFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moderation_enqueue_dispatch_failures",
	Help: "Number of analysed submissions that could not be handed to the queue",
})

var decisionCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_decisions_recorded",
	Help: "Number of moderator decisions by action",
}, []string{"action"})

var bulkItemCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_bulk_action_items",
	Help: "Number of bulk action items by result",
}, []string{"result"})
