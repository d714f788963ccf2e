package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "moderation_analysis_duration_sec",
	Help: "Duration of content analysis",
})

var analysisCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_analysis_processed",
	Help: "Number of content analyses by outcome",
}, []string{"outcome"})

var filterErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_filter_errors",
	Help: "Number of custom filters skipped because they could not be evaluated",
}, []string{"filter_type"})

var filterMatchCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_filter_matches",
	Help: "Number of custom filter matches",
}, []string{"category"})

var ruleCacheRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "moderation_rule_cache_refreshes",
	Help: "Number of rule cache refreshes by result",
}, []string{"result"})

var ruleCacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
	Name: "moderation_rule_cache_invalidations",
	Help: "Number of explicit rule cache invalidations",
})
