package analysis

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

const (
	DefaultRuleCacheTTL = 5 * time.Minute
	// RuleCacheRetryAfter bounds how often a failing store is retried.
	RuleCacheRetryAfter = 15 * time.Second
)

// FilterSource is the read side of the filter store.
type FilterSource interface {
	ListFilters(ctx context.Context, query entities.FilterQuery) ([]entities.Filter, error)
}

type ruleSnapshot struct {
	filters    []entities.Filter
	loadedAt   time.Time
	generation uint64
	failed     bool
}

// RuleCache serves active filters from an immutable snapshot. Readers never
// block; concurrent refreshes may race and the last store wins. Fetch failures
// keep serving the previous snapshot until the retry window passes.
type RuleCache struct {
	source     FilterSource
	ttl        time.Duration
	clock      ports.Clock
	logger     *slog.Logger
	snapshot   atomic.Pointer[ruleSnapshot]
	generation atomic.Uint64
}

func NewRuleCache(source FilterSource, ttl time.Duration, clock ports.Clock, logger *slog.Logger) *RuleCache {
	if ttl <= 0 {
		ttl = DefaultRuleCacheTTL
	}
	return &RuleCache{
		source: source,
		ttl:    ttl,
		clock:  clock,
		logger: application.ResolveLogger(logger),
	}
}

// ActiveFilters returns the active filters, restricted to category when set.
func (c *RuleCache) ActiveFilters(ctx context.Context, category *entities.Category) []entities.Filter {
	current := c.snapshot.Load()
	if !c.fresh(current) {
		current = c.refresh(ctx, current)
	}
	if current == nil {
		return nil
	}
	if category == nil {
		return current.filters
	}
	filtered := make([]entities.Filter, 0, len(current.filters))
	for _, filter := range current.filters {
		if filter.Category == *category {
			filtered = append(filtered, filter)
		}
	}
	return filtered
}

// Invalidate forces the next read to refetch. The stale snapshot stays
// available as the fail-open fallback.
func (c *RuleCache) Invalidate() {
	c.generation.Add(1)
	ruleCacheInvalidations.Inc()
}

func (c *RuleCache) fresh(current *ruleSnapshot) bool {
	if current == nil {
		return false
	}
	if current.generation != c.generation.Load() {
		return false
	}
	window := c.ttl
	if current.failed && RuleCacheRetryAfter < window {
		window = RuleCacheRetryAfter
	}
	return c.now().Sub(current.loadedAt) < window
}

func (c *RuleCache) refresh(ctx context.Context, previous *ruleSnapshot) *ruleSnapshot {
	generation := c.generation.Load()
	active := true
	filters, err := c.source.ListFilters(ctx, entities.FilterQuery{IsActive: &active})
	if err != nil {
		ruleCacheRefreshes.WithLabelValues("failed").Inc()
		c.logger.Warn("rule cache refresh failed, serving last snapshot",
			"event", "moderation_rule_cache_refresh_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "application",
			"has_snapshot", previous != nil,
			"error", err.Error(),
		)
		stale := &ruleSnapshot{loadedAt: c.now(), generation: generation, failed: true}
		if previous != nil {
			stale.filters = previous.filters
		}
		c.snapshot.Store(stale)
		return stale
	}
	next := &ruleSnapshot{
		filters:    filters,
		loadedAt:   c.now(),
		generation: generation,
	}
	c.snapshot.Store(next)
	ruleCacheRefreshes.WithLabelValues("ok").Inc()
	c.logger.Debug("rule cache refreshed",
		"event", "moderation_rule_cache_refreshed",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"filter_count", len(filters),
	)
	return next
}

func (c *RuleCache) now() time.Time {
	if c.clock != nil {
		return c.clock.Now().UTC()
	}
	return time.Now().UTC()
}
