package analysis

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

const DefaultMaxContentRunes = 10000

// RuleSource supplies the active custom filters.
type RuleSource interface {
	ActiveFilters(ctx context.Context, category *entities.Category) []entities.Filter
}

// FilterStatsRecorder bumps match statistics for fired filters.
type FilterStatsRecorder interface {
	RecordFilterMatches(ctx context.Context, names []string, matchedAt time.Time) error
}

type AnalyzeInput struct {
	Text      string
	ImageURLs []string
	VideoURLs []string
	Kind      entities.ContentKind
}

func (in AnalyzeInput) empty() bool {
	return strings.TrimSpace(in.Text) == "" && len(in.ImageURLs) == 0 && len(in.VideoURLs) == 0
}

type Options struct {
	Curves           Curves
	MaxContentRunes  int
	PatternCacheSize int
	Clock            ports.Clock
	Logger           *slog.Logger
}

// Analyzer scores content against the built-in pattern groups and the
// moderator-defined filters. It never fails: broken filters are skipped.
type Analyzer struct {
	rules    RuleSource
	stats    FilterStatsRecorder
	patterns *patternCache
	curves   Curves
	maxRunes int
	clock    ports.Clock
	logger   *slog.Logger
}

func NewAnalyzer(rules RuleSource, stats FilterStatsRecorder, opts Options) *Analyzer {
	curves := opts.Curves
	if curves == (Curves{}) {
		curves = DefaultCurves()
	}
	maxRunes := opts.MaxContentRunes
	if maxRunes <= 0 {
		maxRunes = DefaultMaxContentRunes
	}
	return &Analyzer{
		rules:    rules,
		stats:    stats,
		patterns: newPatternCache(opts.PatternCacheSize),
		curves:   curves,
		maxRunes: maxRunes,
		clock:    opts.Clock,
		logger:   application.ResolveLogger(opts.Logger),
	}
}

func (a *Analyzer) Analyze(ctx context.Context, in AnalyzeInput) entities.AnalysisResult {
	now := a.now()
	if in.empty() {
		analysisCount.WithLabelValues("empty").Inc()
		return entities.AnalysisResult{AnalyzedAt: now}
	}
	started := time.Now()
	defer func() { analysisDuration.Observe(time.Since(started).Seconds()) }()

	result := entities.AnalysisResult{AnalyzedAt: now}
	text := truncateRunes(in.Text, a.maxRunes)
	if strings.TrimSpace(text) == "" {
		analysisCount.WithLabelValues("media_only").Inc()
		result.Finalize()
		return result
	}

	doc := newDocument(text, in.Kind)
	var phrases []string
	for _, group := range matchBuiltins(doc.normalized) {
		result.Scores.Raise(group.category, a.curves.forCategory(group.category).Score(group.count))
		phrases = append(phrases, group.phrases...)
	}

	if a.rules != nil {
		for _, filter := range a.rules.ActiveFilters(ctx, nil) {
			if !filter.IsActive || !filter.AppliesTo(doc.kind) {
				continue
			}
			matched, err := a.patterns.matchFilter(filter, doc)
			if err != nil {
				filterErrorCount.WithLabelValues(string(filter.Type)).Inc()
				a.logger.Warn("custom filter skipped",
					"event", "moderation_filter_evaluation_failed",
					"module", "moderation-safety/moderation-service",
					"layer", "application",
					"filter_name", filter.Name,
					"filter_type", string(filter.Type),
					"error", err.Error(),
				)
				continue
			}
			if matched == nil {
				continue
			}
			severity := filter.Severity.Score()
			result.Scores.Raise(filter.Category, severity)
			if filter.Category == entities.CategoryViolence && severity > entities.DetectionThreshold &&
				!result.HasCategory(entities.CategoryViolence) {
				result.DetectedCategories = append(result.DetectedCategories, entities.CategoryViolence)
			}
			result.MatchedFilters = append(result.MatchedFilters, filter.Name)
			phrases = append(phrases, matched...)
			filterMatchCount.WithLabelValues(string(filter.Category)).Inc()
		}
	}

	result.FlaggedPhrases = dedupePhrases(phrases)
	result.Finalize()
	a.recordMatches(ctx, result.MatchedFilters, now)
	analysisCount.WithLabelValues("text").Inc()
	return result
}

func (a *Analyzer) recordMatches(ctx context.Context, names []string, at time.Time) {
	if a.stats == nil || len(names) == 0 {
		return
	}
	if err := a.stats.RecordFilterMatches(ctx, names, at); err != nil {
		a.logger.Warn("filter stats update failed",
			"event", "moderation_filter_stats_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "application",
			"filter_count", len(names),
			"error", err.Error(),
		)
	}
}

func (a *Analyzer) now() time.Time {
	if a.clock != nil {
		return a.clock.Now().UTC()
	}
	return time.Now().UTC()
}

func dedupePhrases(phrases []string) []string {
	if len(phrases) == 0 {
		return nil
	}
	out := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase != "" && !slices.Contains(out, phrase) {
			out = append(out, phrase)
		}
	}
	return out
}
