package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	"quad/contexts/moderation-safety/moderation-service/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type staticRules []entities.Filter

func (r staticRules) ActiveFilters(context.Context, *entities.Category) []entities.Filter {
	return r
}

type statsSpy struct {
	names []string
}

func (s *statsSpy) RecordFilterMatches(_ context.Context, names []string, _ time.Time) error {
	s.names = append(s.names, names...)
	return nil
}

func newTestAnalyzer(rules RuleSource, stats FilterStatsRecorder) *Analyzer {
	return NewAnalyzer(rules, stats, Options{
		Clock: &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
	})
}

func TestAnalyzeEmptyContentIsZero(t *testing.T) {
	stats := &statsSpy{}
	analyzer := newTestAnalyzer(staticRules{{Name: "any", Type: entities.FilterTypePhrase, Pattern: "x", Category: entities.CategorySpam, IsActive: true}}, stats)

	result := analyzer.Analyze(context.Background(), AnalyzeInput{Text: "   "})
	assert.Equal(t, entities.Scores{}, result.Scores)
	assert.Zero(t, result.OverallConfidence)
	assert.Empty(t, result.DetectedCategories)
	assert.Empty(t, stats.names)

	media := analyzer.Analyze(context.Background(), AnalyzeInput{ImageURLs: []string{"https://cdn.example/a.png"}})
	assert.Equal(t, entities.Scores{}, media.Scores)
	assert.False(t, media.AnalyzedAt.IsZero())
}

func TestAnalyzeHateSpeechScenario(t *testing.T) {
	analyzer := newTestAnalyzer(nil, nil)

	result := analyzer.Analyze(context.Background(), AnalyzeInput{Text: "I will kill all of them"})
	assert.InDelta(t, 0.8, result.Scores.HateSpeech, 1e-9)
	assert.Contains(t, result.DetectedCategories, entities.CategoryHateSpeech)
	assert.Contains(t, result.FlaggedPhrases, "kill all")
	assert.InDelta(t, 0.8, result.OverallConfidence, 1e-9)

	recommendation := services.Recommend(result)
	assert.Equal(t, entities.Recommendation{Action: entities.RecommendRemove, Priority: 1, RequiresReview: true}, recommendation)
}

func TestAnalyzeCleanTextApproves(t *testing.T) {
	analyzer := newTestAnalyzer(nil, nil)

	result := analyzer.Analyze(context.Background(), AnalyzeInput{Text: "Hello everyone, welcome to the campus!"})
	assert.Equal(t, entities.Scores{}, result.Scores)
	assert.Zero(t, result.OverallConfidence)
	assert.Empty(t, result.DetectedCategories)
	assert.Equal(t, entities.RecommendApprove, services.Recommend(result).Action)
}

func TestAnalyzeScoresAreBoundedAndOverallIsMax(t *testing.T) {
	analyzer := newTestAnalyzer(nil, nil)
	text := strings.Repeat("shit damn crap ", 20) + "buy now click here"

	result := analyzer.Analyze(context.Background(), AnalyzeInput{Text: text})
	for _, dimension := range entities.ScoreDimensions {
		score := result.Scores.Get(dimension)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
	}
	assert.Equal(t, 1.0, result.Scores.Profanity)
	assert.InDelta(t, 0.6, result.Scores.Spam, 1e-9)
	assert.Equal(t, result.Scores.Max(), result.OverallConfidence)
	assert.ElementsMatch(t, []entities.Category{entities.CategoryProfanity, entities.CategorySpam}, result.DetectedCategories)
}

func TestCurveIsMonotonicAndCapped(t *testing.T) {
	for _, curve := range []Curve{DefaultCurves().Profanity, DefaultCurves().Spam, DefaultCurves().HateSpeech} {
		assert.Zero(t, curve.Score(0))
		previous := 0.0
		for n := 1; n < 20; n++ {
			score := curve.Score(n)
			require.GreaterOrEqual(t, score, previous)
			require.LessOrEqual(t, score, 1.0)
			previous = score
		}
		assert.Equal(t, 1.0, previous)
	}
}

func TestAnalyzeCustomFilters(t *testing.T) {
	stats := &statsSpy{}
	rules := staticRules{
		{Name: "slur-word", Type: entities.FilterTypeWord, Pattern: "cafe", Category: entities.CategoryToxicity, Severity: entities.SeverityHigh, IsActive: true},
		{Name: "nsfw-phrase", Type: entities.FilterTypePhrase, Pattern: "Hot Singles", Category: entities.CategoryNSFW, Severity: entities.SeverityCritical, IsActive: true},
		{Name: "inactive", Type: entities.FilterTypePhrase, Pattern: "hello", Category: entities.CategorySpam, Severity: entities.SeverityCritical, IsActive: false},
		{Name: "profiles-only", Type: entities.FilterTypePhrase, Pattern: "hello", Category: entities.CategorySpam, Severity: entities.SeverityCritical, IsActive: true, ApplyTo: []entities.ContentKind{entities.ContentKindProfile}},
	}
	analyzer := newTestAnalyzer(rules, stats)

	result := analyzer.Analyze(context.Background(), AnalyzeInput{Text: "Hello from the Café, meet hot singles", Kind: entities.ContentKindPost})
	assert.InDelta(t, 0.8, result.Scores.Toxicity, 1e-9)
	assert.InDelta(t, 0.95, result.Scores.NSFW, 1e-9)
	assert.Zero(t, result.Scores.Spam)
	assert.ElementsMatch(t, []string{"slur-word", "nsfw-phrase"}, result.MatchedFilters)
	assert.ElementsMatch(t, []string{"slur-word", "nsfw-phrase"}, stats.names)
	assert.Contains(t, result.FlaggedPhrases, "hot singles")
	assert.InDelta(t, 0.95, result.OverallConfidence, 1e-9)
}

func TestAnalyzeWordFilterWithPunctuation(t *testing.T) {
	rules := staticRules{
		{Name: "surname", Type: entities.FilterTypeWord, Pattern: "O'Brien", Category: entities.CategorySpam, Severity: entities.SeverityHigh, IsActive: true},
	}
	analyzer := newTestAnalyzer(rules, nil)

	result := analyzer.Analyze(context.Background(), AnalyzeInput{Text: "hello o'brien here"})
	assert.InDelta(t, 0.8, result.Scores.Spam, 1e-9)
	assert.Equal(t, []string{"surname"}, result.MatchedFilters)

	result = analyzer.Analyze(context.Background(), AnalyzeInput{Text: "brien o"})
	assert.Zero(t, result.Scores.Spam, "tokens must be consecutive and in order")
}

func TestAnalyzeRegexFilterHonoursExceptions(t *testing.T) {
	rules := staticRules{
		{Name: "ass", Type: entities.FilterTypeRegex, Pattern: `\bass\w*`, Category: entities.CategoryProfanity, Severity: entities.SeverityMedium, IsActive: true, Exceptions: []string{"assignment"}},
	}
	analyzer := newTestAnalyzer(rules, nil)

	clean := analyzer.Analyze(context.Background(), AnalyzeInput{Text: "The Assignment is due friday"})
	assert.Empty(t, clean.MatchedFilters)
	assert.Zero(t, clean.Scores.Profanity)

	dirty := analyzer.Analyze(context.Background(), AnalyzeInput{Text: "what an asshat"})
	assert.Equal(t, []string{"ass"}, dirty.MatchedFilters)
	assert.InDelta(t, 0.6, dirty.Scores.Profanity, 1e-9)
}

func TestAnalyzeSkipsMalformedRegex(t *testing.T) {
	rules := staticRules{
		{Name: "broken", Type: entities.FilterTypeRegex, Pattern: `(unclosed`, Category: entities.CategorySpam, Severity: entities.SeverityHigh, IsActive: true},
		{Name: "works", Type: entities.FilterTypeWord, Pattern: "spamword", Category: entities.CategorySpam, Severity: entities.SeverityLow, IsActive: true},
	}
	analyzer := newTestAnalyzer(rules, nil)

	result := analyzer.Analyze(context.Background(), AnalyzeInput{Text: "a spamword here"})
	assert.Equal(t, []string{"works"}, result.MatchedFilters)
	assert.InDelta(t, 0.4, result.Scores.Spam, 1e-9)
}

func TestAnalyzeViolenceFilterRaisesToxicity(t *testing.T) {
	rules := staticRules{
		{Name: "threat", Type: entities.FilterTypePhrase, Pattern: "burn it down", Category: entities.CategoryViolence, Severity: entities.SeverityHigh, IsActive: true},
		{Name: "misc", Type: entities.FilterTypePhrase, Pattern: "meh", Category: entities.CategoryOther, Severity: entities.SeverityLow, IsActive: true},
	}
	analyzer := newTestAnalyzer(rules, nil)

	result := analyzer.Analyze(context.Background(), AnalyzeInput{Text: "meh, we will burn it down"})
	assert.InDelta(t, 0.8, result.Scores.Toxicity, 1e-9)
	assert.Contains(t, result.DetectedCategories, entities.CategoryViolence)
	assert.Contains(t, result.DetectedCategories, entities.CategoryToxicity)
	assert.Equal(t, 1, services.RecalculatePriority(result, 0))
}

func TestAnalyzeTruncatesLongText(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil, Options{MaxContentRunes: 20})

	result := analyzer.Analyze(context.Background(), AnalyzeInput{Text: strings.Repeat("a", 30) + " kill all"})
	assert.Zero(t, result.Scores.HateSpeech)
}

type flakySource struct {
	mu      sync.Mutex
	filters []entities.Filter
	fail    bool
	calls   int
}

func (s *flakySource) ListFilters(_ context.Context, query entities.FilterQuery) ([]entities.Filter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.fail {
		return nil, errors.New("store down")
	}
	out := make([]entities.Filter, 0, len(s.filters))
	for _, filter := range s.filters {
		if query.IsActive != nil && filter.IsActive != *query.IsActive {
			continue
		}
		out = append(out, filter)
	}
	return out, nil
}

func TestRuleCacheTTLAndInvalidate(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	source := &flakySource{filters: []entities.Filter{{Name: "a", Category: entities.CategorySpam, IsActive: true}}}
	cache := NewRuleCache(source, time.Minute, clock, nil)

	require.Len(t, cache.ActiveFilters(context.Background(), nil), 1)
	require.Len(t, cache.ActiveFilters(context.Background(), nil), 1)
	assert.Equal(t, 1, source.calls)

	source.filters = append(source.filters, entities.Filter{Name: "b", Category: entities.CategoryNSFW, IsActive: true})
	cache.Invalidate()
	assert.Len(t, cache.ActiveFilters(context.Background(), nil), 2)
	assert.Equal(t, 2, source.calls)

	nsfw := entities.CategoryNSFW
	assert.Len(t, cache.ActiveFilters(context.Background(), &nsfw), 1)

	clock.advance(2 * time.Minute)
	cache.ActiveFilters(context.Background(), nil)
	assert.Equal(t, 3, source.calls)
}

func TestRuleCacheFailsOpen(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	source := &flakySource{fail: true}
	cache := NewRuleCache(source, time.Minute, clock, nil)

	assert.Empty(t, cache.ActiveFilters(context.Background(), nil))

	source.fail = false
	source.filters = []entities.Filter{{Name: "a", Category: entities.CategorySpam, IsActive: true}}
	assert.Empty(t, cache.ActiveFilters(context.Background(), nil), "failed refresh is not retried inside the retry window")

	clock.advance(RuleCacheRetryAfter)
	require.Len(t, cache.ActiveFilters(context.Background(), nil), 1)

	source.fail = true
	cache.Invalidate()
	assert.Len(t, cache.ActiveFilters(context.Background(), nil), 1)
}

func TestRuleCacheBacksOffDuringOutage(t *testing.T) {
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	source := &flakySource{filters: []entities.Filter{{Name: "a", Category: entities.CategorySpam, IsActive: true}}}
	cache := NewRuleCache(source, time.Minute, clock, nil)
	require.Len(t, cache.ActiveFilters(context.Background(), nil), 1)

	source.fail = true
	clock.advance(2 * time.Minute)
	for i := 0; i < 100; i++ {
		require.Len(t, cache.ActiveFilters(context.Background(), nil), 1)
	}
	assert.Equal(t, 2, source.calls, "one load plus one failed refresh")

	clock.advance(RuleCacheRetryAfter)
	cache.ActiveFilters(context.Background(), nil)
	assert.Equal(t, 3, source.calls)

	source.fail = false
	clock.advance(RuleCacheRetryAfter)
	source.filters = append(source.filters, entities.Filter{Name: "b", Category: entities.CategoryNSFW, IsActive: true})
	assert.Len(t, cache.ActiveFilters(context.Background(), nil), 2)
	assert.Equal(t, 4, source.calls)
}

func TestRuleCacheConcurrentReaders(t *testing.T) {
	source := &flakySource{filters: []entities.Filter{{Name: "a", Category: entities.CategorySpam, IsActive: true}}}
	cache := NewRuleCache(source, time.Minute, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%8 == 0 {
				cache.Invalidate()
			}
			assert.Len(t, cache.ActiveFilters(context.Background(), nil), 1)
		}(i)
	}
	wg.Wait()
}

func TestNormalizeFoldsDiacritics(t *testing.T) {
	assert.Equal(t, "cafe resume", Normalize("Café Résumé"))
	assert.Equal(t, []string{"hello", "world"}, Tokenize("Hello, World!"))
}
