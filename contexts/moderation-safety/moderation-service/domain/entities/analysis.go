package entities

import (
	"slices"
	"time"
)

// DetectionThreshold is the score a dimension must exceed to be reported as detected.
const DetectionThreshold = 0.5

// Scores holds the five independent risk dimensions, each in [0,1].
type Scores struct {
	Profanity  float64
	Spam       float64
	HateSpeech float64
	Toxicity   float64
	NSFW       float64
}

func (s Scores) Get(dimension Category) float64 {
	switch dimension {
	case CategoryProfanity:
		return s.Profanity
	case CategorySpam:
		return s.Spam
	case CategoryHateSpeech:
		return s.HateSpeech
	case CategoryToxicity:
		return s.Toxicity
	case CategoryNSFW:
		return s.NSFW
	case CategoryViolence, CategoryOther:
		return s.Toxicity
	default:
		return 0
	}
}

// Raise lifts a dimension to value if value is higher. Values are clamped to [0,1].
func (s *Scores) Raise(dimension Category, value float64) {
	value = clampUnit(value)
	target := s.slot(dimension.ScoreDimension())
	if value > *target {
		*target = value
	}
}

func (s *Scores) slot(dimension Category) *float64 {
	switch dimension {
	case CategoryProfanity:
		return &s.Profanity
	case CategorySpam:
		return &s.Spam
	case CategoryHateSpeech:
		return &s.HateSpeech
	case CategoryNSFW:
		return &s.NSFW
	case CategoryToxicity, CategoryViolence, CategoryOther:
		return &s.Toxicity
	default:
		return &s.Toxicity
	}
}

func (s Scores) Max() float64 {
	return max(s.Profanity, s.Spam, s.HateSpeech, s.Toxicity, s.NSFW)
}

// ScoreDimensions lists the five dimensions in reporting order.
var ScoreDimensions = []Category{
	CategoryProfanity,
	CategorySpam,
	CategoryHateSpeech,
	CategoryToxicity,
	CategoryNSFW,
}

type AnalysisResult struct {
	Scores             Scores
	OverallConfidence  float64
	DetectedCategories []Category
	FlaggedPhrases     []string
	MatchedFilters     []string
	AnalyzedAt         time.Time
}

func (r AnalysisResult) HasCategory(category Category) bool {
	return slices.Contains(r.DetectedCategories, category)
}

// Finalize derives OverallConfidence and the score-based DetectedCategories.
// Extra categories (e.g. violence) already present are kept.
func (r *AnalysisResult) Finalize() {
	r.OverallConfidence = r.Scores.Max()
	detected := make([]Category, 0, len(ScoreDimensions)+len(r.DetectedCategories))
	for _, dimension := range ScoreDimensions {
		if r.Scores.Get(dimension) > DetectionThreshold {
			detected = append(detected, dimension)
		}
	}
	for _, extra := range r.DetectedCategories {
		if !slices.Contains(detected, extra) {
			detected = append(detected, extra)
		}
	}
	r.DetectedCategories = detected
}

type RecommendedAction string

const (
	RecommendApprove RecommendedAction = "approve"
	RecommendFlag    RecommendedAction = "flag"
	RecommendHide    RecommendedAction = "hide"
	RecommendRemove  RecommendedAction = "remove"
)

type Recommendation struct {
	Action         RecommendedAction
	Priority       int
	RequiresReview bool
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
