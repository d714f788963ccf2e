package services

import (
	"testing"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analysisWith(confidence float64, categories ...entities.Category) entities.AnalysisResult {
	return entities.AnalysisResult{
		Scores:             entities.Scores{Toxicity: confidence},
		OverallConfidence:  confidence,
		DetectedCategories: categories,
	}
}

func TestRecommendTable(t *testing.T) {
	cases := []struct {
		name     string
		analysis entities.AnalysisResult
		want     entities.Recommendation
	}{
		{"hate speech wins", analysisWith(0.2, entities.CategoryHateSpeech), entities.Recommendation{Action: entities.RecommendRemove, Priority: 1, RequiresReview: true}},
		{"very high", analysisWith(0.92), entities.Recommendation{Action: entities.RecommendHide, Priority: 1, RequiresReview: true}},
		{"boundary 0.9", analysisWith(0.9), entities.Recommendation{Action: entities.RecommendHide, Priority: 1, RequiresReview: true}},
		{"high", analysisWith(0.75), entities.Recommendation{Action: entities.RecommendFlag, Priority: 2, RequiresReview: true}},
		{"medium", analysisWith(0.5), entities.Recommendation{Action: entities.RecommendFlag, Priority: 3, RequiresReview: true}},
		{"grey zone", analysisWith(0.4), entities.Recommendation{Action: entities.RecommendFlag, Priority: 5, RequiresReview: true}},
		{"boundary 0.3", analysisWith(0.3), entities.Recommendation{Action: entities.RecommendFlag, Priority: 5, RequiresReview: true}},
		{"clean", analysisWith(0.1), entities.Recommendation{Action: entities.RecommendApprove, Priority: 10, RequiresReview: false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Recommend(tc.analysis)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, Recommend(tc.analysis))
		})
	}
}

func TestRecalculatePriorityMonotonicInReports(t *testing.T) {
	for _, confidence := range []float64{0, 0.4, 0.6, 0.8, 0.95} {
		analysis := analysisWith(confidence)
		previous := RecalculatePriority(analysis, 0)
		for reports := 1; reports <= 15; reports++ {
			current := RecalculatePriority(analysis, reports)
			require.LessOrEqual(t, current, previous, "confidence=%v reports=%d", confidence, reports)
			previous = current
		}
	}
}

func TestRecalculatePriorityEscalators(t *testing.T) {
	analysis := analysisWith(0.95)
	assert.Equal(t, 1, RecalculatePriority(analysis, 12))

	hate := entities.AnalysisResult{Scores: entities.Scores{HateSpeech: 0.8}, OverallConfidence: 0.4}
	assert.Equal(t, 1, RecalculatePriority(hate, 0))

	violence := analysisWith(0.2, entities.CategoryViolence)
	assert.Equal(t, 1, RecalculatePriority(violence, 0))

	assert.Equal(t, 5, RecalculatePriority(analysisWith(0.2), 2))
	assert.Equal(t, 3, RecalculatePriority(analysisWith(0.2), 3))
	assert.Equal(t, 2, RecalculatePriority(analysisWith(0.2), 5))
}

func TestEvaluateIngestion(t *testing.T) {
	clean := analysisWith(0.1)
	assert.Equal(t, VerdictAllow, EvaluateIngestion(clean, Recommend(clean)))

	severe := analysisWith(0.97, entities.CategoryHateSpeech)
	assert.Equal(t, VerdictReject, EvaluateIngestion(severe, Recommend(severe)))

	hateLow := analysisWith(0.8, entities.CategoryHateSpeech)
	assert.Equal(t, VerdictAllowAndQueue, EvaluateIngestion(hateLow, Recommend(hateLow)))

	hidden := analysisWith(0.96)
	assert.Equal(t, VerdictAllowAndQueue, EvaluateIngestion(hidden, Recommend(hidden)))
}
