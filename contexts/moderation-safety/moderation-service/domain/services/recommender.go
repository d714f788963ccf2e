package services

import "quad/contexts/moderation-safety/moderation-service/domain/entities"

// Recommend maps an analysis onto a suggested action. The first matching rule wins.
func Recommend(analysis entities.AnalysisResult) entities.Recommendation {
	confidence := analysis.OverallConfidence
	switch {
	case analysis.HasCategory(entities.CategoryHateSpeech):
		return entities.Recommendation{Action: entities.RecommendRemove, Priority: 1, RequiresReview: true}
	case confidence >= 0.9:
		return entities.Recommendation{Action: entities.RecommendHide, Priority: 1, RequiresReview: true}
	case confidence >= 0.7:
		return entities.Recommendation{Action: entities.RecommendFlag, Priority: 2, RequiresReview: true}
	case confidence >= 0.5:
		return entities.Recommendation{Action: entities.RecommendFlag, Priority: 3, RequiresReview: true}
	case confidence < 0.3:
		return entities.Recommendation{Action: entities.RecommendApprove, Priority: 10, RequiresReview: false}
	default:
		return entities.Recommendation{Action: entities.RecommendFlag, Priority: 5, RequiresReview: true}
	}
}
