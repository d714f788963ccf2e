package services

import "quad/contexts/moderation-safety/moderation-service/domain/entities"

// RecalculatePriority derives queue priority from the analysis and the number
// of user reports. More reports never lower the urgency.
func RecalculatePriority(analysis entities.AnalysisResult, reportCount int) int {
	priority := confidencePriority(analysis.OverallConfidence)
	priority = min(priority, reportPriority(reportCount))
	if analysis.Scores.HateSpeech > 0.7 || analysis.HasCategory(entities.CategoryViolence) {
		priority = 1
	}
	return entities.ClampPriority(priority)
}

// InitialPriority is used when an item first enters the queue.
func InitialPriority(analysis entities.AnalysisResult, recommendation entities.Recommendation) int {
	return entities.ClampPriority(min(recommendation.Priority, RecalculatePriority(analysis, 0)))
}

func confidencePriority(confidence float64) int {
	switch {
	case confidence > 0.9:
		return 1
	case confidence > 0.7:
		return 2
	case confidence > 0.5:
		return 3
	default:
		return 5
	}
}

func reportPriority(reportCount int) int {
	switch {
	case reportCount >= 10:
		return 1
	case reportCount >= 5:
		return 2
	case reportCount >= 3:
		return 3
	default:
		return 10
	}
}
