package services

import "quad/contexts/moderation-safety/moderation-service/domain/entities"

type Verdict string

const (
	VerdictAllow         Verdict = "allow"
	VerdictReject        Verdict = "reject"
	VerdictAllowAndQueue Verdict = "allow_and_queue"
)

// RejectConfidence is the confidence above which a remove recommendation
// blocks publication outright.
const RejectConfidence = 0.95

// EvaluateIngestion decides whether a submission is published, blocked, or
// published and queued for review.
func EvaluateIngestion(analysis entities.AnalysisResult, recommendation entities.Recommendation) Verdict {
	switch recommendation.Action {
	case entities.RecommendApprove:
		return VerdictAllow
	case entities.RecommendRemove:
		if analysis.OverallConfidence >= RejectConfidence {
			return VerdictReject
		}
		return VerdictAllowAndQueue
	case entities.RecommendFlag, entities.RecommendHide:
		return VerdictAllowAndQueue
	default:
		return VerdictAllowAndQueue
	}
}
