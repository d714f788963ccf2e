package queries

import (
	"context"

	"quad/contexts/moderation-safety/moderation-service/application/analysis"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	"quad/contexts/moderation-safety/moderation-service/domain/services"
)

type ContentAnalyzer interface {
	Analyze(ctx context.Context, in analysis.AnalyzeInput) entities.AnalysisResult
}

type AnalyzeContentResult struct {
	Analysis       entities.AnalysisResult
	Recommendation entities.Recommendation
}

// AnalyzeContentUseCase scores content without persisting anything.
type AnalyzeContentUseCase struct {
	Analyzer ContentAnalyzer
}

func (uc AnalyzeContentUseCase) Execute(ctx context.Context, in analysis.AnalyzeInput) AnalyzeContentResult {
	result := uc.Analyzer.Analyze(ctx, in)
	return AnalyzeContentResult{
		Analysis:       result,
		Recommendation: services.Recommend(result),
	}
}
