package commands

import (
	"context"

	"quad/contexts/moderation-safety/moderation-service/application/analysis"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
)

// ContentAnalyzer scores content. Implemented by analysis.Analyzer.
type ContentAnalyzer interface {
	Analyze(ctx context.Context, in analysis.AnalyzeInput) entities.AnalysisResult
}

// RuleInvalidator drops cached filters after a filter change.
type RuleInvalidator interface {
	Invalidate()
}
