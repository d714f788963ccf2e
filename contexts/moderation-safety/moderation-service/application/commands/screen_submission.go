package commands

import (
	"context"
	"log/slog"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/application/analysis"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	"quad/contexts/moderation-safety/moderation-service/domain/services"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

type ScreenSubmissionCommand struct {
	Content  entities.ContentRef
	UserID   string
	Snapshot entities.ContentSnapshot
}

type ScreenSubmissionResult struct {
	Verdict        services.Verdict
	Analysis       entities.AnalysisResult
	Recommendation entities.Recommendation
}

// ScreenSubmissionUseCase is the synchronous gate in front of publication.
// Queueing is handed off and never delays or fails the verdict.
type ScreenSubmissionUseCase struct {
	Analyzer   ContentAnalyzer
	Dispatcher ports.EnqueueDispatcher
	Logger     *slog.Logger
}

func (u ScreenSubmissionUseCase) Execute(ctx context.Context, cmd ScreenSubmissionCommand) (ScreenSubmissionResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if cmd.Content == nil || cmd.UserID == "" {
		return ScreenSubmissionResult{}, validationErrorf("content and user_id are required")
	}

	result := u.Analyzer.Analyze(ctx, analysis.AnalyzeInput{
		Text:      cmd.Snapshot.Text,
		ImageURLs: cmd.Snapshot.ImageURLs,
		VideoURLs: cmd.Snapshot.VideoURLs,
		Kind:      cmd.Content.Kind(),
	})
	recommendation := services.Recommend(result)
	verdict := services.EvaluateIngestion(result, recommendation)
	screeningVerdicts.WithLabelValues(string(verdict)).Inc()

	if verdict == services.VerdictAllowAndQueue && u.Dispatcher != nil {
		err := u.Dispatcher.DispatchEnqueue(ctx, ports.EnqueueRequest{
			ContentKind:    cmd.Content.Kind(),
			ContentID:      cmd.Content.ID(),
			UserID:         cmd.UserID,
			Snapshot:       cmd.Snapshot,
			Analysis:       result,
			Recommendation: recommendation,
		})
		if err != nil {
			enqueueDispatchFailures.Inc()
			logger.Error("screening enqueue dispatch failed",
				"event", "moderation_screen_enqueue_failed",
				"module", "moderation-safety/moderation-service",
				"layer", "application",
				"content_kind", string(cmd.Content.Kind()),
				"content_id", cmd.Content.ID(),
				"user_id", cmd.UserID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("submission screened",
		"event", "moderation_submission_screened",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"content_kind", string(cmd.Content.Kind()),
		"content_id", cmd.Content.ID(),
		"verdict", string(verdict),
		"confidence", result.OverallConfidence,
	)
	return ScreenSubmissionResult{
		Verdict:        verdict,
		Analysis:       result,
		Recommendation: recommendation,
	}, nil
}
