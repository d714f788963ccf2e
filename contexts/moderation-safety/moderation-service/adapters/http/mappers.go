package httpadapter

import (
	"time"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	httptransport "quad/contexts/moderation-safety/moderation-service/transport/http"
)

func mapSnapshotRequest(dto httptransport.SnapshotDTO) entities.ContentSnapshot {
	return entities.ContentSnapshot{
		Text:      dto.Text,
		ImageURLs: trimAll(dto.ImageURLs),
		VideoURLs: trimAll(dto.VideoURLs),
	}
}

func mapSnapshot(snapshot entities.ContentSnapshot) httptransport.SnapshotDTO {
	return httptransport.SnapshotDTO{
		Text:      snapshot.Text,
		ImageURLs: snapshot.ImageURLs,
		VideoURLs: snapshot.VideoURLs,
	}
}

func mapAnalysis(result entities.AnalysisResult) httptransport.AnalysisDTO {
	categories := make([]string, 0, len(result.DetectedCategories))
	for _, category := range result.DetectedCategories {
		categories = append(categories, string(category))
	}
	phrases := result.FlaggedPhrases
	if phrases == nil {
		phrases = []string{}
	}
	return httptransport.AnalysisDTO{
		Scores: httptransport.ScoresDTO{
			Profanity:  result.Scores.Profanity,
			Spam:       result.Scores.Spam,
			HateSpeech: result.Scores.HateSpeech,
			Toxicity:   result.Scores.Toxicity,
			NSFW:       result.Scores.NSFW,
		},
		OverallConfidence:  result.OverallConfidence,
		DetectedCategories: categories,
		FlaggedPhrases:     phrases,
		MatchedFilters:     result.MatchedFilters,
		AnalyzedAt:         formatTime(result.AnalyzedAt),
	}
}

func mapRecommendation(recommendation entities.Recommendation) httptransport.RecommendationDTO {
	return httptransport.RecommendationDTO{
		Action:         string(recommendation.Action),
		Priority:       recommendation.Priority,
		RequiresReview: recommendation.RequiresReview,
	}
}

func mapQueueItem(item entities.QueueItem) httptransport.QueueItemDTO {
	dto := httptransport.QueueItemDTO{
		ItemID:        item.ItemID,
		UserID:        item.UserID,
		Snapshot:      mapSnapshot(item.Snapshot),
		Analysis:      mapAnalysis(item.Analysis),
		Priority:      item.Priority,
		Status:        string(item.Status),
		Reports:       make([]httptransport.ReportDTO, 0, len(item.Reports)),
		ReportCount:   item.ReportCount,
		AssignedTo:    item.AssignedTo,
		AutoModerated: item.AutoModerated,
		EscalatedTo:   item.EscalatedTo,
		CreatedAt:     formatTime(item.CreatedAt),
		UpdatedAt:     formatTime(item.UpdatedAt),
	}
	if item.Content != nil {
		dto.ContentType = string(item.Content.Kind())
		dto.ContentID = item.Content.ID()
	}
	for _, report := range item.Reports {
		dto.Reports = append(dto.Reports, httptransport.ReportDTO{
			ReporterID: report.ReporterID,
			Reason:     report.Reason,
			Details:    report.Details,
			ReportedAt: formatTime(report.ReportedAt),
		})
	}
	if item.Decision != nil {
		dto.Decision = &httptransport.DecisionDTO{
			Action:    string(item.Decision.Action),
			Reason:    item.Decision.Reason,
			Notes:     item.Decision.Notes,
			DecidedBy: item.Decision.DecidedBy,
			DecidedAt: formatTime(item.Decision.DecidedAt),
		}
	}
	return dto
}

func queueItemResponse(item entities.QueueItem) httptransport.QueueItemResponse {
	return httptransport.QueueItemResponse{Status: "success", Data: mapQueueItem(item), Timestamp: timestamp()}
}

func mapAction(record entities.ActionRecord) httptransport.ActionDTO {
	dto := httptransport.ActionDTO{
		ActionID:          record.ActionID,
		QueueItemID:       record.QueueItemID,
		UserID:            record.UserID,
		Action:            string(record.Action),
		Reason:            record.Reason,
		Notes:             record.Notes,
		ModeratorID:       record.ModeratorID,
		IsAutomated:       record.IsAutomated,
		AIConfidenceScore: record.AIConfidenceScore,
		DurationSeconds:   int64(record.Duration / time.Second),
		ExpiresAt:         formatOptionalTime(record.ExpiresAt),
		Appealable:        record.Appealable,
		Appealed:          record.Appealed,
		AppealID:          record.AppealID,
		Reversed:          record.Reversed,
		ReversedBy:        record.ReversedBy,
		ReversalReason:    record.ReversalReason,
		ReversedAt:        formatOptionalTime(record.ReversedAt),
		Expired:           record.Expired,
		CreatedAt:         formatTime(record.CreatedAt),
	}
	if record.Content != nil {
		dto.ContentType = string(record.Content.Kind())
		dto.ContentID = record.Content.ID()
	}
	return dto
}

func mapAppealMessage(message entities.AppealMessage) httptransport.AppealMessageDTO {
	return httptransport.AppealMessageDTO{
		AuthorID: message.AuthorID,
		Role:     string(message.Role),
		Body:     message.Body,
		SentAt:   formatTime(message.SentAt),
	}
}

func mapAppeal(appeal entities.Appeal) httptransport.AppealDTO {
	dto := httptransport.AppealDTO{
		AppealID:    appeal.AppealID,
		ActionID:    appeal.ActionID,
		UserID:      appeal.UserID,
		Reason:      appeal.Reason,
		Evidence:    appeal.Evidence,
		Status:      string(appeal.Status),
		ReviewerID:  appeal.ReviewerID,
		Priority:    appeal.Priority,
		Messages:    make([]httptransport.AppealMessageDTO, 0, len(appeal.Messages)),
		EscalatedTo: appeal.EscalatedTo,
		SubmittedAt: formatTime(appeal.SubmittedAt),
		UpdatedAt:   formatTime(appeal.UpdatedAt),
	}
	if dto.Evidence == nil {
		dto.Evidence = []string{}
	}
	for _, message := range appeal.Messages {
		dto.Messages = append(dto.Messages, mapAppealMessage(message))
	}
	if appeal.Decision != nil {
		dto.Decision = &httptransport.AppealDecisionDTO{
			Outcome:   string(appeal.Decision.Outcome),
			NewAction: string(appeal.Decision.NewAction),
			Reason:    appeal.Decision.Reason,
			DecidedBy: appeal.Decision.DecidedBy,
			DecidedAt: formatTime(appeal.Decision.DecidedAt),
		}
	}
	return dto
}

func appealResponse(appeal entities.Appeal) httptransport.AppealResponse {
	return httptransport.AppealResponse{Status: "success", Data: mapAppeal(appeal), Timestamp: timestamp()}
}

func mapFilter(filter entities.Filter) httptransport.FilterDTO {
	dto := httptransport.FilterDTO{
		Name:        filter.Name,
		Type:        string(filter.Type),
		Pattern:     filter.Pattern,
		Category:    string(filter.Category),
		Severity:    string(filter.Severity),
		Action:      string(filter.Action),
		IsActive:    filter.IsActive,
		ApplyTo:     make([]string, 0, len(filter.ApplyTo)),
		Exceptions:  filter.Exceptions,
		MatchCount:  filter.Stats.MatchCount,
		LastMatched: formatOptionalTime(filter.Stats.LastMatched),
		CreatedBy:   filter.CreatedBy,
		CreatedAt:   formatTime(filter.CreatedAt),
		UpdatedAt:   formatTime(filter.UpdatedAt),
	}
	for _, kind := range filter.ApplyTo {
		dto.ApplyTo = append(dto.ApplyTo, string(kind))
	}
	if dto.Exceptions == nil {
		dto.Exceptions = []string{}
	}
	return dto
}

func stringKeys[K ~string](counts map[K]int) map[string]int {
	out := make(map[string]int, len(counts))
	for key, total := range counts {
		out[string(key)] = total
	}
	return out
}

func formatTime(at time.Time) string {
	if at.IsZero() {
		return ""
	}
	return at.UTC().Format(time.RFC3339)
}

func formatOptionalTime(at *time.Time) string {
	if at == nil {
		return ""
	}
	return formatTime(*at)
}
