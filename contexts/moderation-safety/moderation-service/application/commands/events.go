package commands

import (
	"time"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

func decisionRecordedEvent(eventID string, item entities.QueueItem, record entities.ActionRecord) (ports.OutboxMessage, error) {
	data := map[string]any{
		"item_id":      item.ItemID,
		"action_id":    record.ActionID,
		"action":       string(record.Action),
		"user_id":      record.UserID,
		"moderator_id": record.ModeratorID,
		"content_kind": string(item.Content.Kind()),
		"content_id":   item.Content.ID(),
		"queue_status": string(item.Status),
		"appealable":   record.Appealable,
	}
	if record.ExpiresAt != nil {
		data["expires_at"] = record.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return application.NewOutboxEvent(eventID, ports.TopicDecisionRecorded, "user_id", record.UserID, record.CreatedAt, data)
}

func actionReversedEvent(eventID string, record entities.ActionRecord) (ports.OutboxMessage, error) {
	return application.NewOutboxEvent(eventID, ports.TopicActionReversed, "user_id", record.UserID, *record.ReversedAt, map[string]any{
		"action_id":       record.ActionID,
		"action":          string(record.Action),
		"user_id":         record.UserID,
		"reversed_by":     record.ReversedBy,
		"reversal_reason": record.ReversalReason,
	})
}

func appealResolvedEvent(eventID string, appeal entities.Appeal) (ports.OutboxMessage, error) {
	data := map[string]any{
		"appeal_id":   appeal.AppealID,
		"action_id":   appeal.ActionID,
		"user_id":     appeal.UserID,
		"status":      string(appeal.Status),
		"outcome":     string(appeal.Decision.Outcome),
		"reviewer_id": appeal.Decision.DecidedBy,
	}
	if appeal.Decision.NewAction != "" {
		data["new_action"] = string(appeal.Decision.NewAction)
	}
	return application.NewOutboxEvent(eventID, ports.TopicAppealResolved, "user_id", appeal.UserID, appeal.Decision.DecidedAt, data)
}
