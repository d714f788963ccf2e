package workers

import (
	"crypto/sha256"
	"encoding/hex"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

func actionExpiredEvent(eventID string, record entities.ActionRecord) (ports.OutboxMessage, error) {
	return application.NewOutboxEvent(eventID, ports.TopicActionExpired, "user_id", record.UserID, *record.ExpiresAt, map[string]any{
		"action_id": record.ActionID,
		"action":    string(record.Action),
		"user_id":   record.UserID,
	})
}
