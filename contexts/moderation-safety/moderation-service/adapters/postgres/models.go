package postgresadapter

import (
	"encoding/json"
	"time"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
)

type filterModel struct {
	Name        string     `gorm:"column:name;primaryKey"`
	FilterType  string     `gorm:"column:filter_type"`
	Pattern     string     `gorm:"column:pattern"`
	Category    string     `gorm:"column:category"`
	Severity    string     `gorm:"column:severity"`
	Action      string     `gorm:"column:action"`
	IsActive    bool       `gorm:"column:is_active"`
	ApplyTo     []byte     `gorm:"column:apply_to;type:jsonb"`
	Exceptions  []byte     `gorm:"column:exceptions;type:jsonb"`
	MatchCount  int64      `gorm:"column:match_count"`
	LastMatched *time.Time `gorm:"column:last_matched"`
	CreatedBy   string     `gorm:"column:created_by"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (filterModel) TableName() string {
	return "moderation_filters"
}

func filterModelFromEntity(filter entities.Filter) (filterModel, error) {
	applyTo, err := json.Marshal(nonNil(filter.ApplyTo))
	if err != nil {
		return filterModel{}, err
	}
	exceptions, err := json.Marshal(nonNil(filter.Exceptions))
	if err != nil {
		return filterModel{}, err
	}
	return filterModel{
		Name:        filter.Name,
		FilterType:  string(filter.Type),
		Pattern:     filter.Pattern,
		Category:    string(filter.Category),
		Severity:    string(filter.Severity),
		Action:      string(filter.Action),
		IsActive:    filter.IsActive,
		ApplyTo:     applyTo,
		Exceptions:  exceptions,
		MatchCount:  filter.Stats.MatchCount,
		LastMatched: normalizeOptionalTime(filter.Stats.LastMatched),
		CreatedBy:   filter.CreatedBy,
		CreatedAt:   filter.CreatedAt.UTC(),
		UpdatedAt:   filter.UpdatedAt.UTC(),
	}, nil
}

func (m filterModel) toEntity() (entities.Filter, error) {
	filter := entities.Filter{
		Name:     m.Name,
		Type:     entities.FilterType(m.FilterType),
		Pattern:  m.Pattern,
		Category: entities.Category(m.Category),
		Severity: entities.Severity(m.Severity),
		Action:   entities.Action(m.Action),
		IsActive: m.IsActive,
		Stats: entities.FilterStats{
			MatchCount:  m.MatchCount,
			LastMatched: normalizeOptionalTime(m.LastMatched),
		},
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	if err := decodeJSON(m.ApplyTo, &filter.ApplyTo); err != nil {
		return entities.Filter{}, err
	}
	if err := decodeJSON(m.Exceptions, &filter.Exceptions); err != nil {
		return entities.Filter{}, err
	}
	return filter, nil
}

type snapshotDocument struct {
	Text      string   `json:"text"`
	ImageURLs []string `json:"image_urls,omitempty"`
	VideoURLs []string `json:"video_urls,omitempty"`
}

type analysisDocument struct {
	Profanity          float64   `json:"profanity"`
	Spam               float64   `json:"spam"`
	HateSpeech         float64   `json:"hate_speech"`
	Toxicity           float64   `json:"toxicity"`
	NSFW               float64   `json:"nsfw"`
	OverallConfidence  float64   `json:"overall_confidence"`
	DetectedCategories []string  `json:"detected_categories"`
	FlaggedPhrases     []string  `json:"flagged_phrases,omitempty"`
	MatchedFilters     []string  `json:"matched_filters,omitempty"`
	AnalyzedAt         time.Time `json:"analyzed_at"`
}

type reportDocument struct {
	ReporterID string    `json:"reporter_id"`
	Reason     string    `json:"reason"`
	Details    string    `json:"details,omitempty"`
	ReportedAt time.Time `json:"reported_at"`
}

type decisionDocument struct {
	Action    string    `json:"action,omitempty"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes,omitempty"`
	DecidedBy string    `json:"decided_by"`
	DecidedAt time.Time `json:"decided_at"`
}

type queueItemModel struct {
	ID                 string    `gorm:"column:id;primaryKey"`
	ContentKind        string    `gorm:"column:content_kind"`
	ContentID          string    `gorm:"column:content_id"`
	UserID             string    `gorm:"column:user_id"`
	Snapshot           []byte    `gorm:"column:snapshot;type:jsonb"`
	Analysis           []byte    `gorm:"column:analysis;type:jsonb"`
	DetectedCategories []byte    `gorm:"column:detected_categories;type:jsonb"`
	Priority           int       `gorm:"column:priority"`
	Status             string    `gorm:"column:status"`
	Reports            []byte    `gorm:"column:reports;type:jsonb"`
	ReportCount        int       `gorm:"column:report_count"`
	AssignedTo         string    `gorm:"column:assigned_to"`
	Decision           []byte    `gorm:"column:decision;type:jsonb"`
	AutoModerated      bool      `gorm:"column:auto_moderated"`
	EscalatedTo        string    `gorm:"column:escalated_to"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (queueItemModel) TableName() string {
	return "moderation_queue_items"
}

func queueItemModelFromEntity(item entities.QueueItem) (queueItemModel, error) {
	categories := categoryStrings(item.Analysis.DetectedCategories)
	snapshot, err := json.Marshal(snapshotDocument{
		Text:      item.Snapshot.Text,
		ImageURLs: item.Snapshot.ImageURLs,
		VideoURLs: item.Snapshot.VideoURLs,
	})
	if err != nil {
		return queueItemModel{}, err
	}
	analysis, err := json.Marshal(analysisDocument{
		Profanity:          item.Analysis.Scores.Profanity,
		Spam:               item.Analysis.Scores.Spam,
		HateSpeech:         item.Analysis.Scores.HateSpeech,
		Toxicity:           item.Analysis.Scores.Toxicity,
		NSFW:               item.Analysis.Scores.NSFW,
		OverallConfidence:  item.Analysis.OverallConfidence,
		DetectedCategories: categories,
		FlaggedPhrases:     item.Analysis.FlaggedPhrases,
		MatchedFilters:     item.Analysis.MatchedFilters,
		AnalyzedAt:         item.Analysis.AnalyzedAt.UTC(),
	})
	if err != nil {
		return queueItemModel{}, err
	}
	detected, err := json.Marshal(categories)
	if err != nil {
		return queueItemModel{}, err
	}
	reports := make([]reportDocument, 0, len(item.Reports))
	for _, report := range item.Reports {
		reports = append(reports, reportDocument{
			ReporterID: report.ReporterID,
			Reason:     report.Reason,
			Details:    report.Details,
			ReportedAt: report.ReportedAt.UTC(),
		})
	}
	reportsJSON, err := json.Marshal(reports)
	if err != nil {
		return queueItemModel{}, err
	}
	var decision []byte
	if item.Decision != nil {
		decision, err = json.Marshal(decisionDocument{
			Action:    string(item.Decision.Action),
			Reason:    item.Decision.Reason,
			Notes:     item.Decision.Notes,
			DecidedBy: item.Decision.DecidedBy,
			DecidedAt: item.Decision.DecidedAt.UTC(),
		})
		if err != nil {
			return queueItemModel{}, err
		}
	}
	return queueItemModel{
		ID:                 item.ItemID,
		ContentKind:        string(item.Content.Kind()),
		ContentID:          item.Content.ID(),
		UserID:             item.UserID,
		Snapshot:           snapshot,
		Analysis:           analysis,
		DetectedCategories: detected,
		Priority:           item.Priority,
		Status:             string(item.Status),
		Reports:            reportsJSON,
		ReportCount:        item.ReportCount,
		AssignedTo:         item.AssignedTo,
		Decision:           decision,
		AutoModerated:      item.AutoModerated,
		EscalatedTo:        item.EscalatedTo,
		CreatedAt:          item.CreatedAt.UTC(),
		UpdatedAt:          item.UpdatedAt.UTC(),
	}, nil
}

func (m queueItemModel) toEntity() (entities.QueueItem, error) {
	content, err := entities.NewContentRef(entities.ContentKind(m.ContentKind), m.ContentID)
	if err != nil {
		return entities.QueueItem{}, err
	}
	var snapshot snapshotDocument
	if err := decodeJSON(m.Snapshot, &snapshot); err != nil {
		return entities.QueueItem{}, err
	}
	var analysis analysisDocument
	if err := decodeJSON(m.Analysis, &analysis); err != nil {
		return entities.QueueItem{}, err
	}
	var reports []reportDocument
	if err := decodeJSON(m.Reports, &reports); err != nil {
		return entities.QueueItem{}, err
	}
	item := entities.QueueItem{
		ItemID:  m.ID,
		Content: content,
		UserID:  m.UserID,
		Snapshot: entities.ContentSnapshot{
			Text:      snapshot.Text,
			ImageURLs: snapshot.ImageURLs,
			VideoURLs: snapshot.VideoURLs,
		},
		Analysis: entities.AnalysisResult{
			Scores: entities.Scores{
				Profanity:  analysis.Profanity,
				Spam:       analysis.Spam,
				HateSpeech: analysis.HateSpeech,
				Toxicity:   analysis.Toxicity,
				NSFW:       analysis.NSFW,
			},
			OverallConfidence:  analysis.OverallConfidence,
			DetectedCategories: categoriesFromStrings(analysis.DetectedCategories),
			FlaggedPhrases:     analysis.FlaggedPhrases,
			MatchedFilters:     analysis.MatchedFilters,
			AnalyzedAt:         analysis.AnalyzedAt.UTC(),
		},
		Priority:      m.Priority,
		Status:        entities.QueueStatus(m.Status),
		ReportCount:   m.ReportCount,
		AssignedTo:    m.AssignedTo,
		AutoModerated: m.AutoModerated,
		EscalatedTo:   m.EscalatedTo,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
	}
	for _, report := range reports {
		item.Reports = append(item.Reports, entities.Report{
			ReporterID: report.ReporterID,
			Reason:     report.Reason,
			Details:    report.Details,
			ReportedAt: report.ReportedAt.UTC(),
		})
	}
	if len(m.Decision) > 0 && string(m.Decision) != "null" {
		var decision decisionDocument
		if err := json.Unmarshal(m.Decision, &decision); err != nil {
			return entities.QueueItem{}, err
		}
		item.Decision = &entities.Decision{
			Action:    entities.Action(decision.Action),
			Reason:    decision.Reason,
			Notes:     decision.Notes,
			DecidedBy: decision.DecidedBy,
			DecidedAt: decision.DecidedAt.UTC(),
		}
	}
	return item, nil
}

type actionModel struct {
	ID                string     `gorm:"column:id;primaryKey"`
	QueueItemID       string     `gorm:"column:queue_item_id"`
	ContentKind       string     `gorm:"column:content_kind"`
	ContentID         string     `gorm:"column:content_id"`
	UserID            string     `gorm:"column:user_id"`
	Action            string     `gorm:"column:action"`
	Reason            string     `gorm:"column:reason"`
	Notes             string     `gorm:"column:notes"`
	ModeratorID       string     `gorm:"column:moderator_id"`
	IsAutomated       bool       `gorm:"column:is_automated"`
	AIConfidenceScore float64    `gorm:"column:ai_confidence_score"`
	DurationSeconds   int64      `gorm:"column:duration_seconds"`
	ExpiresAt         *time.Time `gorm:"column:expires_at"`
	Appealable        bool       `gorm:"column:appealable"`
	Appealed          bool       `gorm:"column:appealed"`
	AppealID          string     `gorm:"column:appeal_id"`
	Reversed          bool       `gorm:"column:reversed"`
	ReversedBy        string     `gorm:"column:reversed_by"`
	ReversalReason    string     `gorm:"column:reversal_reason"`
	ReversedAt        *time.Time `gorm:"column:reversed_at"`
	Expired           bool       `gorm:"column:expired"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
}

func (actionModel) TableName() string {
	return "moderation_actions"
}

func actionModelFromEntity(record entities.ActionRecord) actionModel {
	row := actionModel{
		ID:                record.ActionID,
		QueueItemID:       record.QueueItemID,
		UserID:            record.UserID,
		Action:            string(record.Action),
		Reason:            record.Reason,
		Notes:             record.Notes,
		ModeratorID:       record.ModeratorID,
		IsAutomated:       record.IsAutomated,
		AIConfidenceScore: record.AIConfidenceScore,
		DurationSeconds:   int64(record.Duration / time.Second),
		ExpiresAt:         normalizeOptionalTime(record.ExpiresAt),
		Appealable:        record.Appealable,
		Appealed:          record.Appealed,
		AppealID:          record.AppealID,
		Reversed:          record.Reversed,
		ReversedBy:        record.ReversedBy,
		ReversalReason:    record.ReversalReason,
		ReversedAt:        normalizeOptionalTime(record.ReversedAt),
		Expired:           record.Expired,
		CreatedAt:         record.CreatedAt.UTC(),
	}
	if record.Content != nil {
		row.ContentKind = string(record.Content.Kind())
		row.ContentID = record.Content.ID()
	}
	return row
}

func (m actionModel) toEntity() (entities.ActionRecord, error) {
	content, err := entities.NewContentRef(entities.ContentKind(m.ContentKind), m.ContentID)
	if err != nil {
		return entities.ActionRecord{}, err
	}
	return entities.ActionRecord{
		ActionID:          m.ID,
		QueueItemID:       m.QueueItemID,
		Content:           content,
		UserID:            m.UserID,
		Action:            entities.Action(m.Action),
		Reason:            m.Reason,
		Notes:             m.Notes,
		ModeratorID:       m.ModeratorID,
		IsAutomated:       m.IsAutomated,
		AIConfidenceScore: m.AIConfidenceScore,
		Duration:          time.Duration(m.DurationSeconds) * time.Second,
		ExpiresAt:         normalizeOptionalTime(m.ExpiresAt),
		Appealable:        m.Appealable,
		Appealed:          m.Appealed,
		AppealID:          m.AppealID,
		Reversed:          m.Reversed,
		ReversedBy:        m.ReversedBy,
		ReversalReason:    m.ReversalReason,
		ReversedAt:        normalizeOptionalTime(m.ReversedAt),
		Expired:           m.Expired,
		CreatedAt:         m.CreatedAt.UTC(),
	}, nil
}

type appealDecisionDocument struct {
	Outcome   string    `json:"outcome"`
	NewAction string    `json:"new_action,omitempty"`
	Reason    string    `json:"reason"`
	DecidedBy string    `json:"decided_by"`
	DecidedAt time.Time `json:"decided_at"`
}

type appealMessageDocument struct {
	AuthorID string    `json:"author_id"`
	Role     string    `json:"role"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sent_at"`
}

type appealModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ActionID    string    `gorm:"column:action_id"`
	UserID      string    `gorm:"column:user_id"`
	Reason      string    `gorm:"column:reason"`
	Evidence    []byte    `gorm:"column:evidence;type:jsonb"`
	Status      string    `gorm:"column:status"`
	ReviewerID  string    `gorm:"column:reviewer_id"`
	Decision    []byte    `gorm:"column:decision;type:jsonb"`
	Priority    int       `gorm:"column:priority"`
	Messages    []byte    `gorm:"column:messages;type:jsonb"`
	EscalatedTo string    `gorm:"column:escalated_to"`
	SubmittedAt time.Time `gorm:"column:submitted_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (appealModel) TableName() string {
	return "moderation_appeals"
}

func appealModelFromEntity(appeal entities.Appeal) (appealModel, error) {
	evidence, err := json.Marshal(nonNil(appeal.Evidence))
	if err != nil {
		return appealModel{}, err
	}
	messages := make([]appealMessageDocument, 0, len(appeal.Messages))
	for _, message := range appeal.Messages {
		messages = append(messages, appealMessageDocument{
			AuthorID: message.AuthorID,
			Role:     string(message.Role),
			Body:     message.Body,
			SentAt:   message.SentAt.UTC(),
		})
	}
	messagesJSON, err := json.Marshal(messages)
	if err != nil {
		return appealModel{}, err
	}
	var decision []byte
	if appeal.Decision != nil {
		decision, err = json.Marshal(appealDecisionDocument{
			Outcome:   string(appeal.Decision.Outcome),
			NewAction: string(appeal.Decision.NewAction),
			Reason:    appeal.Decision.Reason,
			DecidedBy: appeal.Decision.DecidedBy,
			DecidedAt: appeal.Decision.DecidedAt.UTC(),
		})
		if err != nil {
			return appealModel{}, err
		}
	}
	return appealModel{
		ID:          appeal.AppealID,
		ActionID:    appeal.ActionID,
		UserID:      appeal.UserID,
		Reason:      appeal.Reason,
		Evidence:    evidence,
		Status:      string(appeal.Status),
		ReviewerID:  appeal.ReviewerID,
		Decision:    decision,
		Priority:    appeal.Priority,
		Messages:    messagesJSON,
		EscalatedTo: appeal.EscalatedTo,
		SubmittedAt: appeal.SubmittedAt.UTC(),
		UpdatedAt:   appeal.UpdatedAt.UTC(),
	}, nil
}

func (m appealModel) toEntity() (entities.Appeal, error) {
	appeal := entities.Appeal{
		AppealID:    m.ID,
		ActionID:    m.ActionID,
		UserID:      m.UserID,
		Reason:      m.Reason,
		Status:      entities.AppealStatus(m.Status),
		ReviewerID:  m.ReviewerID,
		Priority:    m.Priority,
		EscalatedTo: m.EscalatedTo,
		SubmittedAt: m.SubmittedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
	if err := decodeJSON(m.Evidence, &appeal.Evidence); err != nil {
		return entities.Appeal{}, err
	}
	var messages []appealMessageDocument
	if err := decodeJSON(m.Messages, &messages); err != nil {
		return entities.Appeal{}, err
	}
	for _, message := range messages {
		appeal.Messages = append(appeal.Messages, entities.AppealMessage{
			AuthorID: message.AuthorID,
			Role:     entities.MessageRole(message.Role),
			Body:     message.Body,
			SentAt:   message.SentAt.UTC(),
		})
	}
	if len(m.Decision) > 0 && string(m.Decision) != "null" {
		var decision appealDecisionDocument
		if err := json.Unmarshal(m.Decision, &decision); err != nil {
			return entities.Appeal{}, err
		}
		appeal.Decision = &entities.AppealDecision{
			Outcome:   entities.AppealOutcome(decision.Outcome),
			NewAction: entities.Action(decision.NewAction),
			Reason:    decision.Reason,
			DecidedBy: decision.DecidedBy,
			DecidedAt: decision.DecidedAt.UTC(),
		}
	}
	return appeal, nil
}

type penaltyTaskModel struct {
	ID            string     `gorm:"column:id;primaryKey"`
	UserID        string     `gorm:"column:user_id"`
	ActionKind    string     `gorm:"column:action_kind"`
	ActionID      string     `gorm:"column:action_id"`
	Status        string     `gorm:"column:status"`
	Attempts      int        `gorm:"column:attempts"`
	NextAttemptAt time.Time  `gorm:"column:next_attempt_at"`
	LastError     string     `gorm:"column:last_error"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	DoneAt        *time.Time `gorm:"column:done_at"`
}

func (penaltyTaskModel) TableName() string {
	return "moderation_penalty_tasks"
}

func penaltyTaskModelFromEntity(task entities.PenaltyTask) penaltyTaskModel {
	return penaltyTaskModel{
		ID:            task.TaskID,
		UserID:        task.UserID,
		ActionKind:    string(task.ActionKind),
		ActionID:      task.ActionID,
		Status:        string(task.Status),
		Attempts:      task.Attempts,
		NextAttemptAt: task.NextAttemptAt.UTC(),
		LastError:     task.LastError,
		CreatedAt:     task.CreatedAt.UTC(),
	}
}

func (m penaltyTaskModel) toEntity() entities.PenaltyTask {
	return entities.PenaltyTask{
		TaskID:        m.ID,
		UserID:        m.UserID,
		ActionKind:    entities.Action(m.ActionKind),
		ActionID:      m.ActionID,
		Status:        entities.PenaltyStatus(m.Status),
		Attempts:      m.Attempts,
		NextAttemptAt: m.NextAttemptAt.UTC(),
		LastError:     m.LastError,
		CreatedAt:     m.CreatedAt.UTC(),
	}
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	ResultID    string    `gorm:"column:result_id"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "moderation_idempotency"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload;type:jsonb"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "moderation_outbox"
}

type eventDedupModel struct {
	EventID     string    `gorm:"column:event_id;primaryKey"`
	PayloadHash string    `gorm:"column:payload_hash"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
	ProcessedAt time.Time `gorm:"column:processed_at"`
}

func (eventDedupModel) TableName() string {
	return "moderation_event_dedup"
}

type statusCount struct {
	Key   string `gorm:"column:key"`
	Total int    `gorm:"column:total"`
}

func categoryStrings(categories []entities.Category) []string {
	values := make([]string, 0, len(categories))
	for _, category := range categories {
		values = append(values, string(category))
	}
	return values
}

func categoriesFromStrings(values []string) []entities.Category {
	categories := make([]entities.Category, 0, len(values))
	for _, value := range values {
		categories = append(categories, entities.Category(value))
	}
	return categories
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

func decodeJSON(raw []byte, target any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, target)
}

func normalizeOptionalTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	normalized := value.UTC()
	return &normalized
}
