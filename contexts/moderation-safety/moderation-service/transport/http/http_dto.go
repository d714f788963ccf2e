package http

type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Status    string    `json:"status"`
	Error     ErrorBody `json:"error"`
	Timestamp string    `json:"timestamp"`
}

type SnapshotDTO struct {
	Text      string   `json:"text,omitempty"`
	ImageURLs []string `json:"image_urls,omitempty"`
	VideoURLs []string `json:"video_urls,omitempty"`
}

type AnalyzeRequest struct {
	Text        string   `json:"text"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	VideoURLs   []string `json:"video_urls,omitempty"`
	ContentType string   `json:"content_type,omitempty"`
}

type SubmissionRequest struct {
	ContentID   string      `json:"content_id"`
	ContentType string      `json:"content_type"`
	UserID      string      `json:"user_id"`
	Snapshot    SnapshotDTO `json:"snapshot"`
}

type ScoresDTO struct {
	Profanity  float64 `json:"profanity"`
	Spam       float64 `json:"spam"`
	HateSpeech float64 `json:"hate_speech"`
	Toxicity   float64 `json:"toxicity"`
	NSFW       float64 `json:"nsfw"`
}

type AnalysisDTO struct {
	Scores             ScoresDTO `json:"scores"`
	OverallConfidence  float64   `json:"overall_confidence"`
	DetectedCategories []string  `json:"detected_categories"`
	FlaggedPhrases     []string  `json:"flagged_phrases"`
	MatchedFilters     []string  `json:"matched_filters,omitempty"`
	AnalyzedAt         string    `json:"analyzed_at,omitempty"`
}

type RecommendationDTO struct {
	Action         string `json:"action"`
	Priority       int    `json:"priority"`
	RequiresReview bool   `json:"requires_review"`
}

type AnalyzeResponse struct {
	Status string `json:"status"`
	Data   struct {
		Analysis       AnalysisDTO       `json:"analysis"`
		Recommendation RecommendationDTO `json:"recommendation"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type ScreenResponse struct {
	Status string `json:"status"`
	Data   struct {
		Verdict        string            `json:"verdict"`
		Analysis       AnalysisDTO       `json:"analysis"`
		Recommendation RecommendationDTO `json:"recommendation"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type SubmissionResponse struct {
	Status string `json:"status"`
	Data   struct {
		Outcome        string            `json:"outcome"`
		QueueItem      *QueueItemDTO     `json:"queue_item,omitempty"`
		Recommendation RecommendationDTO `json:"recommendation"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type ReportDTO struct {
	ReporterID string `json:"reporter_id"`
	Reason     string `json:"reason"`
	Details    string `json:"details,omitempty"`
	ReportedAt string `json:"reported_at"`
}

type DecisionDTO struct {
	Action    string `json:"action"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes,omitempty"`
	DecidedBy string `json:"decided_by"`
	DecidedAt string `json:"decided_at"`
}

type QueueItemDTO struct {
	ItemID        string       `json:"item_id"`
	ContentType   string       `json:"content_type"`
	ContentID     string       `json:"content_id"`
	UserID        string       `json:"user_id"`
	Snapshot      SnapshotDTO  `json:"snapshot"`
	Analysis      AnalysisDTO  `json:"analysis"`
	Priority      int          `json:"priority"`
	Status        string       `json:"status"`
	Reports       []ReportDTO  `json:"reports"`
	ReportCount   int          `json:"report_count"`
	AssignedTo    string       `json:"assigned_to,omitempty"`
	Decision      *DecisionDTO `json:"decision,omitempty"`
	AutoModerated bool         `json:"auto_moderated"`
	EscalatedTo   string       `json:"escalated_to,omitempty"`
	CreatedAt     string       `json:"created_at"`
	UpdatedAt     string       `json:"updated_at"`
}

type QueueItemResponse struct {
	Status    string       `json:"status"`
	Data      QueueItemDTO `json:"data"`
	Timestamp string       `json:"timestamp"`
}

type QueueResponse struct {
	Status string `json:"status"`
	Data   struct {
		Items      []QueueItemDTO `json:"items"`
		Total      int            `json:"total"`
		Page       int            `json:"page"`
		TotalPages int            `json:"total_pages"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type EscalateRequest struct {
	EscalateTo string `json:"escalate_to"`
	Reason     string `json:"reason"`
}

type ReportRequest struct {
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

type TakeActionRequest struct {
	Action          string `json:"action"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes,omitempty"`
	DurationSeconds int64  `json:"duration_seconds,omitempty"`
}

type ActionDTO struct {
	ActionID          string  `json:"action_id"`
	QueueItemID       string  `json:"queue_item_id"`
	ContentType       string  `json:"content_type"`
	ContentID         string  `json:"content_id"`
	UserID            string  `json:"user_id"`
	Action            string  `json:"action"`
	Reason            string  `json:"reason"`
	Notes             string  `json:"notes,omitempty"`
	ModeratorID       string  `json:"moderator_id"`
	IsAutomated       bool    `json:"is_automated"`
	AIConfidenceScore float64 `json:"ai_confidence_score"`
	DurationSeconds   int64   `json:"duration_seconds,omitempty"`
	ExpiresAt         string  `json:"expires_at,omitempty"`
	Appealable        bool    `json:"appealable"`
	Appealed          bool    `json:"appealed"`
	AppealID          string  `json:"appeal_id,omitempty"`
	Reversed          bool    `json:"reversed"`
	ReversedBy        string  `json:"reversed_by,omitempty"`
	ReversalReason    string  `json:"reversal_reason,omitempty"`
	ReversedAt        string  `json:"reversed_at,omitempty"`
	Expired           bool    `json:"expired"`
	CreatedAt         string  `json:"created_at"`
}

type TakeActionResponse struct {
	Status string `json:"status"`
	Data   struct {
		QueueItem QueueItemDTO `json:"queue_item"`
		Action    ActionDTO    `json:"action"`
		Replayed  bool         `json:"replayed"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type BulkActionRequest struct {
	ItemIDs []string `json:"item_ids"`
	Action  string   `json:"action"`
	Reason  string   `json:"reason"`
}

type BulkItemResultDTO struct {
	ItemID   string `json:"item_id"`
	Success  bool   `json:"success"`
	ActionID string `json:"action_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

type BulkActionResponse struct {
	Status string `json:"status"`
	Data   struct {
		Results   []BulkItemResultDTO `json:"results"`
		Succeeded int                 `json:"succeeded"`
		Failed    int                 `json:"failed"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type ReverseActionRequest struct {
	Reason string `json:"reason"`
}

type ActionResponse struct {
	Status    string    `json:"status"`
	Data      ActionDTO `json:"data"`
	Timestamp string    `json:"timestamp"`
}

type SubmitAppealRequest struct {
	ActionID string   `json:"action_id"`
	Reason   string   `json:"reason"`
	Evidence []string `json:"evidence,omitempty"`
}

type ResolveAppealRequest struct {
	Outcome   string `json:"outcome"`
	Reason    string `json:"reason"`
	NewAction string `json:"new_action,omitempty"`
}

type EscalateAppealRequest struct {
	EscalateTo string `json:"escalate_to"`
	Reason     string `json:"reason"`
}

type AppealMessageRequest struct {
	Body string `json:"body"`
}

type AppealMessageDTO struct {
	AuthorID string `json:"author_id"`
	Role     string `json:"role"`
	Body     string `json:"body"`
	SentAt   string `json:"sent_at"`
}

type AppealDecisionDTO struct {
	Outcome   string `json:"outcome"`
	NewAction string `json:"new_action,omitempty"`
	Reason    string `json:"reason"`
	DecidedBy string `json:"decided_by"`
	DecidedAt string `json:"decided_at"`
}

type AppealDTO struct {
	AppealID    string             `json:"appeal_id"`
	ActionID    string             `json:"action_id"`
	UserID      string             `json:"user_id"`
	Reason      string             `json:"reason"`
	Evidence    []string           `json:"evidence"`
	Status      string             `json:"status"`
	ReviewerID  string             `json:"reviewer_id,omitempty"`
	Decision    *AppealDecisionDTO `json:"decision,omitempty"`
	Priority    int                `json:"priority"`
	Messages    []AppealMessageDTO `json:"messages"`
	EscalatedTo string             `json:"escalated_to,omitempty"`
	SubmittedAt string             `json:"submitted_at"`
	UpdatedAt   string             `json:"updated_at"`
}

type AppealResponse struct {
	Status    string    `json:"status"`
	Data      AppealDTO `json:"data"`
	Timestamp string    `json:"timestamp"`
}

type AppealListResponse struct {
	Status string `json:"status"`
	Data   struct {
		Appeals    []AppealDTO `json:"appeals"`
		Total      int         `json:"total"`
		Page       int         `json:"page"`
		TotalPages int         `json:"total_pages"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type AppealMessageResponse struct {
	Status string `json:"status"`
	Data   struct {
		AppealID string           `json:"appeal_id"`
		Message  AppealMessageDTO `json:"message"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type StatisticsResponse struct {
	Status string `json:"status"`
	Data   struct {
		From           string         `json:"from,omitempty"`
		To             string         `json:"to,omitempty"`
		QueueByStatus  map[string]int `json:"queue_by_status"`
		ActionsByKind  map[string]int `json:"actions_by_kind"`
		AppealByStatus map[string]int `json:"appeals_by_status"`
		PendingQueue   int            `json:"pending_queue"`
		TotalActions   int            `json:"total_actions"`
		TotalAppeals   int            `json:"total_appeals"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type UserHistoryResponse struct {
	Status string `json:"status"`
	Data   struct {
		UserID        string      `json:"user_id"`
		Actions       []ActionDTO `json:"actions"`
		Appeals       []AppealDTO `json:"appeals"`
		ActiveActions int         `json:"active_actions"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}

type CreateFilterRequest struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Pattern    string   `json:"pattern"`
	Category   string   `json:"category"`
	Severity   string   `json:"severity,omitempty"`
	Action     string   `json:"action,omitempty"`
	IsActive   *bool    `json:"is_active,omitempty"`
	ApplyTo    []string `json:"apply_to,omitempty"`
	Exceptions []string `json:"exceptions,omitempty"`
}

type UpdateFilterRequest struct {
	Type       *string   `json:"type,omitempty"`
	Pattern    *string   `json:"pattern,omitempty"`
	Category   *string   `json:"category,omitempty"`
	Severity   *string   `json:"severity,omitempty"`
	Action     *string   `json:"action,omitempty"`
	IsActive   *bool     `json:"is_active,omitempty"`
	ApplyTo    *[]string `json:"apply_to,omitempty"`
	Exceptions *[]string `json:"exceptions,omitempty"`
}

type FilterDTO struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Pattern     string   `json:"pattern"`
	Category    string   `json:"category"`
	Severity    string   `json:"severity,omitempty"`
	Action      string   `json:"action,omitempty"`
	IsActive    bool     `json:"is_active"`
	ApplyTo     []string `json:"apply_to"`
	Exceptions  []string `json:"exceptions"`
	MatchCount  int64    `json:"match_count"`
	LastMatched string   `json:"last_matched,omitempty"`
	CreatedBy   string   `json:"created_by"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type FilterResponse struct {
	Status    string    `json:"status"`
	Data      FilterDTO `json:"data"`
	Timestamp string    `json:"timestamp"`
}

type FilterListResponse struct {
	Status string `json:"status"`
	Data   struct {
		Filters []FilterDTO `json:"filters"`
	} `json:"data"`
	Timestamp string `json:"timestamp"`
}
