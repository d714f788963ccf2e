package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"quad/contexts/moderation-safety/moderation-service/application/analysis"
	"quad/contexts/moderation-safety/moderation-service/application/commands"
	"quad/contexts/moderation-safety/moderation-service/application/queries"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
	httptransport "quad/contexts/moderation-safety/moderation-service/transport/http"
)

type Handler struct {
	Analyze      queries.AnalyzeContentUseCase
	Screen       commands.ScreenSubmissionUseCase
	Submit       commands.SubmitForModerationUseCase
	Queue        queries.QueueQueryUseCase
	Claim        commands.ClaimItemUseCase
	Escalate     commands.EscalateItemUseCase
	Report       commands.ReportContentUseCase
	TakeAction   commands.TakeActionUseCase
	BulkAction   commands.BulkActionUseCase
	Reverse      commands.ReverseActionUseCase
	SubmitAppeal commands.SubmitAppealUseCase
	ReviewAppeal commands.AppealReviewUseCase
	Appeals      queries.AppealQueryUseCase
	Statistics   queries.StatisticsUseCase
	UserHistory  queries.UserHistoryUseCase
	CreateFilter commands.CreateFilterUseCase
	UpdateFilter commands.UpdateFilterUseCase
	Filters      queries.FilterQueryUseCase
	Logger       *slog.Logger
}

func (h Handler) AnalyzeHandler(ctx context.Context, req httptransport.AnalyzeRequest) (httptransport.AnalyzeResponse, error) {
	input := analysis.AnalyzeInput{
		Text:      req.Text,
		ImageURLs: trimAll(req.ImageURLs),
		VideoURLs: trimAll(req.VideoURLs),
	}
	if raw := strings.TrimSpace(req.ContentType); raw != "" {
		kind, ok := entities.ParseContentKind(raw)
		if !ok {
			return httptransport.AnalyzeResponse{}, validationError("unknown content_type %q", raw)
		}
		input.Kind = kind
	}
	result := h.Analyze.Execute(ctx, input)
	resp := httptransport.AnalyzeResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.Analysis = mapAnalysis(result.Analysis)
	resp.Data.Recommendation = mapRecommendation(result.Recommendation)
	return resp, nil
}

func (h Handler) ScreenHandler(ctx context.Context, req httptransport.SubmissionRequest) (httptransport.ScreenResponse, error) {
	content, err := entities.ParseContentRef(req.ContentType, req.ContentID)
	if err != nil {
		return httptransport.ScreenResponse{}, validationError("content_type and content_id are required")
	}
	result, err := h.Screen.Execute(ctx, commands.ScreenSubmissionCommand{
		Content:  content,
		UserID:   strings.TrimSpace(req.UserID),
		Snapshot: mapSnapshotRequest(req.Snapshot),
	})
	if err != nil {
		return httptransport.ScreenResponse{}, err
	}
	resp := httptransport.ScreenResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.Verdict = string(result.Verdict)
	resp.Data.Analysis = mapAnalysis(result.Analysis)
	resp.Data.Recommendation = mapRecommendation(result.Recommendation)
	return resp, nil
}

func (h Handler) SubmitHandler(ctx context.Context, req httptransport.SubmissionRequest) (httptransport.SubmissionResponse, error) {
	content, err := entities.ParseContentRef(req.ContentType, req.ContentID)
	if err != nil {
		return httptransport.SubmissionResponse{}, validationError("content_type and content_id are required")
	}
	result, err := h.Submit.Execute(ctx, commands.SubmitForModerationCommand{
		Content:  content,
		UserID:   strings.TrimSpace(req.UserID),
		Snapshot: mapSnapshotRequest(req.Snapshot),
	})
	if err != nil {
		return httptransport.SubmissionResponse{}, err
	}
	resp := httptransport.SubmissionResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.Outcome = result.Status
	resp.Data.Recommendation = mapRecommendation(result.Recommendation)
	if result.Status == commands.SubmissionQueued {
		item := mapQueueItem(result.QueueItem)
		resp.Data.QueueItem = &item
	}
	return resp, nil
}

func (h Handler) ListQueueHandler(ctx context.Context, moderatorID string, statusRaw string, categoryRaw string, maxPriorityRaw string, pageRaw string, limitRaw string) (httptransport.QueueResponse, error) {
	query := queries.GetQueueQuery{
		Status:      entities.QueueStatus(strings.ToLower(strings.TrimSpace(statusRaw))),
		ModeratorID: strings.TrimSpace(moderatorID),
	}
	if raw := strings.TrimSpace(categoryRaw); raw != "" {
		category, ok := entities.ParseCategory(raw)
		if !ok {
			return httptransport.QueueResponse{}, validationError("unknown category %q", raw)
		}
		query.Category = category
	}
	if parsed, err := strconv.Atoi(strings.TrimSpace(maxPriorityRaw)); err == nil {
		query.MaxPriority = parsed
	}
	if parsed, err := strconv.Atoi(strings.TrimSpace(pageRaw)); err == nil {
		query.Page = parsed
	}
	if parsed, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil {
		query.Limit = parsed
	}
	page, err := h.Queue.List(ctx, query)
	if err != nil {
		return httptransport.QueueResponse{}, err
	}
	resp := httptransport.QueueResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.Items = make([]httptransport.QueueItemDTO, 0, len(page.Items))
	for _, item := range page.Items {
		resp.Data.Items = append(resp.Data.Items, mapQueueItem(item))
	}
	resp.Data.Total = page.Total
	resp.Data.Page = page.Page
	resp.Data.TotalPages = page.TotalPages
	return resp, nil
}

func (h Handler) GetQueueItemHandler(ctx context.Context, itemID string) (httptransport.QueueItemResponse, error) {
	item, err := h.Queue.Get(ctx, strings.TrimSpace(itemID))
	if err != nil {
		return httptransport.QueueItemResponse{}, err
	}
	return queueItemResponse(item), nil
}

func (h Handler) ClaimHandler(ctx context.Context, moderatorID string, itemID string) (httptransport.QueueItemResponse, error) {
	item, err := h.Claim.Execute(ctx, commands.ClaimItemCommand{
		ItemID:      strings.TrimSpace(itemID),
		ModeratorID: strings.TrimSpace(moderatorID),
	})
	if err != nil {
		return httptransport.QueueItemResponse{}, err
	}
	return queueItemResponse(item), nil
}

func (h Handler) EscalateHandler(ctx context.Context, moderatorID string, itemID string, req httptransport.EscalateRequest) (httptransport.QueueItemResponse, error) {
	item, err := h.Escalate.Execute(ctx, commands.EscalateItemCommand{
		ItemID:      strings.TrimSpace(itemID),
		ModeratorID: strings.TrimSpace(moderatorID),
		EscalateTo:  strings.TrimSpace(req.EscalateTo),
		Reason:      strings.TrimSpace(req.Reason),
	})
	if err != nil {
		return httptransport.QueueItemResponse{}, err
	}
	return queueItemResponse(item), nil
}

func (h Handler) ReportHandler(ctx context.Context, reporterID string, itemID string, req httptransport.ReportRequest) (httptransport.QueueItemResponse, error) {
	item, err := h.Report.Execute(ctx, commands.ReportContentCommand{
		ItemID:     strings.TrimSpace(itemID),
		ReporterID: strings.TrimSpace(reporterID),
		Reason:     strings.TrimSpace(req.Reason),
		Details:    strings.TrimSpace(req.Details),
	})
	if err != nil {
		return httptransport.QueueItemResponse{}, err
	}
	return queueItemResponse(item), nil
}

func (h Handler) TakeActionHandler(ctx context.Context, idempotencyKey string, moderatorID string, itemID string, req httptransport.TakeActionRequest) (httptransport.TakeActionResponse, error) {
	if req.DurationSeconds < 0 {
		return httptransport.TakeActionResponse{}, validationError("duration_seconds must not be negative")
	}
	result, err := h.TakeAction.Execute(ctx, commands.TakeActionCommand{
		IdempotencyKey: strings.TrimSpace(idempotencyKey),
		ItemID:         strings.TrimSpace(itemID),
		ModeratorID:    strings.TrimSpace(moderatorID),
		Action:         entities.Action(strings.ToLower(strings.TrimSpace(req.Action))),
		Reason:         strings.TrimSpace(req.Reason),
		Notes:          strings.TrimSpace(req.Notes),
		Duration:       time.Duration(req.DurationSeconds) * time.Second,
	})
	if err != nil {
		return httptransport.TakeActionResponse{}, err
	}
	resp := httptransport.TakeActionResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.QueueItem = mapQueueItem(result.QueueItem)
	resp.Data.Action = mapAction(result.Action)
	resp.Data.Replayed = result.Replayed
	return resp, nil
}

func (h Handler) BulkActionHandler(ctx context.Context, moderatorID string, req httptransport.BulkActionRequest) (httptransport.BulkActionResponse, error) {
	result, err := h.BulkAction.Execute(ctx, commands.BulkActionCommand{
		ItemIDs:     trimAll(req.ItemIDs),
		ModeratorID: strings.TrimSpace(moderatorID),
		Action:      entities.Action(strings.ToLower(strings.TrimSpace(req.Action))),
		Reason:      strings.TrimSpace(req.Reason),
	})
	if err != nil {
		return httptransport.BulkActionResponse{}, err
	}
	resp := httptransport.BulkActionResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.Results = make([]httptransport.BulkItemResultDTO, 0, len(result.Results))
	for _, item := range result.Results {
		resp.Data.Results = append(resp.Data.Results, httptransport.BulkItemResultDTO{
			ItemID:   item.ItemID,
			Success:  item.Success,
			ActionID: item.ActionID,
			Error:    item.Error,
		})
	}
	resp.Data.Succeeded = result.Succeeded
	resp.Data.Failed = result.Failed
	return resp, nil
}

func (h Handler) ReverseActionHandler(ctx context.Context, reviewerID string, actionID string, req httptransport.ReverseActionRequest) (httptransport.ActionResponse, error) {
	record, err := h.Reverse.Execute(ctx, commands.ReverseActionCommand{
		ActionID:   strings.TrimSpace(actionID),
		ReviewerID: strings.TrimSpace(reviewerID),
		Reason:     strings.TrimSpace(req.Reason),
	})
	if err != nil {
		return httptransport.ActionResponse{}, err
	}
	return httptransport.ActionResponse{Status: "success", Data: mapAction(record), Timestamp: timestamp()}, nil
}

func (h Handler) SubmitAppealHandler(ctx context.Context, userID string, req httptransport.SubmitAppealRequest) (httptransport.AppealResponse, error) {
	appeal, err := h.SubmitAppeal.Execute(ctx, commands.SubmitAppealCommand{
		ActionID: strings.TrimSpace(req.ActionID),
		UserID:   strings.TrimSpace(userID),
		Reason:   strings.TrimSpace(req.Reason),
		Evidence: trimAll(req.Evidence),
	})
	if err != nil {
		return httptransport.AppealResponse{}, err
	}
	return appealResponse(appeal), nil
}

func (h Handler) ListAppealsHandler(ctx context.Context, statusRaw string, userID string, pageRaw string, limitRaw string) (httptransport.AppealListResponse, error) {
	query := queries.ListAppealsQuery{UserID: strings.TrimSpace(userID)}
	if raw := strings.TrimSpace(statusRaw); raw != "" {
		status, ok := entities.ParseAppealStatus(raw)
		if !ok {
			return httptransport.AppealListResponse{}, validationError("unknown appeal status %q", raw)
		}
		query.Status = status
	}
	if parsed, err := strconv.Atoi(strings.TrimSpace(pageRaw)); err == nil {
		query.Page = parsed
	}
	if parsed, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil {
		query.Limit = parsed
	}
	page, err := h.Appeals.List(ctx, query)
	if err != nil {
		return httptransport.AppealListResponse{}, err
	}
	resp := httptransport.AppealListResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.Appeals = make([]httptransport.AppealDTO, 0, len(page.Appeals))
	for _, appeal := range page.Appeals {
		resp.Data.Appeals = append(resp.Data.Appeals, mapAppeal(appeal))
	}
	resp.Data.Total = page.Total
	resp.Data.Page = page.Page
	resp.Data.TotalPages = page.TotalPages
	return resp, nil
}

func (h Handler) GetAppealHandler(ctx context.Context, appealID string) (httptransport.AppealResponse, error) {
	appeal, err := h.Appeals.Get(ctx, strings.TrimSpace(appealID))
	if err != nil {
		return httptransport.AppealResponse{}, err
	}
	return appealResponse(appeal), nil
}

func (h Handler) StartAppealReviewHandler(ctx context.Context, reviewerID string, appealID string) (httptransport.AppealResponse, error) {
	appeal, err := h.ReviewAppeal.StartReview(ctx, commands.StartReviewCommand{
		AppealID:   strings.TrimSpace(appealID),
		ReviewerID: strings.TrimSpace(reviewerID),
	})
	if err != nil {
		return httptransport.AppealResponse{}, err
	}
	return appealResponse(appeal), nil
}

func (h Handler) ResolveAppealHandler(ctx context.Context, reviewerID string, appealID string, req httptransport.ResolveAppealRequest) (httptransport.AppealResponse, error) {
	outcome, ok := entities.ParseAppealOutcome(req.Outcome)
	if !ok {
		return httptransport.AppealResponse{}, validationError("unknown outcome %q", req.Outcome)
	}
	appeal, err := h.ReviewAppeal.Resolve(ctx, commands.ResolveAppealCommand{
		AppealID:   strings.TrimSpace(appealID),
		ReviewerID: strings.TrimSpace(reviewerID),
		Outcome:    outcome,
		Reason:     strings.TrimSpace(req.Reason),
		NewAction:  entities.Action(strings.ToLower(strings.TrimSpace(req.NewAction))),
	})
	if err != nil {
		return httptransport.AppealResponse{}, err
	}
	return appealResponse(appeal), nil
}

func (h Handler) EscalateAppealHandler(ctx context.Context, reviewerID string, appealID string, req httptransport.EscalateAppealRequest) (httptransport.AppealResponse, error) {
	appeal, err := h.ReviewAppeal.Escalate(ctx, commands.EscalateAppealCommand{
		AppealID:   strings.TrimSpace(appealID),
		ReviewerID: strings.TrimSpace(reviewerID),
		EscalateTo: strings.TrimSpace(req.EscalateTo),
		Reason:     strings.TrimSpace(req.Reason),
	})
	if err != nil {
		return httptransport.AppealResponse{}, err
	}
	return appealResponse(appeal), nil
}

func (h Handler) AddAppealMessageHandler(ctx context.Context, authorID string, appealID string, req httptransport.AppealMessageRequest) (httptransport.AppealMessageResponse, error) {
	appeal, message, err := h.ReviewAppeal.AddMessage(ctx, commands.AddAppealMessageCommand{
		AppealID: strings.TrimSpace(appealID),
		AuthorID: strings.TrimSpace(authorID),
		Body:     strings.TrimSpace(req.Body),
	})
	if err != nil {
		return httptransport.AppealMessageResponse{}, err
	}
	resp := httptransport.AppealMessageResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.AppealID = appeal.AppealID
	resp.Data.Message = mapAppealMessage(message)
	return resp, nil
}

func (h Handler) StatisticsHandler(ctx context.Context, fromRaw string, toRaw string) (httptransport.StatisticsResponse, error) {
	window := ports.TimeRange{}
	var err error
	if window.From, err = parseOptionalTime("start_date", fromRaw); err != nil {
		return httptransport.StatisticsResponse{}, err
	}
	if window.To, err = parseOptionalTime("end_date", toRaw); err != nil {
		return httptransport.StatisticsResponse{}, err
	}
	stats, err := h.Statistics.Execute(ctx, window)
	if err != nil {
		return httptransport.StatisticsResponse{}, err
	}
	resp := httptransport.StatisticsResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.From = formatOptionalTime(stats.From)
	resp.Data.To = formatOptionalTime(stats.To)
	resp.Data.QueueByStatus = stringKeys(stats.QueueByStatus)
	resp.Data.ActionsByKind = stringKeys(stats.ActionsByKind)
	resp.Data.AppealByStatus = stringKeys(stats.AppealByStatus)
	resp.Data.PendingQueue = stats.PendingQueue
	resp.Data.TotalActions = stats.TotalActions
	resp.Data.TotalAppeals = stats.TotalAppeals
	return resp, nil
}

func (h Handler) UserHistoryHandler(ctx context.Context, userID string, limitRaw string) (httptransport.UserHistoryResponse, error) {
	limit := 0
	if parsed, err := strconv.Atoi(strings.TrimSpace(limitRaw)); err == nil {
		limit = parsed
	}
	history, err := h.UserHistory.Execute(ctx, strings.TrimSpace(userID), limit)
	if err != nil {
		return httptransport.UserHistoryResponse{}, err
	}
	resp := httptransport.UserHistoryResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.UserID = history.UserID
	resp.Data.Actions = make([]httptransport.ActionDTO, 0, len(history.Actions))
	for _, record := range history.Actions {
		resp.Data.Actions = append(resp.Data.Actions, mapAction(record))
	}
	resp.Data.Appeals = make([]httptransport.AppealDTO, 0, len(history.Appeals))
	for _, appeal := range history.Appeals {
		resp.Data.Appeals = append(resp.Data.Appeals, mapAppeal(appeal))
	}
	resp.Data.ActiveActions = history.ActiveActions
	return resp, nil
}

func (h Handler) CreateFilterHandler(ctx context.Context, adminID string, req httptransport.CreateFilterRequest) (httptransport.FilterResponse, error) {
	applyTo, err := parseContentKinds(req.ApplyTo)
	if err != nil {
		return httptransport.FilterResponse{}, err
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	filter, err := h.CreateFilter.Execute(ctx, commands.CreateFilterCommand{
		Name:       strings.TrimSpace(req.Name),
		Type:       entities.FilterType(strings.ToLower(strings.TrimSpace(req.Type))),
		Pattern:    req.Pattern,
		Category:   entities.Category(strings.ToLower(strings.TrimSpace(req.Category))),
		Severity:   entities.Severity(strings.ToLower(strings.TrimSpace(req.Severity))),
		Action:     entities.Action(strings.ToLower(strings.TrimSpace(req.Action))),
		IsActive:   isActive,
		ApplyTo:    applyTo,
		Exceptions: trimAll(req.Exceptions),
		CreatedBy:  strings.TrimSpace(adminID),
	})
	if err != nil {
		return httptransport.FilterResponse{}, err
	}
	return httptransport.FilterResponse{Status: "success", Data: mapFilter(filter), Timestamp: timestamp()}, nil
}

func (h Handler) UpdateFilterHandler(ctx context.Context, adminID string, name string, req httptransport.UpdateFilterRequest) (httptransport.FilterResponse, error) {
	patch := entities.FilterPatch{Pattern: req.Pattern, IsActive: req.IsActive}
	if req.Type != nil {
		value := entities.FilterType(strings.ToLower(strings.TrimSpace(*req.Type)))
		patch.Type = &value
	}
	if req.Category != nil {
		value := entities.Category(strings.ToLower(strings.TrimSpace(*req.Category)))
		patch.Category = &value
	}
	if req.Severity != nil {
		value := entities.Severity(strings.ToLower(strings.TrimSpace(*req.Severity)))
		patch.Severity = &value
	}
	if req.Action != nil {
		value := entities.Action(strings.ToLower(strings.TrimSpace(*req.Action)))
		patch.Action = &value
	}
	if req.ApplyTo != nil {
		kinds, err := parseContentKinds(*req.ApplyTo)
		if err != nil {
			return httptransport.FilterResponse{}, err
		}
		patch.ApplyTo = &kinds
	}
	if req.Exceptions != nil {
		exceptions := trimAll(*req.Exceptions)
		patch.Exceptions = &exceptions
	}
	filter, err := h.UpdateFilter.Execute(ctx, commands.UpdateFilterCommand{
		Name:      strings.TrimSpace(name),
		Patch:     patch,
		UpdatedBy: strings.TrimSpace(adminID),
	})
	if err != nil {
		return httptransport.FilterResponse{}, err
	}
	return httptransport.FilterResponse{Status: "success", Data: mapFilter(filter), Timestamp: timestamp()}, nil
}

func (h Handler) ListFiltersHandler(ctx context.Context, categoryRaw string, isActiveRaw string) (httptransport.FilterListResponse, error) {
	query := entities.FilterQuery{}
	if raw := strings.TrimSpace(categoryRaw); raw != "" {
		category, ok := entities.ParseCategory(raw)
		if !ok {
			return httptransport.FilterListResponse{}, validationError("unknown category %q", raw)
		}
		query.Category = &category
	}
	if raw := strings.TrimSpace(isActiveRaw); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return httptransport.FilterListResponse{}, validationError("is_active must be a boolean")
		}
		query.IsActive = &active
	}
	filters, err := h.Filters.List(ctx, query)
	if err != nil {
		return httptransport.FilterListResponse{}, err
	}
	resp := httptransport.FilterListResponse{Status: "success", Timestamp: timestamp()}
	resp.Data.Filters = make([]httptransport.FilterDTO, 0, len(filters))
	for _, filter := range filters {
		resp.Data.Filters = append(resp.Data.Filters, mapFilter(filter))
	}
	return resp, nil
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domainerrors.ErrValidation, fmt.Sprintf(format, args...))
}

func parseOptionalTime(field string, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}
	return nil, validationError("%s must be RFC3339 or YYYY-MM-DD", field)
}

func parseContentKinds(raw []string) ([]entities.ContentKind, error) {
	kinds := make([]entities.ContentKind, 0, len(raw))
	for _, item := range raw {
		kind, ok := entities.ParseContentKind(item)
		if !ok {
			return nil, validationError("unknown content type %q", item)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
