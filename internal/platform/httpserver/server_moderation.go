package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	moderationerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	moderationhttp "quad/contexts/moderation-safety/moderation-service/transport/http"
)

func writeModerationError(w http.ResponseWriter, status int, code string, message string, details map[string]any) {
	writeJSON(w, status, moderationhttp.ErrorEnvelope{
		Status: "error",
		Error: moderationhttp.ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeModerationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, moderationerrors.ErrValidation):
		writeModerationError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
	case errors.Is(err, moderationerrors.ErrNotFound):
		writeModerationError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, moderationerrors.ErrForbidden):
		writeModerationError(w, http.StatusForbidden, "PERMISSION_DENIED", err.Error(), nil)
	case errors.Is(err, moderationerrors.ErrIdempotencyConflict):
		writeModerationError(w, http.StatusConflict, "IDEMPOTENCY_CONFLICT", err.Error(), nil)
	case errors.Is(err, moderationerrors.ErrInvalidState):
		writeModerationError(w, http.StatusConflict, "INVALID_STATE", err.Error(), nil)
	case errors.Is(err, moderationerrors.ErrConflict):
		writeModerationError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case errors.Is(err, moderationerrors.ErrUpstreamUnavailable):
		writeModerationError(w, http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", err.Error(), nil)
	default:
		writeModerationError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
	}
}

func moderationDecodeError(w http.ResponseWriter, status int, code string, message string) {
	writeModerationError(w, status, strings.ToUpper(code), message, nil)
}

func requireModerationAuthorization(w http.ResponseWriter, r *http.Request) bool {
	if !bearerPresent(r) {
		writeModerationError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization bearer token is required", nil)
		return false
	}
	return true
}

func requireModerationRequestID(w http.ResponseWriter, r *http.Request) bool {
	if strings.TrimSpace(r.Header.Get("X-Request-Id")) == "" {
		writeModerationError(w, http.StatusBadRequest, "REQUEST_ID_REQUIRED", "X-Request-Id header is required", nil)
		return false
	}
	return true
}

func requireModerationUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeModerationError(w, http.StatusUnauthorized, "USER_REQUIRED", "X-User-Id header is required", nil)
		return "", false
	}
	return userID, true
}

// moderationActor runs the common header checks and returns the caller id.
func moderationActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !requireModerationAuthorization(w, r) || !requireModerationRequestID(w, r) {
		return "", false
	}
	return requireModerationUser(w, r)
}

func (s *Server) handleModerationAnalyze(w http.ResponseWriter, r *http.Request) {
	if !requireModerationAuthorization(w, r) || !requireModerationRequestID(w, r) {
		return
	}
	var req moderationhttp.AnalyzeRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.AnalyzeHandler(r.Context(), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationScreen(w http.ResponseWriter, r *http.Request) {
	if !requireModerationAuthorization(w, r) || !requireModerationRequestID(w, r) {
		return
	}
	var req moderationhttp.SubmissionRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.ScreenHandler(r.Context(), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationSubmit(w http.ResponseWriter, r *http.Request) {
	if !requireModerationAuthorization(w, r) || !requireModerationRequestID(w, r) {
		return
	}
	var req moderationhttp.SubmissionRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.SubmitHandler(r.Context(), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	status := http.StatusOK
	if resp.Data.QueueItem != nil {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleModerationQueue(w http.ResponseWriter, r *http.Request) {
	moderatorID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	query := r.URL.Query()
	resp, err := s.moderation.Handler.ListQueueHandler(
		r.Context(),
		moderatorID,
		query.Get("status"),
		query.Get("category"),
		query.Get("max_priority"),
		query.Get("page"),
		query.Get("limit"),
	)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationQueueItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := moderationActor(w, r); !ok {
		return
	}
	resp, err := s.moderation.Handler.GetQueueItemHandler(r.Context(), r.PathValue("item_id"))
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationClaim(w http.ResponseWriter, r *http.Request) {
	moderatorID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	resp, err := s.moderation.Handler.ClaimHandler(r.Context(), moderatorID, r.PathValue("item_id"))
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationEscalate(w http.ResponseWriter, r *http.Request) {
	moderatorID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	var req moderationhttp.EscalateRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.EscalateHandler(r.Context(), moderatorID, r.PathValue("item_id"), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationReport(w http.ResponseWriter, r *http.Request) {
	reporterID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	var req moderationhttp.ReportRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.ReportHandler(r.Context(), reporterID, r.PathValue("item_id"), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationTakeAction(w http.ResponseWriter, r *http.Request) {
	moderatorID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	var req moderationhttp.TakeActionRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.TakeActionHandler(
		r.Context(),
		r.Header.Get("Idempotency-Key"),
		moderatorID,
		r.PathValue("item_id"),
		req,
	)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationBulkAction(w http.ResponseWriter, r *http.Request) {
	moderatorID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	var req moderationhttp.BulkActionRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.BulkActionHandler(r.Context(), moderatorID, req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationReverse(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	var req moderationhttp.ReverseActionRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.ReverseActionHandler(r.Context(), reviewerID, r.PathValue("action_id"), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationSubmitAppeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	var req moderationhttp.SubmitAppealRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.SubmitAppealHandler(r.Context(), userID, req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleModerationListAppeals(w http.ResponseWriter, r *http.Request) {
	if _, ok := moderationActor(w, r); !ok {
		return
	}
	query := r.URL.Query()
	resp, err := s.moderation.Handler.ListAppealsHandler(
		r.Context(),
		query.Get("status"),
		query.Get("user_id"),
		query.Get("page"),
		query.Get("limit"),
	)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationGetAppeal(w http.ResponseWriter, r *http.Request) {
	if _, ok := moderationActor(w, r); !ok {
		return
	}
	resp, err := s.moderation.Handler.GetAppealHandler(r.Context(), r.PathValue("appeal_id"))
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationStartAppealReview(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	resp, err := s.moderation.Handler.StartAppealReviewHandler(r.Context(), reviewerID, r.PathValue("appeal_id"))
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationResolveAppeal(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	var req moderationhttp.ResolveAppealRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.ResolveAppealHandler(r.Context(), reviewerID, r.PathValue("appeal_id"), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationEscalateAppeal(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	var req moderationhttp.EscalateAppealRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.EscalateAppealHandler(r.Context(), reviewerID, r.PathValue("appeal_id"), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationAppealMessage(w http.ResponseWriter, r *http.Request) {
	authorID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	var req moderationhttp.AppealMessageRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.AddAppealMessageHandler(r.Context(), authorID, r.PathValue("appeal_id"), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleModerationStatistics(w http.ResponseWriter, r *http.Request) {
	if _, ok := moderationActor(w, r); !ok {
		return
	}
	resp, err := s.moderation.Handler.StatisticsHandler(
		r.Context(),
		r.URL.Query().Get("start_date"),
		r.URL.Query().Get("end_date"),
	)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationUserHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := moderationActor(w, r); !ok {
		return
	}
	resp, err := s.moderation.Handler.UserHistoryHandler(r.Context(), r.PathValue("user_id"), r.URL.Query().Get("limit"))
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationCreateFilter(w http.ResponseWriter, r *http.Request) {
	adminID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	var req moderationhttp.CreateFilterRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.CreateFilterHandler(r.Context(), adminID, req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleModerationUpdateFilter(w http.ResponseWriter, r *http.Request) {
	adminID, ok := moderationActor(w, r)
	if !ok {
		return
	}
	var req moderationhttp.UpdateFilterRequest
	if !s.decodeJSON(w, r, &req, moderationDecodeError) {
		return
	}
	resp, err := s.moderation.Handler.UpdateFilterHandler(r.Context(), adminID, r.PathValue("name"), req)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleModerationListFilters(w http.ResponseWriter, r *http.Request) {
	if _, ok := moderationActor(w, r); !ok {
		return
	}
	resp, err := s.moderation.Handler.ListFiltersHandler(
		r.Context(),
		r.URL.Query().Get("category"),
		r.URL.Query().Get("is_active"),
	)
	if err != nil {
		writeModerationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
