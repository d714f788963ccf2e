package httpserver

import (
	"errors"
	"net/http"
	"strings"

	reputationerrors "quad/contexts/community-experience/reputation-service/domain/errors"
	reputationhttp "quad/contexts/community-experience/reputation-service/transport/http"
)

func writeReputationError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, reputationhttp.ErrorResponse{Code: code, Message: message})
}

func writeReputationDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reputationerrors.ErrUnknownPenaltyKind):
		writeReputationError(w, http.StatusBadRequest, "unknown_penalty_kind", err.Error())
	case errors.Is(err, reputationerrors.ErrInvalidRequest):
		writeReputationError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, reputationerrors.ErrNotFound):
		writeReputationError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeReputationError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// reputationRequest checks the service-to-service headers and echoes the
// request id so the moderation worker can correlate retries.
func reputationRequest(w http.ResponseWriter, r *http.Request) bool {
	if !bearerPresent(r) {
		writeReputationError(w, http.StatusUnauthorized, "unauthorized", "Authorization bearer token is required")
		return false
	}
	requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
	if requestID == "" {
		writeReputationError(w, http.StatusBadRequest, "missing_request_id", "X-Request-Id header is required")
		return false
	}
	w.Header().Set("X-Request-Id", requestID)
	return true
}

func (s *Server) handleReputationGetUser(w http.ResponseWriter, r *http.Request) {
	if !reputationRequest(w, r) {
		return
	}
	resp, err := s.reputation.Handler.GetUserReputationHandler(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleReputationApplyPenalty answers 201 when a ledger entry was written and
// 200 when the (kind, reference) pair had already been applied.
func (s *Server) handleReputationApplyPenalty(w http.ResponseWriter, r *http.Request) {
	if !reputationRequest(w, r) {
		return
	}
	var req reputationhttp.ApplyPenaltyRequest
	if !s.decodeJSON(w, r, &req, writeReputationError) {
		return
	}
	resp, err := s.reputation.Handler.ApplyPenaltyHandler(r.Context(), r.PathValue("user_id"), req)
	if err != nil {
		writeReputationDomainError(w, err)
		return
	}
	status := http.StatusOK
	if resp.Data.Applied {
		status = http.StatusCreated
	}
	writeJSON(w, status, resp)
}
