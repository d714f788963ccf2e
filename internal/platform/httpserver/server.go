package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	reputationservice "quad/contexts/community-experience/reputation-service"
	moderationservice "quad/contexts/moderation-safety/moderation-service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "quad/internal/platform/httpserver/docs"
)

const maxRequestBodyBytes = 1 << 20

type Server struct {
	mux        *http.ServeMux
	httpServer *http.Server
	logger     *slog.Logger
	addr       string
	moderation moderationservice.Module
	reputation reputationservice.Module
}

func New(
	moderation moderationservice.Module,
	reputation reputationservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		moderation: moderation,
		reputation: reputation,
	}
	s.registerRoutes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server stopping",
		"event", "http_server_stopping",
		"module", "internal/platform/httpserver",
		"layer", "platform",
	)
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.mux.HandleFunc("POST /api/moderation/v1/analyze", s.handleModerationAnalyze)
	s.mux.HandleFunc("POST /api/moderation/v1/screen", s.handleModerationScreen)
	s.mux.HandleFunc("POST /api/moderation/v1/submissions", s.handleModerationSubmit)

	s.mux.HandleFunc("GET /api/moderation/v1/queue", s.handleModerationQueue)
	s.mux.HandleFunc("GET /api/moderation/v1/queue/{item_id}", s.handleModerationQueueItem)
	s.mux.HandleFunc("POST /api/moderation/v1/queue/{item_id}/claim", s.handleModerationClaim)
	s.mux.HandleFunc("POST /api/moderation/v1/queue/{item_id}/escalate", s.handleModerationEscalate)
	s.mux.HandleFunc("POST /api/moderation/v1/queue/{item_id}/reports", s.handleModerationReport)
	s.mux.HandleFunc("POST /api/moderation/v1/queue/{item_id}/action", s.handleModerationTakeAction)
	s.mux.HandleFunc("POST /api/moderation/v1/queue/bulk-action", s.handleModerationBulkAction)
	s.mux.HandleFunc("POST /api/moderation/v1/actions/{action_id}/reverse", s.handleModerationReverse)

	s.mux.HandleFunc("POST /api/moderation/v1/appeals", s.handleModerationSubmitAppeal)
	s.mux.HandleFunc("GET /api/moderation/v1/appeals", s.handleModerationListAppeals)
	s.mux.HandleFunc("GET /api/moderation/v1/appeals/{appeal_id}", s.handleModerationGetAppeal)
	s.mux.HandleFunc("POST /api/moderation/v1/appeals/{appeal_id}/review", s.handleModerationStartAppealReview)
	s.mux.HandleFunc("POST /api/moderation/v1/appeals/{appeal_id}/resolve", s.handleModerationResolveAppeal)
	s.mux.HandleFunc("POST /api/moderation/v1/appeals/{appeal_id}/escalate", s.handleModerationEscalateAppeal)
	s.mux.HandleFunc("POST /api/moderation/v1/appeals/{appeal_id}/messages", s.handleModerationAppealMessage)

	s.mux.HandleFunc("GET /api/moderation/v1/statistics", s.handleModerationStatistics)
	s.mux.HandleFunc("GET /api/moderation/v1/users/{user_id}/history", s.handleModerationUserHistory)

	s.mux.HandleFunc("POST /api/moderation/v1/filters", s.handleModerationCreateFilter)
	s.mux.HandleFunc("GET /api/moderation/v1/filters", s.handleModerationListFilters)
	s.mux.HandleFunc("PATCH /api/moderation/v1/filters/{name}", s.handleModerationUpdateFilter)

	s.mux.HandleFunc("GET /api/reputation/v1/users/{user_id}", s.handleReputationGetUser)
	s.mux.HandleFunc("POST /api/reputation/v1/users/{user_id}/penalties", s.handleReputationApplyPenalty)
}

type errorWriter func(w http.ResponseWriter, status int, code string, message string)

// decodeJSON reads one JSON object into target. Unknown fields and trailing
// data are rejected.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, target any, writeError errorWriter) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body is too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, "invalid_json", "request body is required")
		default:
			writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		}
		return false
	}
	if decoder.More() {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must contain a single JSON object")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func bearerPresent(r *http.Request) bool {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	return len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && strings.TrimSpace(parts[1]) != ""
}
