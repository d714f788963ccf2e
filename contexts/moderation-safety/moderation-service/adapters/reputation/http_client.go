package reputationadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sony/gobreaker"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

// HTTPClient posts penalties to the reputation service. Transport failures
// and 5xx responses are retried, and a breaker stops calls while the peer is
// failing so the dispatcher reschedules quickly.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

type HTTPClientOption func(*httpClientConfig)

type httpClientConfig struct {
	retry *retryablehttp.Client
	token string
}

func WithMaxRetries(maxRetries int) HTTPClientOption {
	return func(cfg *httpClientConfig) {
		cfg.retry.RetryMax = maxRetries
	}
}

func WithRetryWait(waitMin time.Duration, waitMax time.Duration) HTTPClientOption {
	return func(cfg *httpClientConfig) {
		cfg.retry.RetryWaitMin = waitMin
		cfg.retry.RetryWaitMax = waitMax
	}
}

// WithServiceToken sets the bearer token sent to the reputation API.
func WithServiceToken(token string) HTTPClientOption {
	return func(cfg *httpClientConfig) {
		cfg.token = strings.TrimSpace(token)
	}
}

func NewHTTPClient(baseURL string, logger *slog.Logger, options ...HTTPClientOption) *HTTPClient {
	if logger == nil {
		logger = slog.Default()
	}
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = retryablehttp.LeveledLogger(leveledSlog{inner: logger})
	cfg := &httpClientConfig{retry: retryClient, token: "internal"}
	for _, option := range options {
		option(cfg)
	}
	client := retryClient.StandardClient()
	client.Timeout = 10 * time.Second

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "reputation-penalties",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			var permanent permanentError
			return err == nil || errors.As(err, &permanent)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("reputation circuit breaker state changed",
				"event", "moderation_reputation_breaker_state_changed",
				"module", "moderation-safety/moderation-service",
				"layer", "adapter",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &HTTPClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   cfg.token,
		client:  client,
		breaker: breaker,
		logger:  logger,
	}
}

type penaltyRequest struct {
	ActionKind  string `json:"action_kind"`
	ReferenceID string `json:"reference_id"`
}

func (c *HTTPClient) PenalizeUser(ctx context.Context, userID string, actionKind entities.Action, referenceID string) error {
	body, err := json.Marshal(penaltyRequest{
		ActionKind:  string(actionKind),
		ReferenceID: referenceID,
	})
	if err != nil {
		return err
	}
	endpoint := c.baseURL + "/api/reputation/v1/users/" + url.PathEscape(strings.TrimSpace(userID)) + "/penalties"

	_, err = c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("X-Request-Id", referenceID)
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("reputation service returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return nil, permanentError{status: resp.StatusCode}
		}
		return nil, nil
	})
	if err == nil {
		return nil
	}

	var permanent permanentError
	if errors.As(err, &permanent) {
		return fmt.Errorf("%w: reputation service rejected penalty with %d", domainerrors.ErrValidation, permanent.status)
	}
	c.logger.Warn("reputation penalty call failed",
		"event", "moderation_reputation_call_failed",
		"module", "moderation-safety/moderation-service",
		"layer", "adapter",
		"user_id", userID,
		"action_kind", string(actionKind),
		"error", err.Error(),
	)
	return fmt.Errorf("%w: %v", domainerrors.ErrUpstreamUnavailable, err)
}

type permanentError struct {
	status int
}

func (e permanentError) Error() string {
	return fmt.Sprintf("reputation service status %d", e.status)
}

// leveledSlog downgrades retry errors to warnings; the final outcome is
// logged by the caller.
type leveledSlog struct {
	inner *slog.Logger
}

func (l leveledSlog) Error(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...any) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}

func (l leveledSlog) Debug(msg string, keysAndValues ...any) {
	l.inner.Debug(msg, keysAndValues...)
}

var _ ports.ReputationClient = (*HTTPClient)(nil)
