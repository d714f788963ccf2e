package reputationadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientPostsPenalty(t *testing.T) {
	var got penaltyRequest
	var path, auth, requestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get("X-Request-Id")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL+"/", nil, WithServiceToken("svc-token"))
	require.NoError(t, client.PenalizeUser(context.Background(), "user-1", entities.ActionRemove, "act-1"))
	assert.Equal(t, "/api/reputation/v1/users/user-1/penalties", path)
	assert.Equal(t, "Bearer svc-token", auth)
	assert.Equal(t, "act-1", requestID)
	assert.Equal(t, penaltyRequest{ActionKind: "remove", ReferenceID: "act-1"}, got)
}

func TestHTTPClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, nil, WithRetryWait(time.Millisecond, 5*time.Millisecond))
	require.NoError(t, client.PenalizeUser(context.Background(), "user-1", entities.ActionWarn, "act-1"))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPClientMapsFailures(t *testing.T) {
	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer rejecting.Close()
	err := NewHTTPClient(rejecting.URL, nil).PenalizeUser(context.Background(), "user-1", entities.ActionWarn, "act-1")
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()
	client := NewHTTPClient(failing.URL, nil, WithMaxRetries(0))
	for i := 0; i < 6; i++ {
		err = client.PenalizeUser(context.Background(), "user-1", entities.ActionWarn, "act-1")
		require.ErrorIs(t, err, domainerrors.ErrUpstreamUnavailable)
	}
	assert.Contains(t, err.Error(), "circuit breaker is open")
}

type ledgerSpy struct {
	calls []string
}

func (l *ledgerSpy) RecordPenalty(_ context.Context, userID string, kind string, referenceID string) error {
	l.calls = append(l.calls, userID+":"+kind+":"+referenceID)
	return nil
}

func TestInProcessForwardsToLedger(t *testing.T) {
	ledger := &ledgerSpy{}
	require.NoError(t, InProcess{Ledger: ledger}.PenalizeUser(context.Background(), "user-1", entities.ActionHide, "act-9"))
	assert.Equal(t, []string{"user-1:hide:act-9"}, ledger.calls)
}
