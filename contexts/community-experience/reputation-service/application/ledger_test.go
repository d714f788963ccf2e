package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"quad/contexts/community-experience/reputation-service/adapters/memory"
	domainerrors "quad/contexts/community-experience/reputation-service/domain/errors"
	"quad/contexts/community-experience/reputation-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestApplyPenaltyChargesOncePerReference(t *testing.T) {
	rep := ports.UserReputation{UserID: "user-1"}

	assert.True(t, ApplyPenalty(&rep, ports.PenaltyRemove, "act-1", at))
	assert.False(t, ApplyPenalty(&rep, ports.PenaltyRemove, "act-1", at))
	assert.Equal(t, 90, rep.ReputationScore)
	assert.Equal(t, ports.TierPlatinum, rep.Tier)
	assert.Equal(t, 1, rep.PenaltyCount)

	assert.True(t, ApplyPenalty(&rep, ports.PenaltyHide, "act-2", at))
	assert.Equal(t, 85, rep.ReputationScore)
	assert.Equal(t, ports.TierGold, rep.Tier)
	assert.Equal(t, 90, rep.PreviousScore)
}

func TestRestoreRefundsOnlyChargedReferences(t *testing.T) {
	rep := ports.UserReputation{UserID: "user-1"}
	ApplyPenalty(&rep, ports.PenaltyRemove, "act-1", at)
	ApplyPenalty(&rep, ports.PenaltyWarn, "act-2", at)

	assert.False(t, ApplyPenalty(&rep, ports.PenaltyRestore, "act-unknown", at))
	assert.True(t, ApplyPenalty(&rep, ports.PenaltyRestore, "act-1", at))
	assert.False(t, ApplyPenalty(&rep, ports.PenaltyRestore, "act-1", at))
	assert.Equal(t, 98, rep.ReputationScore)
	assert.Equal(t, 1, rep.PenaltyCount)
}

func TestScoreIsClampedAndTiered(t *testing.T) {
	rep := ports.UserReputation{UserID: "user-1"}
	for i := 0; i < 15; i++ {
		ApplyPenalty(&rep, ports.PenaltyRemove, string(rune('a'+i)), at)
	}
	assert.Equal(t, MinScore, rep.ReputationScore)
	assert.Equal(t, ports.TierBronze, rep.Tier)
	assert.Equal(t, ports.TierSilver, TierFor(50))
}

func TestServiceApplyModerationPenalty(t *testing.T) {
	store := memory.NewStore()
	service := Service{Repo: store}

	_, _, err := service.ApplyModerationPenalty(context.Background(), ApplyPenaltyCommand{UserID: "user-1", Kind: "ban_user", ReferenceID: "act-1"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidRequest)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, service.RecordPenalty(context.Background(), "user-1", "remove", "act-1"))
		}()
	}
	wg.Wait()

	rep, err := service.GetUserReputation(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 90, rep.ReputationScore)
	assert.Len(t, rep.Penalties, 1)

	_, err = service.GetUserReputation(context.Background(), "nobody")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
