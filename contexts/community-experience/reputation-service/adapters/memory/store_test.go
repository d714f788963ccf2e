package memory

import (
	"context"
	"errors"
	"testing"

	domainerrors "quad/contexts/community-experience/reputation-service/domain/errors"
	"quad/contexts/community-experience/reputation-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateCreatesRecordAndIsolatesCopies(t *testing.T) {
	store := NewStore()

	_, err := store.GetUserReputation(context.Background(), "user-1")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	updated, err := store.UpdateUserReputation(context.Background(), " user-1 ", func(rep *ports.UserReputation) error {
		rep.ReputationScore = 90
		rep.Penalties = append(rep.Penalties, ports.PenaltyEntry{Kind: ports.PenaltyRemove, ReferenceID: "act-1", Points: -10})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", updated.UserID)

	updated.Penalties[0].Points = 0
	stored, err := store.GetUserReputation(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, -10, stored.Penalties[0].Points)
}

func TestFailedMutationLeavesRecordUntouched(t *testing.T) {
	store := NewStore()
	boom := errors.New("boom")
	_, err := store.UpdateUserReputation(context.Background(), "user-1", func(rep *ports.UserReputation) error {
		rep.ReputationScore = 1
		return boom
	})
	require.ErrorIs(t, err, boom)
	_, err = store.GetUserReputation(context.Background(), "user-1")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
