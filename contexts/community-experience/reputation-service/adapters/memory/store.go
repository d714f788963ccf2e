package memory

import (
	"context"
	"strings"
	"sync"

	domainerrors "quad/contexts/community-experience/reputation-service/domain/errors"
	"quad/contexts/community-experience/reputation-service/ports"
)

type Store struct {
	mu sync.RWMutex

	scores map[string]ports.UserReputation
}

func NewStore() *Store {
	return &Store{
		scores: make(map[string]ports.UserReputation),
	}
}

func (s *Store) GetUserReputation(_ context.Context, userID string) (ports.UserReputation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.scores[strings.TrimSpace(userID)]
	if !ok {
		return ports.UserReputation{}, domainerrors.ErrUserNotFound
	}
	return cloneUserReputation(record), nil
}

func (s *Store) UpdateUserReputation(
	_ context.Context,
	userID string,
	mutate func(*ports.UserReputation) error,
) (ports.UserReputation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID = strings.TrimSpace(userID)
	current, ok := s.scores[userID]
	if !ok {
		current = ports.UserReputation{UserID: userID}
	}
	next := cloneUserReputation(current)
	if err := mutate(&next); err != nil {
		return ports.UserReputation{}, err
	}
	next.UserID = userID
	s.scores[userID] = next
	return cloneUserReputation(next), nil
}

func cloneUserReputation(in ports.UserReputation) ports.UserReputation {
	out := in
	out.Penalties = append([]ports.PenaltyEntry(nil), in.Penalties...)
	return out
}

var _ ports.Repository = (*Store)(nil)
