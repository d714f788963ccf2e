package ports

import (
	"context"
	"strings"
	"time"
)

type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

func ParseTier(raw string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(TierBronze):
		return TierBronze, true
	case string(TierSilver):
		return TierSilver, true
	case string(TierGold):
		return TierGold, true
	case string(TierPlatinum):
		return TierPlatinum, true
	default:
		return "", false
	}
}

// PenaltyKind mirrors the moderation action that produced a ledger entry.
type PenaltyKind string

const (
	PenaltyWarn    PenaltyKind = "warn"
	PenaltyHide    PenaltyKind = "hide"
	PenaltyRemove  PenaltyKind = "remove"
	PenaltyRestore PenaltyKind = "restore"
)

func ParsePenaltyKind(raw string) (PenaltyKind, bool) {
	kind := PenaltyKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case PenaltyWarn, PenaltyHide, PenaltyRemove, PenaltyRestore:
		return kind, true
	default:
		return "", false
	}
}

// PenaltyEntry is one applied ledger change. Points are negative for
// penalties and positive for restores.
type PenaltyEntry struct {
	Kind        PenaltyKind
	ReferenceID string
	Points      int
	AppliedAt   time.Time
}

type UserReputation struct {
	UserID          string
	ReputationScore int
	Tier            Tier
	PreviousScore   int
	PenaltyCount    int
	Penalties       []PenaltyEntry
	UpdatedAt       time.Time
}

type Clock interface {
	Now() time.Time
}

type Repository interface {
	GetUserReputation(ctx context.Context, userID string) (UserReputation, error)
	// UpdateUserReputation runs mutate atomically. Users without a record
	// start from an empty reputation with only UserID set.
	UpdateUserReputation(ctx context.Context, userID string, mutate func(*UserReputation) error) (UserReputation, error)
}
