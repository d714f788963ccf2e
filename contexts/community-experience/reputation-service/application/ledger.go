package application

import (
	"time"

	"quad/contexts/community-experience/reputation-service/ports"
)

const (
	StartingScore = 100
	MinScore      = 0
	MaxScore      = 100
)

var penaltyPoints = map[ports.PenaltyKind]int{
	ports.PenaltyWarn:   -2,
	ports.PenaltyHide:   -5,
	ports.PenaltyRemove: -10,
}

// ApplyPenalty mutates rep with one ledger entry and reports whether anything
// changed. A restore refunds the points previously charged for the same
// reference and is a no-op when there is nothing left to refund.
func ApplyPenalty(rep *ports.UserReputation, kind ports.PenaltyKind, referenceID string, now time.Time) bool {
	if len(rep.Penalties) == 0 && rep.UpdatedAt.IsZero() {
		rep.ReputationScore = StartingScore
		rep.Tier = TierFor(StartingScore)
	}
	for _, entry := range rep.Penalties {
		if entry.Kind == kind && entry.ReferenceID == referenceID {
			return false
		}
	}

	points := 0
	switch kind {
	case ports.PenaltyWarn, ports.PenaltyHide, ports.PenaltyRemove:
		points = penaltyPoints[kind]
		rep.PenaltyCount++
	case ports.PenaltyRestore:
		for _, entry := range rep.Penalties {
			if entry.ReferenceID == referenceID && entry.Points < 0 {
				points -= entry.Points
			}
		}
		if points == 0 {
			return false
		}
		if rep.PenaltyCount > 0 {
			rep.PenaltyCount--
		}
	default:
		return false
	}

	rep.PreviousScore = rep.ReputationScore
	rep.ReputationScore = clampScore(rep.ReputationScore + points)
	rep.Tier = TierFor(rep.ReputationScore)
	rep.Penalties = append(rep.Penalties, ports.PenaltyEntry{
		Kind:        kind,
		ReferenceID: referenceID,
		Points:      points,
		AppliedAt:   now.UTC(),
	})
	rep.UpdatedAt = now.UTC()
	return true
}

func TierFor(score int) ports.Tier {
	switch {
	case score >= 90:
		return ports.TierPlatinum
	case score >= 75:
		return ports.TierGold
	case score >= 50:
		return ports.TierSilver
	default:
		return ports.TierBronze
	}
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
