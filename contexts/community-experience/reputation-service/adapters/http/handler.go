package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"quad/contexts/community-experience/reputation-service/application"
	"quad/contexts/community-experience/reputation-service/ports"
	httptransport "quad/contexts/community-experience/reputation-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GetUserReputationHandler(
	ctx context.Context,
	userID string,
) (httptransport.UserReputationResponse, error) {
	item, err := h.Service.GetUserReputation(ctx, userID)
	if err != nil {
		return httptransport.UserReputationResponse{}, err
	}
	return httptransport.UserReputationResponse{
		Status: "success",
		Data:   toUserReputationDTO(item),
	}, nil
}

func (h Handler) ApplyPenaltyHandler(
	ctx context.Context,
	userID string,
	req httptransport.ApplyPenaltyRequest,
) (httptransport.ApplyPenaltyResponse, error) {
	item, applied, err := h.Service.ApplyModerationPenalty(ctx, application.ApplyPenaltyCommand{
		UserID:      userID,
		Kind:        req.ActionKind,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		return httptransport.ApplyPenaltyResponse{}, err
	}
	resp := httptransport.ApplyPenaltyResponse{Status: "success"}
	resp.Data.Applied = applied
	resp.Data.Reputation = toUserReputationDTO(item)
	return resp, nil
}

func toUserReputationDTO(item ports.UserReputation) httptransport.UserReputationDTO {
	dto := httptransport.UserReputationDTO{
		UserID:          item.UserID,
		ReputationScore: item.ReputationScore,
		Tier:            string(item.Tier),
		PreviousScore:   item.PreviousScore,
		PenaltyCount:    item.PenaltyCount,
		Penalties:       make([]httptransport.PenaltyEntryDTO, 0, len(item.Penalties)),
	}
	for _, entry := range item.Penalties {
		dto.Penalties = append(dto.Penalties, httptransport.PenaltyEntryDTO{
			Kind:        string(entry.Kind),
			ReferenceID: entry.ReferenceID,
			Points:      entry.Points,
			AppliedAt:   entry.AppliedAt.UTC().Format(time.RFC3339),
		})
	}
	if !item.UpdatedAt.IsZero() {
		dto.UpdatedAt = item.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
