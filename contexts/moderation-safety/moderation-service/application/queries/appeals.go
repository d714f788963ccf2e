package queries

import (
	"context"
	"strings"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

type ListAppealsQuery struct {
	Status entities.AppealStatus
	UserID string
	Page   int
	Limit  int
}

type AppealPage struct {
	Appeals    []entities.Appeal
	Total      int
	Page       int
	TotalPages int
}

type AppealQueryUseCase struct {
	Appeals ports.AppealRepository
}

// List orders by priority then submission time. An empty status lists all.
func (uc AppealQueryUseCase) List(ctx context.Context, query ListAppealsQuery) (AppealPage, error) {
	if query.Status != "" {
		if _, ok := entities.ParseAppealStatus(string(query.Status)); !ok {
			return AppealPage{}, domainerrors.ErrValidation
		}
	}
	page := NewPage(query.Page, query.Limit)
	appeals, total, err := uc.Appeals.ListAppeals(ctx, ports.AppealListFilter{
		Status: query.Status,
		UserID: strings.TrimSpace(query.UserID),
		Offset: page.Offset(),
		Limit:  page.Limit,
	})
	if err != nil {
		return AppealPage{}, domainerrors.Upstream(err)
	}
	return AppealPage{
		Appeals:    appeals,
		Total:      total,
		Page:       page.Number,
		TotalPages: page.TotalPages(total),
	}, nil
}

func (uc AppealQueryUseCase) Get(ctx context.Context, appealID string) (entities.Appeal, error) {
	appeal, err := uc.Appeals.GetAppeal(ctx, strings.TrimSpace(appealID))
	if err != nil {
		return entities.Appeal{}, domainerrors.Upstream(err)
	}
	return appeal, nil
}
