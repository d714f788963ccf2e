package queries

import (
	"context"
	"sort"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

// FilterQueryUseCase reads the filter store directly, bypassing the rule cache,
// so moderators see inactive filters and fresh stats.
type FilterQueryUseCase struct {
	Filters ports.FilterRepository
}

func (uc FilterQueryUseCase) List(ctx context.Context, query entities.FilterQuery) ([]entities.Filter, error) {
	if query.Category != nil && !query.Category.IsValid() {
		return nil, domainerrors.ErrValidation
	}
	filters, err := uc.Filters.ListFilters(ctx, query)
	if err != nil {
		return nil, domainerrors.Upstream(err)
	}
	sort.Slice(filters, func(i, j int) bool {
		return filters[i].Name < filters[j].Name
	})
	return filters, nil
}
