package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "quad/contexts/moderation-safety/moderation-service/application"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

type UpdateFilterCommand struct {
	Name      string
	Patch     entities.FilterPatch
	UpdatedBy string
}

type UpdateFilterUseCase struct {
	Filters  ports.FilterRepository
	Cache    RuleInvalidator
	Notifier ports.FilterChangeNotifier
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u UpdateFilterUseCase) Execute(ctx context.Context, cmd UpdateFilterCommand) (entities.Filter, error) {
	if strings.TrimSpace(cmd.Name) == "" || strings.TrimSpace(cmd.UpdatedBy) == "" {
		return entities.Filter{}, validationErrorf("name and updated_by are required")
	}
	now := u.now()
	filter, err := u.Filters.UpdateFilter(ctx, strings.TrimSpace(cmd.Name), func(current *entities.Filter) error {
		next, err := current.Apply(cmd.Patch, now)
		if err != nil {
			return err
		}
		*current = next
		return nil
	})
	if err != nil {
		return entities.Filter{}, domainerrors.Upstream(err)
	}
	logger := application.ResolveLogger(u.Logger)
	invalidateFilters(ctx, u.Cache, u.Notifier, filter.Name, logger)

	logger.Info("filter updated",
		"event", "moderation_filter_updated",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"filter_name", filter.Name,
		"is_active", filter.IsActive,
		"updated_by", cmd.UpdatedBy,
	)
	return filter, nil
}

func (u UpdateFilterUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
