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

type CreateFilterCommand struct {
	Name       string
	Type       entities.FilterType
	Pattern    string
	Category   entities.Category
	Severity   entities.Severity
	Action     entities.Action
	IsActive   bool
	ApplyTo    []entities.ContentKind
	Exceptions []string
	CreatedBy  string
}

// CreateFilterUseCase stores a new rule and invalidates the rule cache locally
// and on peers.
type CreateFilterUseCase struct {
	Filters  ports.FilterRepository
	Cache    RuleInvalidator
	Notifier ports.FilterChangeNotifier
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u CreateFilterUseCase) Execute(ctx context.Context, cmd CreateFilterCommand) (entities.Filter, error) {
	if strings.TrimSpace(cmd.CreatedBy) == "" {
		return entities.Filter{}, validationErrorf("created_by is required")
	}
	now := u.now()
	filter := entities.Filter{
		Name:       strings.TrimSpace(cmd.Name),
		Type:       cmd.Type,
		Pattern:    strings.TrimSpace(cmd.Pattern),
		Category:   cmd.Category,
		Severity:   cmd.Severity,
		Action:     cmd.Action,
		IsActive:   cmd.IsActive,
		ApplyTo:    cmd.ApplyTo,
		Exceptions: cmd.Exceptions,
		CreatedBy:  strings.TrimSpace(cmd.CreatedBy),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := filter.Validate(); err != nil {
		return entities.Filter{}, err
	}
	if err := u.Filters.CreateFilter(ctx, filter); err != nil {
		return entities.Filter{}, domainerrors.Upstream(err)
	}
	invalidateFilters(ctx, u.Cache, u.Notifier, filter.Name, application.ResolveLogger(u.Logger))

	application.ResolveLogger(u.Logger).Info("filter created",
		"event", "moderation_filter_created",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"filter_name", filter.Name,
		"filter_type", string(filter.Type),
		"category", string(filter.Category),
		"created_by", filter.CreatedBy,
	)
	return filter, nil
}

func (u CreateFilterUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func invalidateFilters(ctx context.Context, cache RuleInvalidator, notifier ports.FilterChangeNotifier, name string, logger *slog.Logger) {
	if cache != nil {
		cache.Invalidate()
	}
	if notifier == nil {
		return
	}
	if err := notifier.NotifyFilterChanged(ctx, name); err != nil {
		logger.Warn("filter change broadcast failed",
			"event", "moderation_filter_change_notify_failed",
			"module", "moderation-safety/moderation-service",
			"layer", "application",
			"filter_name", name,
			"error", err.Error(),
		)
	}
}
