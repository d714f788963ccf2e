package ports

import (
	"context"
	"time"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
)

// FilterRepository is the moderator-owned rule store keyed by name.
type FilterRepository interface {
	ListFilters(ctx context.Context, query entities.FilterQuery) ([]entities.Filter, error)
	GetFilter(ctx context.Context, name string) (entities.Filter, error)
	CreateFilter(ctx context.Context, filter entities.Filter) error
	UpdateFilter(ctx context.Context, name string, mutate func(*entities.Filter) error) (entities.Filter, error)
	RecordFilterMatches(ctx context.Context, names []string, matchedAt time.Time) error
}

type QueueListFilter struct {
	Status      entities.QueueStatus
	Category    entities.Category
	MaxPriority int
	ModeratorID string
	Offset      int
	Limit       int
}

type TimeRange struct {
	From *time.Time
	To   *time.Time
}

func (r TimeRange) Contains(at time.Time) bool {
	if r.From != nil && at.Before(*r.From) {
		return false
	}
	if r.To != nil && at.After(*r.To) {
		return false
	}
	return true
}

// QueueRepository persists queue items. UpdateQueueItem runs mutate under a
// per-item lock so status preconditions checked inside it hold at commit.
type QueueRepository interface {
	CreateQueueItem(ctx context.Context, item entities.QueueItem) error
	GetQueueItem(ctx context.Context, itemID string) (entities.QueueItem, error)
	UpdateQueueItem(ctx context.Context, itemID string, mutate func(*entities.QueueItem) (Effects, error)) (entities.QueueItem, error)
	ListQueue(ctx context.Context, filter QueueListFilter) ([]entities.QueueItem, int, error)
	CountQueueByStatus(ctx context.Context, window TimeRange) (map[entities.QueueStatus]int, error)
}

type ActionRepository interface {
	GetAction(ctx context.Context, actionID string) (entities.ActionRecord, error)
	UpdateAction(ctx context.Context, actionID string, mutate func(*entities.ActionRecord) (Effects, error)) (entities.ActionRecord, error)
	ListActionsByUser(ctx context.Context, userID string, limit int) ([]entities.ActionRecord, error)
	ListExpiredActions(ctx context.Context, now time.Time, limit int) ([]entities.ActionRecord, error)
	CountActionsByKind(ctx context.Context, window TimeRange) (map[entities.Action]int, error)
}

type AppealListFilter struct {
	Status entities.AppealStatus
	UserID string
	Offset int
	Limit  int
}

// AppealRepository persists appeals. CreateAppeal loads the action, builds the
// appeal and links it to the action in one atomic unit.
type AppealRepository interface {
	CreateAppeal(ctx context.Context, actionID string, build func(entities.ActionRecord) (entities.Appeal, error)) (entities.Appeal, error)
	GetAppeal(ctx context.Context, appealID string) (entities.Appeal, error)
	UpdateAppeal(ctx context.Context, appealID string, mutate func(*entities.Appeal) (Effects, error)) (entities.Appeal, error)
	ListAppeals(ctx context.Context, filter AppealListFilter) ([]entities.Appeal, int, error)
	CountAppealsByStatus(ctx context.Context, window TimeRange) (map[entities.AppealStatus]int, error)
}
