package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
)

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

type dedupRecord struct {
	payloadHash string
	expiresAt   time.Time
}

// Store keeps every moderation aggregate in process. A single mutex makes each
// read-modify-write, together with its effects, one atomic unit.
type Store struct {
	mu sync.RWMutex

	filters     map[string]entities.Filter
	queue       map[string]entities.QueueItem
	actions     map[string]entities.ActionRecord
	appeals     map[string]entities.Appeal
	penalties   map[string]entities.PenaltyTask
	outbox      map[string]outboxRecord
	idempotency map[string]ports.IdempotencyRecord
	eventDedup  map[string]dedupRecord
}

func NewStore() *Store {
	return &Store{
		filters:     map[string]entities.Filter{},
		queue:       map[string]entities.QueueItem{},
		actions:     map[string]entities.ActionRecord{},
		appeals:     map[string]entities.Appeal{},
		penalties:   map[string]entities.PenaltyTask{},
		outbox:      map[string]outboxRecord{},
		idempotency: map[string]ports.IdempotencyRecord{},
		eventDedup:  map[string]dedupRecord{},
	}
}

func (s *Store) ListFilters(_ context.Context, query entities.FilterQuery) ([]entities.Filter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Filter, 0, len(s.filters))
	for _, filter := range s.filters {
		if query.Category != nil && filter.Category != *query.Category {
			continue
		}
		if query.IsActive != nil && filter.IsActive != *query.IsActive {
			continue
		}
		items = append(items, cloneFilter(filter))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (s *Store) GetFilter(_ context.Context, name string) (entities.Filter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	filter, ok := s.filters[strings.TrimSpace(name)]
	if !ok {
		return entities.Filter{}, domainerrors.ErrFilterNotFound
	}
	return cloneFilter(filter), nil
}

func (s *Store) CreateFilter(_ context.Context, filter entities.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.filters[filter.Name]; exists {
		return domainerrors.ErrFilterExists
	}
	s.filters[filter.Name] = cloneFilter(filter)
	return nil
}

func (s *Store) UpdateFilter(_ context.Context, name string, mutate func(*entities.Filter) error) (entities.Filter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.filters[name]
	if !ok {
		return entities.Filter{}, domainerrors.ErrFilterNotFound
	}
	next := cloneFilter(current)
	if err := mutate(&next); err != nil {
		return entities.Filter{}, err
	}
	next.Name = current.Name
	s.filters[name] = next
	return cloneFilter(next), nil
}

func (s *Store) RecordFilterMatches(_ context.Context, names []string, matchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	at := matchedAt.UTC()
	for _, name := range names {
		filter, ok := s.filters[name]
		if !ok {
			continue
		}
		filter.Stats.MatchCount++
		filter.Stats.LastMatched = &at
		s.filters[name] = filter
	}
	return nil
}

func (s *Store) CreateQueueItem(_ context.Context, item entities.QueueItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.queue[item.ItemID]; exists {
		return domainerrors.ErrConflict
	}
	s.queue[item.ItemID] = cloneQueueItem(item)
	return nil
}

func (s *Store) GetQueueItem(_ context.Context, itemID string) (entities.QueueItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.queue[itemID]
	if !ok {
		return entities.QueueItem{}, domainerrors.ErrQueueItemNotFound
	}
	return cloneQueueItem(item), nil
}

func (s *Store) UpdateQueueItem(
	_ context.Context,
	itemID string,
	mutate func(*entities.QueueItem) (ports.Effects, error),
) (entities.QueueItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.queue[itemID]
	if !ok {
		return entities.QueueItem{}, domainerrors.ErrQueueItemNotFound
	}
	next := cloneQueueItem(current)
	effects, err := mutate(&next)
	if err != nil {
		return entities.QueueItem{}, err
	}
	if err := s.applyEffectsLocked(effects); err != nil {
		return entities.QueueItem{}, err
	}
	s.queue[itemID] = next
	return cloneQueueItem(next), nil
}

func (s *Store) ListQueue(_ context.Context, filter ports.QueueListFilter) ([]entities.QueueItem, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.QueueItem, 0, len(s.queue))
	for _, item := range s.queue {
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.Category != "" && !item.Analysis.HasCategory(filter.Category) {
			continue
		}
		if filter.MaxPriority > 0 && item.Priority > filter.MaxPriority {
			continue
		}
		if filter.ModeratorID != "" && item.AssignedTo != "" && item.AssignedTo != filter.ModeratorID {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority < items[j].Priority
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ItemID < items[j].ItemID
	})
	page := paginate(items, filter.Offset, filter.Limit)
	for i := range page {
		page[i] = cloneQueueItem(page[i])
	}
	return page, len(items), nil
}

func (s *Store) CountQueueByStatus(_ context.Context, window ports.TimeRange) (map[entities.QueueStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[entities.QueueStatus]int{}
	for _, item := range s.queue {
		if window.Contains(item.CreatedAt) {
			counts[item.Status]++
		}
	}
	return counts, nil
}

func (s *Store) GetAction(_ context.Context, actionID string) (entities.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.actions[actionID]
	if !ok {
		return entities.ActionRecord{}, domainerrors.ErrActionNotFound
	}
	return record, nil
}

func (s *Store) UpdateAction(
	_ context.Context,
	actionID string,
	mutate func(*entities.ActionRecord) (ports.Effects, error),
) (entities.ActionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.actions[actionID]
	if !ok {
		return entities.ActionRecord{}, domainerrors.ErrActionNotFound
	}
	next := current
	effects, err := mutate(&next)
	if err != nil {
		return entities.ActionRecord{}, err
	}
	if err := s.applyEffectsLocked(effects); err != nil {
		return entities.ActionRecord{}, err
	}
	s.actions[actionID] = next
	return next, nil
}

func (s *Store) ListActionsByUser(_ context.Context, userID string, limit int) ([]entities.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.ActionRecord, 0)
	for _, record := range s.actions {
		if record.UserID == userID {
			items = append(items, record)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ActionID < items[j].ActionID
	})
	return paginate(items, 0, limit), nil
}

func (s *Store) ListExpiredActions(_ context.Context, now time.Time, limit int) ([]entities.ActionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.ActionRecord, 0)
	for _, record := range s.actions {
		if record.ExpiresAt == nil || record.Reversed || record.Expired {
			continue
		}
		if record.ExpiresAt.After(now) {
			continue
		}
		items = append(items, record)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ExpiresAt.Before(*items[j].ExpiresAt)
	})
	return paginate(items, 0, limit), nil
}

func (s *Store) CountActionsByKind(_ context.Context, window ports.TimeRange) (map[entities.Action]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[entities.Action]int{}
	for _, record := range s.actions {
		if window.Contains(record.CreatedAt) {
			counts[record.Action]++
		}
	}
	return counts, nil
}

func (s *Store) CreateAppeal(
	_ context.Context,
	actionID string,
	build func(entities.ActionRecord) (entities.Appeal, error),
) (entities.Appeal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	action, ok := s.actions[actionID]
	if !ok {
		return entities.Appeal{}, domainerrors.ErrActionNotFound
	}
	appeal, err := build(action)
	if err != nil {
		return entities.Appeal{}, err
	}
	if _, exists := s.appeals[appeal.AppealID]; exists {
		return entities.Appeal{}, domainerrors.ErrConflict
	}
	if err := action.LinkAppeal(appeal.AppealID); err != nil {
		return entities.Appeal{}, err
	}
	s.actions[actionID] = action
	s.appeals[appeal.AppealID] = cloneAppeal(appeal)
	return cloneAppeal(appeal), nil
}

func (s *Store) GetAppeal(_ context.Context, appealID string) (entities.Appeal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appeal, ok := s.appeals[appealID]
	if !ok {
		return entities.Appeal{}, domainerrors.ErrAppealNotFound
	}
	return cloneAppeal(appeal), nil
}

func (s *Store) UpdateAppeal(
	_ context.Context,
	appealID string,
	mutate func(*entities.Appeal) (ports.Effects, error),
) (entities.Appeal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.appeals[appealID]
	if !ok {
		return entities.Appeal{}, domainerrors.ErrAppealNotFound
	}
	next := cloneAppeal(current)
	effects, err := mutate(&next)
	if err != nil {
		return entities.Appeal{}, err
	}
	if err := s.applyEffectsLocked(effects); err != nil {
		return entities.Appeal{}, err
	}
	s.appeals[appealID] = next
	return cloneAppeal(next), nil
}

func (s *Store) ListAppeals(_ context.Context, filter ports.AppealListFilter) ([]entities.Appeal, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.Appeal, 0, len(s.appeals))
	for _, appeal := range s.appeals {
		if filter.Status != "" && appeal.Status != filter.Status {
			continue
		}
		if filter.UserID != "" && appeal.UserID != filter.UserID {
			continue
		}
		items = append(items, appeal)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Priority != items[j].Priority {
			return items[i].Priority < items[j].Priority
		}
		if !items[i].SubmittedAt.Equal(items[j].SubmittedAt) {
			return items[i].SubmittedAt.Before(items[j].SubmittedAt)
		}
		return items[i].AppealID < items[j].AppealID
	})
	page := paginate(items, filter.Offset, filter.Limit)
	for i := range page {
		page[i] = cloneAppeal(page[i])
	}
	return page, len(items), nil
}

func (s *Store) CountAppealsByStatus(_ context.Context, window ports.TimeRange) (map[entities.AppealStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[entities.AppealStatus]int{}
	for _, appeal := range s.appeals {
		if window.Contains(appeal.SubmittedAt) {
			counts[appeal.Status]++
		}
	}
	return counts, nil
}

func (s *Store) ClaimDuePenalties(_ context.Context, now time.Time, lease time.Duration, limit int) ([]entities.PenaltyTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]entities.PenaltyTask, 0)
	for _, task := range s.penalties {
		if task.Status != entities.PenaltyStatusPending || task.NextAttemptAt.After(now) {
			continue
		}
		items = append(items, task)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].NextAttemptAt.Equal(items[j].NextAttemptAt) {
			return items[i].NextAttemptAt.Before(items[j].NextAttemptAt)
		}
		return items[i].TaskID < items[j].TaskID
	})
	claimed := paginate(items, 0, limit)
	for _, task := range claimed {
		leased := s.penalties[task.TaskID]
		leased.NextAttemptAt = now.Add(lease)
		s.penalties[task.TaskID] = leased
	}
	return claimed, nil
}

func (s *Store) MarkPenaltyDone(_ context.Context, taskID string, attempts int, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.penalties[taskID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	task.Status = entities.PenaltyStatusDone
	task.Attempts = attempts
	task.LastError = ""
	s.penalties[taskID] = task
	return nil
}

func (s *Store) MarkPenaltyFailed(
	_ context.Context,
	taskID string,
	attempts int,
	nextAttemptAt time.Time,
	lastError string,
	dead bool,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.penalties[taskID]
	if !ok {
		return domainerrors.ErrNotFound
	}
	task.Attempts = attempts
	task.NextAttemptAt = nextAttemptAt.UTC()
	task.LastError = lastError
	if dead {
		task.Status = entities.PenaltyStatusDead
	}
	s.penalties[taskID] = task
	return nil
}

// PenaltyTasks returns every penalty task regardless of status.
func (s *Store) PenaltyTasks() []entities.PenaltyTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.PenaltyTask, 0, len(s.penalties))
	for _, task := range s.penalties {
		items = append(items, task)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Get(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.idempotency[key]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.IsZero() && now.UTC().After(record.ExpiresAt.UTC()) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) Put(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.idempotency[record.Key]; ok {
		if existing.RequestHash != record.RequestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		return nil
	}
	s.idempotency[record.Key] = record
	return nil
}

func (s *Store) ReserveEvent(_ context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(eventID)
	if existing, ok := s.eventDedup[key]; ok {
		if !existing.expiresAt.IsZero() && time.Now().UTC().After(existing.expiresAt) {
			delete(s.eventDedup, key)
		} else {
			if existing.payloadHash != strings.TrimSpace(payloadHash) {
				return false, domainerrors.ErrConflict
			}
			return true, nil
		}
	}
	s.eventDedup[key] = dedupRecord{
		payloadHash: strings.TrimSpace(payloadHash),
		expiresAt:   expiresAt.UTC(),
	}
	return false, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// applyEffectsLocked validates every effect before writing any of them.
func (s *Store) applyEffectsLocked(effects ports.Effects) error {
	for _, record := range effects.Actions {
		if _, exists := s.actions[record.ActionID]; exists {
			return domainerrors.ErrConflict
		}
	}
	for _, task := range effects.Penalties {
		if _, exists := s.penalties[task.TaskID]; exists {
			return domainerrors.ErrConflict
		}
	}
	for _, message := range effects.Events {
		if _, exists := s.outbox[message.OutboxID]; exists {
			return domainerrors.ErrConflict
		}
	}
	for _, record := range effects.Actions {
		s.actions[record.ActionID] = record
	}
	for _, task := range effects.Penalties {
		s.penalties[task.TaskID] = task
	}
	for _, message := range effects.Events {
		s.outbox[message.OutboxID] = outboxRecord{message: message}
	}
	return nil
}

func paginate[T any](items []T, offset int, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return slices.Clone(items[offset:end])
}

func cloneFilter(filter entities.Filter) entities.Filter {
	filter.ApplyTo = slices.Clone(filter.ApplyTo)
	filter.Exceptions = slices.Clone(filter.Exceptions)
	return filter
}

func cloneQueueItem(item entities.QueueItem) entities.QueueItem {
	item.Reports = slices.Clone(item.Reports)
	item.Snapshot.ImageURLs = slices.Clone(item.Snapshot.ImageURLs)
	item.Snapshot.VideoURLs = slices.Clone(item.Snapshot.VideoURLs)
	item.Analysis.DetectedCategories = slices.Clone(item.Analysis.DetectedCategories)
	item.Analysis.FlaggedPhrases = slices.Clone(item.Analysis.FlaggedPhrases)
	item.Analysis.MatchedFilters = slices.Clone(item.Analysis.MatchedFilters)
	if item.Decision != nil {
		decision := *item.Decision
		item.Decision = &decision
	}
	return item
}

func cloneAppeal(appeal entities.Appeal) entities.Appeal {
	appeal.Evidence = slices.Clone(appeal.Evidence)
	appeal.Messages = slices.Clone(appeal.Messages)
	if appeal.Decision != nil {
		decision := *appeal.Decision
		appeal.Decision = &decision
	}
	return appeal
}

var _ ports.FilterRepository = (*Store)(nil)
var _ ports.QueueRepository = (*Store)(nil)
var _ ports.ActionRepository = (*Store)(nil)
var _ ports.AppealRepository = (*Store)(nil)
var _ ports.PenaltyQueue = (*Store)(nil)
var _ ports.OutboxRepository = (*Store)(nil)
var _ ports.IdempotencyStore = (*Store)(nil)
var _ ports.EventDedupStore = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
