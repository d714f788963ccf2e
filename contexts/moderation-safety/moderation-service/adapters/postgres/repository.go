package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"
	"quad/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository stores moderation aggregates in postgres. Every Update* call
// locks the aggregate row and writes its effects in the same transaction.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) ListFilters(ctx context.Context, query entities.FilterQuery) ([]entities.Filter, error) {
	tx := r.db.WithContext(ctx).Model(&filterModel{})
	if query.Category != nil {
		tx = tx.Where("category = ?", string(*query.Category))
	}
	if query.IsActive != nil {
		tx = tx.Where("is_active = ?", *query.IsActive)
	}
	var rows []filterModel
	if err := tx.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("moderation_repo_list_filters_failed", err)
	}
	items := make([]entities.Filter, 0, len(rows))
	for _, row := range rows {
		filter, err := row.toEntity()
		if err != nil {
			return nil, r.logError("moderation_repo_decode_filter_failed", err, "filter_name", row.Name)
		}
		items = append(items, filter)
	}
	return items, nil
}

func (r *Repository) GetFilter(ctx context.Context, name string) (entities.Filter, error) {
	var row filterModel
	err := r.db.WithContext(ctx).
		Where("name = ?", strings.TrimSpace(name)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Filter{}, domainerrors.ErrFilterNotFound
		}
		return entities.Filter{}, r.logError("moderation_repo_get_filter_failed", err, "filter_name", strings.TrimSpace(name))
	}
	return row.toEntity()
}

func (r *Repository) CreateFilter(ctx context.Context, filter entities.Filter) error {
	row, err := filterModelFromEntity(filter)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrFilterExists
		}
		return r.logError("moderation_repo_create_filter_failed", err, "filter_name", filter.Name)
	}
	return nil
}

func (r *Repository) UpdateFilter(ctx context.Context, name string, mutate func(*entities.Filter) error) (entities.Filter, error) {
	var updated entities.Filter
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row filterModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("name = ?", strings.TrimSpace(name)).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrFilterNotFound
			}
			return err
		}
		filter, err := row.toEntity()
		if err != nil {
			return err
		}
		if err := mutate(&filter); err != nil {
			return err
		}
		filter.Name = row.Name
		next, err := filterModelFromEntity(filter)
		if err != nil {
			return err
		}
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		updated = filter
		return nil
	})
	if err != nil {
		return entities.Filter{}, r.txError("moderation_repo_update_filter_failed", err, "filter_name", strings.TrimSpace(name))
	}
	return updated, nil
}

func (r *Repository) RecordFilterMatches(ctx context.Context, names []string, matchedAt time.Time) error {
	if len(names) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Model(&filterModel{}).
		Where("name IN ?", names).
		UpdateColumns(map[string]any{
			"match_count":  gorm.Expr("match_count + 1"),
			"last_matched": matchedAt.UTC(),
		}).Error; err != nil {
		return r.logError("moderation_repo_record_filter_matches_failed", err, "filter_count", len(names))
	}
	return nil
}

func (r *Repository) CreateQueueItem(ctx context.Context, item entities.QueueItem) error {
	row, err := queueItemModelFromEntity(item)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("moderation_repo_create_queue_item_failed", err, "item_id", item.ItemID)
	}
	return nil
}

func (r *Repository) GetQueueItem(ctx context.Context, itemID string) (entities.QueueItem, error) {
	var row queueItemModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(itemID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.QueueItem{}, domainerrors.ErrQueueItemNotFound
		}
		return entities.QueueItem{}, r.logError("moderation_repo_get_queue_item_failed", err, "item_id", strings.TrimSpace(itemID))
	}
	return row.toEntity()
}

func (r *Repository) UpdateQueueItem(
	ctx context.Context,
	itemID string,
	mutate func(*entities.QueueItem) (ports.Effects, error),
) (entities.QueueItem, error) {
	var updated entities.QueueItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row queueItemModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", strings.TrimSpace(itemID)).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrQueueItemNotFound
			}
			return err
		}
		item, err := row.toEntity()
		if err != nil {
			return err
		}
		effects, err := mutate(&item)
		if err != nil {
			return err
		}
		next, err := queueItemModelFromEntity(item)
		if err != nil {
			return err
		}
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		if err := insertEffects(tx, effects); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return entities.QueueItem{}, r.txError("moderation_repo_update_queue_item_failed", err, "item_id", strings.TrimSpace(itemID))
	}
	return updated, nil
}

func (r *Repository) ListQueue(ctx context.Context, filter ports.QueueListFilter) ([]entities.QueueItem, int, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			tx = tx.Where("status = ?", string(filter.Status))
		}
		if filter.Category != "" {
			category, _ := json.Marshal([]string{string(filter.Category)})
			tx = tx.Where("detected_categories @> ?::jsonb", string(category))
		}
		if filter.MaxPriority > 0 {
			tx = tx.Where("priority <= ?", filter.MaxPriority)
		}
		if filter.ModeratorID != "" {
			tx = tx.Where("(assigned_to = '' OR assigned_to = ?)", filter.ModeratorID)
		}
		return tx
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&queueItemModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, r.logError("moderation_repo_count_queue_failed", err, "status", string(filter.Status))
	}

	query := r.db.WithContext(ctx).Model(&queueItemModel{}).Scopes(scope).
		Order("priority ASC").
		Order("created_at ASC").
		Order("id ASC")
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var rows []queueItemModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, r.logError("moderation_repo_list_queue_failed", err, "status", string(filter.Status))
	}
	items := make([]entities.QueueItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.toEntity()
		if err != nil {
			return nil, 0, r.logError("moderation_repo_decode_queue_item_failed", err, "item_id", row.ID)
		}
		items = append(items, item)
	}
	return items, int(total), nil
}

func (r *Repository) CountQueueByStatus(ctx context.Context, window ports.TimeRange) (map[entities.QueueStatus]int, error) {
	rows, err := r.countBy(ctx, &queueItemModel{}, "status", "created_at", window)
	if err != nil {
		return nil, r.logError("moderation_repo_count_queue_by_status_failed", err)
	}
	counts := make(map[entities.QueueStatus]int, len(rows))
	for _, row := range rows {
		counts[entities.QueueStatus(row.Key)] = row.Total
	}
	return counts, nil
}

func (r *Repository) GetAction(ctx context.Context, actionID string) (entities.ActionRecord, error) {
	var row actionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(actionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ActionRecord{}, domainerrors.ErrActionNotFound
		}
		return entities.ActionRecord{}, r.logError("moderation_repo_get_action_failed", err, "action_id", strings.TrimSpace(actionID))
	}
	return row.toEntity()
}

func (r *Repository) UpdateAction(
	ctx context.Context,
	actionID string,
	mutate func(*entities.ActionRecord) (ports.Effects, error),
) (entities.ActionRecord, error) {
	var updated entities.ActionRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row actionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", strings.TrimSpace(actionID)).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrActionNotFound
			}
			return err
		}
		record, err := row.toEntity()
		if err != nil {
			return err
		}
		effects, err := mutate(&record)
		if err != nil {
			return err
		}
		next := actionModelFromEntity(record)
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		if err := insertEffects(tx, effects); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return entities.ActionRecord{}, r.txError("moderation_repo_update_action_failed", err, "action_id", strings.TrimSpace(actionID))
	}
	return updated, nil
}

func (r *Repository) ListActionsByUser(ctx context.Context, userID string, limit int) ([]entities.ActionRecord, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Order("created_at DESC").
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []actionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.logError("moderation_repo_list_actions_by_user_failed", err, "user_id", strings.TrimSpace(userID))
	}
	return toActionEntities(rows)
}

func (r *Repository) ListExpiredActions(ctx context.Context, now time.Time, limit int) ([]entities.ActionRecord, error) {
	query := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL").
		Where("expires_at <= ?", now.UTC()).
		Where("reversed = ?", false).
		Where("expired = ?", false).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []actionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, r.logError("moderation_repo_list_expired_actions_failed", err)
	}
	return toActionEntities(rows)
}

func (r *Repository) CountActionsByKind(ctx context.Context, window ports.TimeRange) (map[entities.Action]int, error) {
	rows, err := r.countBy(ctx, &actionModel{}, "action", "created_at", window)
	if err != nil {
		return nil, r.logError("moderation_repo_count_actions_by_kind_failed", err)
	}
	counts := make(map[entities.Action]int, len(rows))
	for _, row := range rows {
		counts[entities.Action(row.Key)] = row.Total
	}
	return counts, nil
}

func (r *Repository) CreateAppeal(
	ctx context.Context,
	actionID string,
	build func(entities.ActionRecord) (entities.Appeal, error),
) (entities.Appeal, error) {
	var created entities.Appeal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row actionModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", strings.TrimSpace(actionID)).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrActionNotFound
			}
			return err
		}
		action, err := row.toEntity()
		if err != nil {
			return err
		}
		appeal, err := build(action)
		if err != nil {
			return err
		}
		if err := action.LinkAppeal(appeal.AppealID); err != nil {
			return err
		}
		appealRow, err := appealModelFromEntity(appeal)
		if err != nil {
			return err
		}
		if err := tx.Create(&appealRow).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyAppealed
			}
			return err
		}
		if err := tx.Model(&actionModel{}).
			Where("id = ?", action.ActionID).
			Updates(map[string]any{
				"appealed":  true,
				"appeal_id": appeal.AppealID,
			}).Error; err != nil {
			return err
		}
		created = appeal
		return nil
	})
	if err != nil {
		return entities.Appeal{}, r.txError("moderation_repo_create_appeal_failed", err, "action_id", strings.TrimSpace(actionID))
	}
	return created, nil
}

func (r *Repository) GetAppeal(ctx context.Context, appealID string) (entities.Appeal, error) {
	var row appealModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(appealID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Appeal{}, domainerrors.ErrAppealNotFound
		}
		return entities.Appeal{}, r.logError("moderation_repo_get_appeal_failed", err, "appeal_id", strings.TrimSpace(appealID))
	}
	return row.toEntity()
}

func (r *Repository) UpdateAppeal(
	ctx context.Context,
	appealID string,
	mutate func(*entities.Appeal) (ports.Effects, error),
) (entities.Appeal, error) {
	var updated entities.Appeal
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row appealModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", strings.TrimSpace(appealID)).
			First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrAppealNotFound
			}
			return err
		}
		appeal, err := row.toEntity()
		if err != nil {
			return err
		}
		effects, err := mutate(&appeal)
		if err != nil {
			return err
		}
		next, err := appealModelFromEntity(appeal)
		if err != nil {
			return err
		}
		if err := tx.Save(&next).Error; err != nil {
			return err
		}
		if err := insertEffects(tx, effects); err != nil {
			return err
		}
		updated = appeal
		return nil
	})
	if err != nil {
		return entities.Appeal{}, r.txError("moderation_repo_update_appeal_failed", err, "appeal_id", strings.TrimSpace(appealID))
	}
	return updated, nil
}

func (r *Repository) ListAppeals(ctx context.Context, filter ports.AppealListFilter) ([]entities.Appeal, int, error) {
	scope := func(tx *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			tx = tx.Where("status = ?", string(filter.Status))
		}
		if filter.UserID != "" {
			tx = tx.Where("user_id = ?", filter.UserID)
		}
		return tx
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&appealModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, r.logError("moderation_repo_count_appeals_failed", err, "status", string(filter.Status))
	}
	query := r.db.WithContext(ctx).Model(&appealModel{}).Scopes(scope).
		Order("priority ASC").
		Order("submitted_at ASC").
		Order("id ASC")
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	var rows []appealModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, r.logError("moderation_repo_list_appeals_failed", err, "status", string(filter.Status))
	}
	items := make([]entities.Appeal, 0, len(rows))
	for _, row := range rows {
		appeal, err := row.toEntity()
		if err != nil {
			return nil, 0, r.logError("moderation_repo_decode_appeal_failed", err, "appeal_id", row.ID)
		}
		items = append(items, appeal)
	}
	return items, int(total), nil
}

func (r *Repository) CountAppealsByStatus(ctx context.Context, window ports.TimeRange) (map[entities.AppealStatus]int, error) {
	rows, err := r.countBy(ctx, &appealModel{}, "status", "submitted_at", window)
	if err != nil {
		return nil, r.logError("moderation_repo_count_appeals_by_status_failed", err)
	}
	counts := make(map[entities.AppealStatus]int, len(rows))
	for _, row := range rows {
		counts[entities.AppealStatus(row.Key)] = row.Total
	}
	return counts, nil
}

func (r *Repository) ClaimDuePenalties(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]entities.PenaltyTask, error) {
	var rows []penaltyTaskModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("status = ?", string(entities.PenaltyStatusPending)).
			Where("next_attempt_at <= ?", now.UTC()).
			Order("next_attempt_at ASC").
			Order("id ASC")
		if limit > 0 {
			query = query.Limit(limit)
		}
		if err := query.Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		ids := make([]string, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		return tx.Model(&penaltyTaskModel{}).
			Where("id IN ?", ids).
			Update("next_attempt_at", now.Add(lease).UTC()).Error
	})
	if err != nil {
		return nil, r.logError("moderation_repo_claim_due_penalties_failed", err, "limit", limit)
	}
	items := make([]entities.PenaltyTask, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) MarkPenaltyDone(ctx context.Context, taskID string, attempts int, doneAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&penaltyTaskModel{}).
		Where("id = ?", strings.TrimSpace(taskID)).
		Updates(map[string]any{
			"status":     string(entities.PenaltyStatusDone),
			"attempts":   attempts,
			"last_error": "",
			"done_at":    doneAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("moderation_repo_mark_penalty_done_failed", result.Error, "task_id", strings.TrimSpace(taskID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *Repository) MarkPenaltyFailed(
	ctx context.Context,
	taskID string,
	attempts int,
	nextAttemptAt time.Time,
	lastError string,
	dead bool,
) error {
	updates := map[string]any{
		"attempts":        attempts,
		"next_attempt_at": nextAttemptAt.UTC(),
		"last_error":      lastError,
	}
	if dead {
		updates["status"] = string(entities.PenaltyStatusDead)
	}
	result := r.db.WithContext(ctx).
		Model(&penaltyTaskModel{}).
		Where("id = ?", strings.TrimSpace(taskID)).
		Updates(updates)
	if result.Error != nil {
		return r.logError("moderation_repo_mark_penalty_failed_failed", result.Error, "task_id", strings.TrimSpace(taskID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("moderation_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outbox.StatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("moderation_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("moderation_repo_idempotency_get_failed", err,
			"idempotency_key", strings.TrimSpace(key),
		)
	}
	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).Error; err != nil {
			return ports.IdempotencyRecord{}, false, r.logError("moderation_repo_idempotency_expire_delete_failed", err,
				"idempotency_key", strings.TrimSpace(key),
			)
		}
		return ports.IdempotencyRecord{}, false, nil
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		ResultID:    row.ResultID,
		ExpiresAt:   row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(record.Key),
		RequestHash: strings.TrimSpace(record.RequestHash),
		ResultID:    strings.TrimSpace(record.ResultID),
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("moderation_repo_idempotency_put_failed", create.Error, "idempotency_key", row.Key)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).Error; err != nil {
		return r.logError("moderation_repo_idempotency_load_existing_failed", err, "idempotency_key", row.Key)
	}
	if existing.RequestHash != row.RequestHash {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

func (r *Repository) ReserveEvent(
	ctx context.Context,
	eventID string,
	payloadHash string,
	expiresAt time.Time,
) (bool, error) {
	row := eventDedupModel{
		EventID:     strings.TrimSpace(eventID),
		PayloadHash: strings.TrimSpace(payloadHash),
		ExpiresAt:   expiresAt.UTC(),
		ProcessedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", row.EventID).
		Where("expires_at < ?", row.ProcessedAt).
		Delete(&eventDedupModel{}).Error; err != nil {
		return false, r.logError("moderation_repo_reserve_event_expire_failed", err, "event_id", row.EventID)
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return false, r.logError("moderation_repo_reserve_event_failed", create.Error, "event_id", row.EventID)
	}
	if create.RowsAffected > 0 {
		return false, nil
	}

	var existing eventDedupModel
	if err := r.db.WithContext(ctx).
		Select("payload_hash").
		Where("event_id = ?", row.EventID).
		First(&existing).Error; err != nil {
		return false, r.logError("moderation_repo_reserve_event_load_existing_failed", err, "event_id", row.EventID)
	}
	if existing.PayloadHash != row.PayloadHash {
		return false, domainerrors.ErrConflict
	}
	return true, nil
}

func (r *Repository) countBy(
	ctx context.Context,
	model any,
	column string,
	timeColumn string,
	window ports.TimeRange,
) ([]statusCount, error) {
	query := r.db.WithContext(ctx).Model(model).
		Select(column + " AS key, COUNT(*) AS total").
		Group(column)
	if window.From != nil {
		query = query.Where(timeColumn+" >= ?", window.From.UTC())
	}
	if window.To != nil {
		query = query.Where(timeColumn+" <= ?", window.To.UTC())
	}
	var rows []statusCount
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// insertEffects writes the rows that accompany an aggregate change inside tx.
func insertEffects(tx *gorm.DB, effects ports.Effects) error {
	for _, record := range effects.Actions {
		row := actionModelFromEntity(record)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrConflict
			}
			return err
		}
	}
	for _, task := range effects.Penalties {
		row := penaltyTaskModelFromEntity(task)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrConflict
			}
			return err
		}
	}
	for _, message := range effects.Events {
		row := outboxModel{
			OutboxID:     message.OutboxID,
			EventType:    message.EventType,
			PartitionKey: message.PartitionKey,
			Payload:      append([]byte(nil), message.Payload...),
			Status:       outbox.StatusPending,
			CreatedAt:    message.CreatedAt.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrConflict
			}
			return err
		}
	}
	return nil
}

// txError passes domain outcomes through and logs infrastructure failures.
func (r *Repository) txError(event string, err error, attrs ...any) error {
	if isDomainError(err) {
		return err
	}
	return r.logError(event, err, attrs...)
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "moderation-safety/moderation-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("moderation repository operation failed", fields...)
	return err
}

func toActionEntities(rows []actionModel) ([]entities.ActionRecord, error) {
	items := make([]entities.ActionRecord, 0, len(rows))
	for _, row := range rows {
		record, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, record)
	}
	return items, nil
}

func isDomainError(err error) bool {
	for _, known := range []error{
		domainerrors.ErrNotFound,
		domainerrors.ErrInvalidState,
		domainerrors.ErrValidation,
		domainerrors.ErrForbidden,
		domainerrors.ErrConflict,
		domainerrors.ErrIdempotencyConflict,
	} {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.FilterRepository = (*Repository)(nil)
var _ ports.QueueRepository = (*Repository)(nil)
var _ ports.ActionRepository = (*Repository)(nil)
var _ ports.AppealRepository = (*Repository)(nil)
var _ ports.PenaltyQueue = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.IdempotencyStore = (*Repository)(nil)
var _ ports.EventDedupStore = (*Repository)(nil)
