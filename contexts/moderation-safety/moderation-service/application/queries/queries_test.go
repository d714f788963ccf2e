package queries

import (
	"context"
	"fmt"
	"testing"
	"time"

	"quad/contexts/moderation-safety/moderation-service/adapters/memory"
	"quad/contexts/moderation-safety/moderation-service/application/analysis"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func seed(t *testing.T, store *memory.Store, id string, priority int, age time.Duration, categories ...entities.Category) entities.QueueItem {
	t.Helper()
	item, err := entities.NewQueueItem(id, entities.PostRef{PostID: id}, "user-1", entities.ContentSnapshot{Text: id},
		entities.AnalysisResult{DetectedCategories: categories}, priority, base.Add(-age))
	require.NoError(t, err)
	require.NoError(t, store.CreateQueueItem(context.Background(), item))
	return item
}

func TestPageNormalization(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Limit: DefaultPageLimit}, NewPage(0, 0))
	assert.Equal(t, Page{Number: 3, Limit: MaxPageLimit}, NewPage(3, 500))
	assert.Equal(t, 40, NewPage(3, 20).Offset())
	assert.Equal(t, 3, NewPage(1, 20).TotalPages(41))
	assert.Equal(t, 0, NewPage(1, 20).TotalPages(0))
}

func TestQueueListOrdersByPriorityThenAge(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "low-old", 5, 3*time.Hour)
	seed(t, store, "urgent-new", 1, time.Minute, entities.CategoryHateSpeech)
	seed(t, store, "urgent-old", 1, time.Hour)
	seed(t, store, "mid", 3, 2*time.Hour, entities.CategorySpam)
	uc := QueueQueryUseCase{Queue: store}

	page, err := uc.List(context.Background(), GetQueueQuery{})
	require.NoError(t, err)
	ids := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		ids = append(ids, item.ItemID)
	}
	assert.Equal(t, []string{"urgent-old", "urgent-new", "mid", "low-old"}, ids)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 1, page.TotalPages)

	page, err = uc.List(context.Background(), GetQueueQuery{MaxPriority: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)

	page, err = uc.List(context.Background(), GetQueueQuery{Category: entities.CategorySpam})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "mid", page.Items[0].ItemID)

	page, err = uc.List(context.Background(), GetQueueQuery{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "low-old", page.Items[0].ItemID)

	_, err = uc.List(context.Background(), GetQueueQuery{Status: "archived"})
	require.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestQueueListHidesItemsClaimedByOthers(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "free", 2, time.Hour)
	for _, id := range []string{"mine", "theirs"} {
		seed(t, store, id, 2, time.Hour)
	}
	claim := func(id string, moderator string) {
		_, err := store.UpdateQueueItem(context.Background(), id, func(item *entities.QueueItem) (ports.Effects, error) {
			return ports.Effects{}, item.Claim(moderator, base)
		})
		require.NoError(t, err)
	}
	claim("mine", "mod-1")
	claim("theirs", "mod-2")

	page, err := QueueQueryUseCase{Queue: store}.List(context.Background(), GetQueueQuery{
		Status:      entities.QueueStatusInReview,
		ModeratorID: "mod-1",
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "mine", page.Items[0].ItemID)

	_, err = QueueQueryUseCase{Queue: store}.Get(context.Background(), "nope")
	require.ErrorIs(t, err, domainerrors.ErrQueueItemNotFound)
}

func record(t *testing.T, store *memory.Store, itemID string, userID string, action entities.Action, duration time.Duration, at time.Time) entities.ActionRecord {
	t.Helper()
	item, err := entities.NewQueueItem(itemID, entities.PostRef{PostID: itemID}, userID, entities.ContentSnapshot{}, entities.AnalysisResult{}, 5, at)
	require.NoError(t, err)
	require.NoError(t, store.CreateQueueItem(context.Background(), item))
	var built entities.ActionRecord
	_, err = store.UpdateQueueItem(context.Background(), itemID, func(item *entities.QueueItem) (ports.Effects, error) {
		if err := item.Decide(action, "mod-1", "reason", "", at); err != nil {
			return ports.Effects{}, err
		}
		built, err = entities.NewActionRecord("act-"+itemID, *item, action, "mod-1", "reason", "", duration, at)
		return ports.Effects{Actions: []entities.ActionRecord{built}}, err
	})
	require.NoError(t, err)
	return built
}

func TestStatisticsCountsWithinWindow(t *testing.T) {
	store := memory.NewStore()
	record(t, store, "a", "user-1", entities.ActionRemove, 0, base.Add(-48*time.Hour))
	record(t, store, "b", "user-1", entities.ActionRemove, 0, base)
	record(t, store, "c", "user-2", entities.ActionApprove, 0, base)
	seed(t, store, "d", 4, 0)
	uc := StatisticsUseCase{Queue: store, Actions: store, Appeals: store}

	all, err := uc.Execute(context.Background(), ports.TimeRange{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.TotalActions)
	assert.Equal(t, 2, all.ActionsByKind[entities.ActionRemove])
	assert.Equal(t, 1, all.PendingQueue)
	assert.Equal(t, 2, all.QueueByStatus[entities.QueueStatusRejected])
	assert.Contains(t, all.AppealByStatus, entities.AppealStatusPending)

	from := base.Add(-time.Hour)
	recent, err := uc.Execute(context.Background(), ports.TimeRange{From: &from})
	require.NoError(t, err)
	assert.Equal(t, 2, recent.TotalActions)

	to := from.Add(-time.Hour)
	_, err = uc.Execute(context.Background(), ports.TimeRange{From: &from, To: &to})
	require.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUserHistoryNewestFirst(t *testing.T) {
	store := memory.NewStore()
	for i := 0; i < 3; i++ {
		record(t, store, fmt.Sprintf("item-%d", i), "user-1", entities.ActionWarn, 0, base.Add(time.Duration(i)*time.Hour))
	}
	record(t, store, "ban", "user-1", entities.ActionBanUser, time.Hour, base.Add(-10*time.Hour))
	record(t, store, "other", "user-2", entities.ActionRemove, 0, base)

	_, err := store.CreateAppeal(context.Background(), "act-item-0", func(action entities.ActionRecord) (entities.Appeal, error) {
		return entities.NewAppeal("appeal-1", action, "user-1", "please", nil, base)
	})
	require.NoError(t, err)

	history, err := UserHistoryUseCase{Actions: store, Appeals: store, Clock: fixedClock(base.Add(5 * time.Hour))}.Execute(context.Background(), "user-1", 0)
	require.NoError(t, err)
	require.Len(t, history.Actions, 4)
	assert.Equal(t, "act-item-2", history.Actions[0].ActionID)
	assert.Equal(t, "act-ban", history.Actions[3].ActionID)
	require.Len(t, history.Appeals, 1)
	assert.Equal(t, 3, history.ActiveActions)

	_, err = UserHistoryUseCase{Actions: store, Appeals: store}.Execute(context.Background(), " ", 10)
	require.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAppealListAndFilters(t *testing.T) {
	store := memory.NewStore()
	ban := record(t, store, "ban", "user-1", entities.ActionBanUser, 0, base)
	warn := record(t, store, "warn", "user-2", entities.ActionWarn, 0, base.Add(-time.Hour))
	for _, action := range []entities.ActionRecord{warn, ban} {
		_, err := store.CreateAppeal(context.Background(), action.ActionID, func(action entities.ActionRecord) (entities.Appeal, error) {
			return entities.NewAppeal("appeal-"+action.ActionID, action, action.UserID, "please", nil, base)
		})
		require.NoError(t, err)
	}

	page, err := AppealQueryUseCase{Appeals: store}.List(context.Background(), ListAppealsQuery{Status: entities.AppealStatusPending})
	require.NoError(t, err)
	require.Len(t, page.Appeals, 2)
	assert.Equal(t, "appeal-act-ban", page.Appeals[0].AppealID)

	_, err = AppealQueryUseCase{Appeals: store}.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domainerrors.ErrAppealNotFound)

	require.NoError(t, store.CreateFilter(context.Background(), entities.Filter{Name: "b", Type: entities.FilterTypeWord, Pattern: "x", Category: entities.CategorySpam, IsActive: true}))
	require.NoError(t, store.CreateFilter(context.Background(), entities.Filter{Name: "a", Type: entities.FilterTypeWord, Pattern: "y", Category: entities.CategoryNSFW}))
	spam := entities.CategorySpam
	filters, err := FilterQueryUseCase{Filters: store}.List(context.Background(), entities.FilterQuery{Category: &spam})
	require.NoError(t, err)
	require.Len(t, filters, 1)
	assert.Equal(t, "b", filters[0].Name)
	all, err := FilterQueryUseCase{Filters: store}.List(context.Background(), entities.FilterQuery{})
	require.NoError(t, err)
	assert.Equal(t, "a", all[0].Name)
}

type staticAnalyzer struct {
	result entities.AnalysisResult
}

func (s staticAnalyzer) Analyze(context.Context, analysis.AnalyzeInput) entities.AnalysisResult {
	return s.result
}

func TestAnalyzeContentAddsRecommendation(t *testing.T) {
	result := entities.AnalysisResult{Scores: entities.Scores{HateSpeech: 0.8}, DetectedCategories: []entities.Category{entities.CategoryHateSpeech}, OverallConfidence: 0.8}
	out := AnalyzeContentUseCase{Analyzer: staticAnalyzer{result: result}}.Execute(context.Background(), analysis.AnalyzeInput{Text: "x"})
	assert.Equal(t, entities.RecommendRemove, out.Recommendation.Action)
	assert.Equal(t, result, out.Analysis)
}
