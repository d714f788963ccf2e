package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"quad/contexts/moderation-safety/moderation-service/adapters/memory"
	"quad/contexts/moderation-safety/moderation-service/application/analysis"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"
	"quad/contexts/moderation-safety/moderation-service/domain/services"
	"quad/contexts/moderation-safety/moderation-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fixedClock {
	return &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

type fixture struct {
	store    *memory.Store
	clock    *fixedClock
	analyzer *analysis.Analyzer
	cache    *analysis.RuleCache
}

func newFixture() fixture {
	store := memory.NewStore()
	clock := newClock()
	cache := analysis.NewRuleCache(store, time.Minute, clock, nil)
	return fixture{
		store:    store,
		clock:    clock,
		cache:    cache,
		analyzer: analysis.NewAnalyzer(cache, store, analysis.Options{Clock: clock}),
	}
}

func (f fixture) takeAction() TakeActionUseCase {
	return TakeActionUseCase{
		Queue:       f.store,
		Actions:     f.store,
		Idempotency: f.store,
		Clock:       f.clock,
		IDGenerator: f.store,
	}
}

func (f fixture) seedItem(t *testing.T, itemID string, userID string, result entities.AnalysisResult) entities.QueueItem {
	t.Helper()
	item, err := entities.NewQueueItem(itemID, entities.PostRef{PostID: "post-" + itemID}, userID,
		entities.ContentSnapshot{Text: "seeded"}, result,
		services.InitialPriority(result, services.Recommend(result)), f.clock.Now())
	require.NoError(t, err)
	require.NoError(t, f.store.CreateQueueItem(context.Background(), item))
	return item
}

func flaggedAnalysis(confidence float64) entities.AnalysisResult {
	result := entities.AnalysisResult{Scores: entities.Scores{Toxicity: confidence}}
	result.Finalize()
	return result
}

func TestSubmitForModerationAutoApprovesCleanContent(t *testing.T) {
	f := newFixture()
	uc := SubmitForModerationUseCase{Analyzer: f.analyzer, Queue: f.store, Clock: f.clock, IDGenerator: f.store}

	result, err := uc.Execute(context.Background(), SubmitForModerationCommand{
		Content:  entities.PostRef{PostID: "post-1"},
		UserID:   "user-1",
		Snapshot: entities.ContentSnapshot{Text: "Welcome to the orientation week, see you at the library!"},
	})
	require.NoError(t, err)
	assert.Equal(t, SubmissionApproved, result.Status)
	assert.Equal(t, entities.QueueStatusApproved, result.QueueItem.Status)
	assert.True(t, result.QueueItem.AutoModerated)

	stored, err := f.store.GetQueueItem(context.Background(), result.QueueItem.ItemID)
	require.NoError(t, err)
	assert.Equal(t, "system", stored.Decision.DecidedBy)
}

func TestSubmitForModerationQueuesHateSpeech(t *testing.T) {
	f := newFixture()
	uc := SubmitForModerationUseCase{Analyzer: f.analyzer, Queue: f.store, Clock: f.clock, IDGenerator: f.store}

	result, err := uc.Execute(context.Background(), SubmitForModerationCommand{
		Content:  entities.CommentRef{CommentID: "comment-1"},
		UserID:   "user-1",
		Snapshot: entities.ContentSnapshot{Text: "I will kill all of them"},
	})
	require.NoError(t, err)
	assert.Equal(t, SubmissionQueued, result.Status)
	assert.Equal(t, entities.QueueStatusPending, result.QueueItem.Status)
	assert.Equal(t, 1, result.QueueItem.Priority)
	assert.Equal(t, entities.Recommendation{Action: entities.RecommendRemove, Priority: 1, RequiresReview: true}, result.Recommendation)
}

type dispatcherSpy struct {
	mu       sync.Mutex
	requests []ports.EnqueueRequest
	err      error
}

func (d *dispatcherSpy) DispatchEnqueue(_ context.Context, request ports.EnqueueRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, request)
	return d.err
}

func TestScreenSubmissionVerdicts(t *testing.T) {
	f := newFixture()
	dispatcher := &dispatcherSpy{}
	uc := ScreenSubmissionUseCase{Analyzer: f.analyzer, Dispatcher: dispatcher}

	clean, err := uc.Execute(context.Background(), ScreenSubmissionCommand{
		Content:  entities.PostRef{PostID: "p1"},
		UserID:   "u1",
		Snapshot: entities.ContentSnapshot{Text: "study group at noon"},
	})
	require.NoError(t, err)
	assert.Equal(t, services.VerdictAllow, clean.Verdict)
	assert.Empty(t, dispatcher.requests)

	hateful, err := uc.Execute(context.Background(), ScreenSubmissionCommand{
		Content:  entities.PostRef{PostID: "p2"},
		UserID:   "u1",
		Snapshot: entities.ContentSnapshot{Text: "I will kill all of them"},
	})
	require.NoError(t, err)
	assert.Equal(t, services.VerdictAllowAndQueue, hateful.Verdict)
	require.Len(t, dispatcher.requests, 1)
	assert.Equal(t, "p2", dispatcher.requests[0].ContentID)
	assert.Equal(t, entities.ContentKindPost, dispatcher.requests[0].ContentKind)
}

func TestScreenSubmissionDispatchFailureKeepsVerdict(t *testing.T) {
	f := newFixture()
	uc := ScreenSubmissionUseCase{Analyzer: f.analyzer, Dispatcher: &dispatcherSpy{err: errors.New("broker down")}}

	result, err := uc.Execute(context.Background(), ScreenSubmissionCommand{
		Content:  entities.PostRef{PostID: "p2"},
		UserID:   "u1",
		Snapshot: entities.ContentSnapshot{Text: "I will kill all of them"},
	})
	require.NoError(t, err)
	assert.Equal(t, services.VerdictAllowAndQueue, result.Verdict)
}

func TestEnqueueAnalyzedCreatesPendingItem(t *testing.T) {
	f := newFixture()
	uc := EnqueueAnalyzedUseCase{Queue: f.store, Clock: f.clock, IDGenerator: f.store}
	result := flaggedAnalysis(0.75)

	item, err := uc.Execute(context.Background(), ports.EnqueueRequest{
		ContentKind:    entities.ContentKindMessage,
		ContentID:      "m-1",
		UserID:         "u-1",
		Analysis:       result,
		Recommendation: services.Recommend(result),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.QueueStatusPending, item.Status)
	assert.Equal(t, 2, item.Priority)
	assert.Equal(t, entities.MessageRef{MessageID: "m-1"}, item.Content)

	_, err = uc.Execute(context.Background(), ports.EnqueueRequest{ContentKind: "Story", ContentID: "x", UserID: "u-1"})
	require.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTakeActionRemoveWritesOnePenaltyAndEvent(t *testing.T) {
	f := newFixture()
	f.seedItem(t, "item-1", "user-7", flaggedAnalysis(0.8))

	result, err := f.takeAction().Execute(context.Background(), TakeActionCommand{
		ItemID:      "item-1",
		ModeratorID: "mod-1",
		Action:      entities.ActionRemove,
		Reason:      "harassment",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.QueueStatusRejected, result.QueueItem.Status)
	assert.Equal(t, entities.ActionRemove, result.QueueItem.Decision.Action)
	assert.True(t, result.Action.Appealable)
	assert.Equal(t, "user-7", result.Action.UserID)

	tasks := f.store.PenaltyTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "user-7", tasks[0].UserID)
	assert.Equal(t, entities.ActionRemove, tasks[0].ActionKind)
	assert.Equal(t, result.Action.ActionID, tasks[0].ActionID)

	pending, err := f.store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, ports.TopicDecisionRecorded, pending[0].EventType)
}

func TestTakeActionApproveHasNoPenalty(t *testing.T) {
	f := newFixture()
	f.seedItem(t, "item-1", "user-7", flaggedAnalysis(0.6))

	result, err := f.takeAction().Execute(context.Background(), TakeActionCommand{
		ItemID:      "item-1",
		ModeratorID: "mod-1",
		Action:      entities.ActionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.QueueStatusApproved, result.QueueItem.Status)
	assert.False(t, result.Action.Appealable)
	assert.Empty(t, f.store.PenaltyTasks())
}

func TestTakeActionTimeBoundSetsExpiry(t *testing.T) {
	f := newFixture()
	f.seedItem(t, "item-1", "user-7", flaggedAnalysis(0.9))

	result, err := f.takeAction().Execute(context.Background(), TakeActionCommand{
		ItemID:      "item-1",
		ModeratorID: "mod-1",
		Action:      entities.ActionBanUser,
		Duration:    48 * time.Hour,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Action.ExpiresAt)
	assert.Equal(t, f.clock.Now().Add(48*time.Hour), *result.Action.ExpiresAt)
	assert.Empty(t, f.store.PenaltyTasks())
}

func TestTakeActionDoubleSubmissionIsInvalidState(t *testing.T) {
	f := newFixture()
	f.seedItem(t, "item-1", "user-7", flaggedAnalysis(0.8))
	uc := f.takeAction()

	_, err := uc.Execute(context.Background(), TakeActionCommand{ItemID: "item-1", ModeratorID: "mod-1", Action: entities.ActionHide})
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), TakeActionCommand{ItemID: "item-1", ModeratorID: "mod-2", Action: entities.ActionRemove})
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)

	_, err = uc.Execute(context.Background(), TakeActionCommand{ItemID: "missing", ModeratorID: "mod-1", Action: entities.ActionHide})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.Len(t, f.store.PenaltyTasks(), 1)
}

func TestTakeActionConcurrentModeratorsProduceOneDecision(t *testing.T) {
	f := newFixture()
	f.seedItem(t, "item-1", "user-7", flaggedAnalysis(0.8))
	uc := f.takeAction()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), TakeActionCommand{
				ItemID:      "item-1",
				ModeratorID: fmt.Sprintf("mod-%d", i),
				Action:      entities.ActionRemove,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, domainerrors.ErrInvalidState)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, f.store.PenaltyTasks(), 1)
}

func TestTakeActionIdempotentReplayAndConflict(t *testing.T) {
	f := newFixture()
	f.seedItem(t, "item-1", "user-7", flaggedAnalysis(0.8))
	uc := f.takeAction()
	cmd := TakeActionCommand{
		IdempotencyKey: "key-1",
		ItemID:         "item-1",
		ModeratorID:    "mod-1",
		Action:         entities.ActionWarn,
		Reason:         "first warning",
	}

	first, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	second, err := uc.Execute(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Action.ActionID, second.Action.ActionID)
	assert.Len(t, f.store.PenaltyTasks(), 1)

	cmd.Reason = "different reason"
	_, err = uc.Execute(context.Background(), cmd)
	require.ErrorIs(t, err, domainerrors.ErrIdempotencyConflict)
}

func TestBulkActionReturnsOneResultPerItemInOrder(t *testing.T) {
	f := newFixture()
	ids := []string{"item-1", "item-2", "missing", "item-3", "item-2"}
	for _, id := range []string{"item-1", "item-2", "item-3"} {
		f.seedItem(t, id, "user-"+id, flaggedAnalysis(0.7))
	}
	uc := BulkActionUseCase{TakeAction: f.takeAction(), Concurrency: 3}

	result, err := uc.Execute(context.Background(), BulkActionCommand{
		ItemIDs:     ids,
		ModeratorID: "mod-1",
		Action:      entities.ActionHide,
		Reason:      "spam wave",
	})
	require.NoError(t, err)
	require.Len(t, result.Results, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, result.Results[i].ItemID)
	}
	assert.False(t, result.Results[2].Success)
	assert.NotEmpty(t, result.Results[2].Error)
	assert.Equal(t, 3, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, f.store.PenaltyTasks(), 3)
}

func TestBulkActionValidatesInput(t *testing.T) {
	f := newFixture()
	uc := BulkActionUseCase{TakeAction: f.takeAction()}

	_, err := uc.Execute(context.Background(), BulkActionCommand{ModeratorID: "mod-1", Action: entities.ActionHide})
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = uc.Execute(context.Background(), BulkActionCommand{ItemIDs: []string{"a"}, ModeratorID: "mod-1", Action: "nuke"})
	require.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestReportContentRaisesPriority(t *testing.T) {
	f := newFixture()
	f.seedItem(t, "item-1", "user-7", flaggedAnalysis(0.95))
	f.seedItem(t, "item-2", "user-8", flaggedAnalysis(0.2))
	uc := ReportContentUseCase{Queue: f.store, Clock: f.clock}

	var item entities.QueueItem
	var err error
	for i := 0; i < 12; i++ {
		item, err = uc.Execute(context.Background(), ReportContentCommand{
			ItemID:     "item-1",
			ReporterID: fmt.Sprintf("reporter-%d", i),
			Reason:     "abusive",
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 12, item.ReportCount)
	assert.Equal(t, 1, item.Priority)

	for i := 0; i < 5; i++ {
		item, err = uc.Execute(context.Background(), ReportContentCommand{
			ItemID:     "item-2",
			ReporterID: fmt.Sprintf("reporter-%d", i),
			Reason:     "spam",
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, item.Priority)

	_, err = uc.Execute(context.Background(), ReportContentCommand{ItemID: "item-2", ReporterID: "reporter-0", Reason: "again"})
	require.ErrorIs(t, err, domainerrors.ErrDuplicateReport)
}

func TestClaimAndEscalate(t *testing.T) {
	f := newFixture()
	f.seedItem(t, "item-1", "user-7", flaggedAnalysis(0.6))
	claim := ClaimItemUseCase{Queue: f.store, Clock: f.clock}
	escalate := EscalateItemUseCase{Queue: f.store, Clock: f.clock}

	item, err := claim.Execute(context.Background(), ClaimItemCommand{ItemID: "item-1", ModeratorID: "mod-1"})
	require.NoError(t, err)
	assert.Equal(t, entities.QueueStatusInReview, item.Status)

	_, err = claim.Execute(context.Background(), ClaimItemCommand{ItemID: "item-1", ModeratorID: "mod-2"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)

	item, err = escalate.Execute(context.Background(), EscalateItemCommand{
		ItemID:      "item-1",
		ModeratorID: "mod-1",
		EscalateTo:  "trust-safety-lead",
		Reason:      "credible threat",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.QueueStatusEscalated, item.Status)

	_, err = f.takeAction().Execute(context.Background(), TakeActionCommand{ItemID: "item-1", ModeratorID: "mod-1", Action: entities.ActionRemove})
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)
}

func (f fixture) decided(t *testing.T, itemID string, userID string, action entities.Action) entities.ActionRecord {
	t.Helper()
	f.seedItem(t, itemID, userID, flaggedAnalysis(0.8))
	result, err := f.takeAction().Execute(context.Background(), TakeActionCommand{ItemID: itemID, ModeratorID: "mod-1", Action: action})
	require.NoError(t, err)
	return result.Action
}

func TestSubmitAppealRules(t *testing.T) {
	f := newFixture()
	submit := SubmitAppealUseCase{Appeals: f.store, Clock: f.clock, IDGenerator: f.store}
	removed := f.decided(t, "item-1", "user-7", entities.ActionRemove)
	approved := f.decided(t, "item-2", "user-7", entities.ActionApprove)

	_, err := submit.Execute(context.Background(), SubmitAppealCommand{ActionID: removed.ActionID, UserID: "user-7"})
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = submit.Execute(context.Background(), SubmitAppealCommand{ActionID: "missing", UserID: "user-7", Reason: "context"})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = submit.Execute(context.Background(), SubmitAppealCommand{ActionID: removed.ActionID, UserID: "user-9", Reason: "context"})
	require.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = submit.Execute(context.Background(), SubmitAppealCommand{ActionID: approved.ActionID, UserID: "user-7", Reason: "context"})
	require.ErrorIs(t, err, domainerrors.ErrNotAppealable)

	appeal, err := submit.Execute(context.Background(), SubmitAppealCommand{
		ActionID: removed.ActionID,
		UserID:   "user-7",
		Reason:   "it was satire",
		Evidence: []string{"https://example.edu/context", " "},
	})
	require.NoError(t, err)
	assert.Equal(t, entities.AppealStatusPending, appeal.Status)
	assert.Equal(t, 3, appeal.Priority)
	assert.Equal(t, []string{"https://example.edu/context"}, appeal.Evidence)

	action, err := f.store.GetAction(context.Background(), removed.ActionID)
	require.NoError(t, err)
	assert.True(t, action.Appealed)
	assert.Equal(t, appeal.AppealID, action.AppealID)

	_, err = submit.Execute(context.Background(), SubmitAppealCommand{ActionID: removed.ActionID, UserID: "user-7", Reason: "again"})
	require.ErrorIs(t, err, domainerrors.ErrAlreadyAppealed)
}

func TestAppealReviewLifecycle(t *testing.T) {
	f := newFixture()
	submit := SubmitAppealUseCase{Appeals: f.store, Clock: f.clock, IDGenerator: f.store}
	review := AppealReviewUseCase{Appeals: f.store, Clock: f.clock, IDGenerator: f.store}
	removed := f.decided(t, "item-1", "user-7", entities.ActionRemove)

	appeal, err := submit.Execute(context.Background(), SubmitAppealCommand{ActionID: removed.ActionID, UserID: "user-7", Reason: "satire"})
	require.NoError(t, err)

	appeal, err = review.StartReview(context.Background(), StartReviewCommand{AppealID: appeal.AppealID, ReviewerID: "rev-1"})
	require.NoError(t, err)
	assert.Equal(t, entities.AppealStatusUnderReview, appeal.Status)

	_, message, err := review.AddMessage(context.Background(), AddAppealMessageCommand{AppealID: appeal.AppealID, AuthorID: "user-7", Body: "see the thread"})
	require.NoError(t, err)
	assert.Equal(t, entities.MessageRoleUser, message.Role)
	appeal, message, err = review.AddMessage(context.Background(), AddAppealMessageCommand{AppealID: appeal.AppealID, AuthorID: "rev-1", Body: "checking"})
	require.NoError(t, err)
	assert.Equal(t, entities.MessageRoleReviewer, message.Role)
	assert.Len(t, appeal.Messages, 2)

	_, err = review.Resolve(context.Background(), ResolveAppealCommand{AppealID: appeal.AppealID, ReviewerID: "rev-1", Outcome: entities.OutcomeModify, Reason: "lighter"})
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	appeal, err = review.Resolve(context.Background(), ResolveAppealCommand{
		AppealID:   appeal.AppealID,
		ReviewerID: "rev-1",
		Outcome:    entities.OutcomeModify,
		Reason:     "warning is enough",
		NewAction:  entities.ActionWarn,
	})
	require.NoError(t, err)
	assert.Equal(t, entities.AppealStatusApproved, appeal.Status)
	require.NotNil(t, appeal.Decision)
	assert.Equal(t, entities.ActionWarn, appeal.Decision.NewAction)

	pending, err := f.store.ListPendingOutbox(context.Background(), 10)
	require.NoError(t, err)
	topics := make([]string, 0, len(pending))
	for _, message := range pending {
		topics = append(topics, message.EventType)
	}
	assert.Contains(t, topics, ports.TopicAppealResolved)

	_, err = review.Escalate(context.Background(), EscalateAppealCommand{AppealID: appeal.AppealID, ReviewerID: "rev-1", EscalateTo: "lead"})
	require.ErrorIs(t, err, domainerrors.ErrAppealClosed)
	_, _, err = review.AddMessage(context.Background(), AddAppealMessageCommand{AppealID: appeal.AppealID, AuthorID: "user-7", Body: "thanks"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)
}

func TestReverseActionQueuesRestore(t *testing.T) {
	f := newFixture()
	removed := f.decided(t, "item-1", "user-7", entities.ActionRemove)
	uc := ReverseActionUseCase{Actions: f.store, Clock: f.clock, IDGenerator: f.store}

	f.clock.advance(time.Hour)
	record, err := uc.Execute(context.Background(), ReverseActionCommand{ActionID: removed.ActionID, ReviewerID: "rev-1", Reason: "appeal upheld"})
	require.NoError(t, err)
	assert.True(t, record.Reversed)
	assert.Equal(t, "rev-1", record.ReversedBy)
	require.NotNil(t, record.ReversedAt)
	assert.Equal(t, f.clock.Now(), *record.ReversedAt)

	kinds := map[entities.Action]int{}
	for _, task := range f.store.PenaltyTasks() {
		kinds[task.ActionKind]++
	}
	assert.Equal(t, map[entities.Action]int{entities.ActionRemove: 1, entities.ActionRestore: 1}, kinds)

	_, err = uc.Execute(context.Background(), ReverseActionCommand{ActionID: removed.ActionID, ReviewerID: "rev-1", Reason: "again"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidState)
}

type invalidatorSpy struct {
	calls int
}

func (s *invalidatorSpy) Invalidate() { s.calls++ }

type notifierSpy struct {
	names []string
	err   error
}

func (n *notifierSpy) NotifyFilterChanged(_ context.Context, name string) error {
	n.names = append(n.names, name)
	return n.err
}

func TestCreateFilterInvalidatesAndNotifies(t *testing.T) {
	f := newFixture()
	cache := &invalidatorSpy{}
	notifier := &notifierSpy{err: errors.New("redis down")}
	uc := CreateFilterUseCase{Filters: f.store, Cache: cache, Notifier: notifier, Clock: f.clock}

	filter, err := uc.Execute(context.Background(), CreateFilterCommand{
		Name:      "campus-scam",
		Type:      entities.FilterTypeWord,
		Pattern:   "blorple",
		Category:  entities.CategorySpam,
		Severity:  entities.SeverityHigh,
		IsActive:  true,
		CreatedBy: "mod-1",
	})
	require.NoError(t, err)
	assert.Equal(t, f.clock.Now(), filter.CreatedAt)
	assert.Equal(t, 1, cache.calls)
	assert.Equal(t, []string{"campus-scam"}, notifier.names)

	_, err = uc.Execute(context.Background(), CreateFilterCommand{
		Name: "campus-scam", Type: entities.FilterTypeWord, Pattern: "x", Category: entities.CategorySpam, CreatedBy: "mod-1",
	})
	require.ErrorIs(t, err, domainerrors.ErrConflict)

	_, err = uc.Execute(context.Background(), CreateFilterCommand{
		Name: "broken", Type: entities.FilterTypeRegex, Pattern: "(", Category: entities.CategorySpam, CreatedBy: "mod-1",
	})
	require.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestFilterChangesReachTheAnalyzer(t *testing.T) {
	f := newFixture()
	create := CreateFilterUseCase{Filters: f.store, Cache: f.cache, Clock: f.clock}
	update := UpdateFilterUseCase{Filters: f.store, Cache: f.cache, Clock: f.clock}
	input := analysis.AnalyzeInput{Text: "join the blorple giveaway", Kind: entities.ContentKindPost}

	before := f.analyzer.Analyze(context.Background(), input)
	assert.Zero(t, before.Scores.Spam)

	_, err := create.Execute(context.Background(), CreateFilterCommand{
		Name:      "campus-scam",
		Type:      entities.FilterTypeWord,
		Pattern:   "blorple",
		Category:  entities.CategorySpam,
		Severity:  entities.SeverityHigh,
		IsActive:  true,
		CreatedBy: "mod-1",
	})
	require.NoError(t, err)

	after := f.analyzer.Analyze(context.Background(), input)
	assert.InDelta(t, 0.8, after.Scores.Spam, 1e-9)
	assert.Contains(t, after.MatchedFilters, "campus-scam")

	stored, err := f.store.GetFilter(context.Background(), "campus-scam")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Stats.MatchCount)

	inactive := false
	_, err = update.Execute(context.Background(), UpdateFilterCommand{
		Name:      "campus-scam",
		Patch:     entities.FilterPatch{IsActive: &inactive},
		UpdatedBy: "mod-2",
	})
	require.NoError(t, err)

	disabled := f.analyzer.Analyze(context.Background(), input)
	assert.Zero(t, disabled.Scores.Spam)

	_, err = update.Execute(context.Background(), UpdateFilterCommand{Name: "missing", Patch: entities.FilterPatch{IsActive: &inactive}, UpdatedBy: "mod-2"})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
