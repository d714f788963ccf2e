package entities

import (
	"testing"
	"time"

	domainerrors "quad/contexts/moderation-safety/moderation-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newPendingItem(t *testing.T) QueueItem {
	t.Helper()
	item, err := NewQueueItem("item-1", CommentRef{CommentID: "c-1"}, "user-1", ContentSnapshot{Text: "x"}, AnalysisResult{}, 12, testNow)
	require.NoError(t, err)
	return item
}

func TestNewQueueItemClampsPriority(t *testing.T) {
	item := newPendingItem(t)
	assert.Equal(t, QueueStatusPending, item.Status)
	assert.Equal(t, 10, item.Priority)

	_, err := NewQueueItem("item-2", nil, "user-1", ContentSnapshot{}, AnalysisResult{}, 3, testNow)
	require.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestQueueItemClaimTransitions(t *testing.T) {
	item := newPendingItem(t)

	require.NoError(t, item.Claim("mod-1", testNow))
	assert.Equal(t, QueueStatusInReview, item.Status)
	assert.Equal(t, "mod-1", item.AssignedTo)

	require.NoError(t, item.Claim("mod-1", testNow), "re-claim by the owner is a no-op")
	require.ErrorIs(t, item.Claim("mod-2", testNow), domainerrors.ErrItemAssigned)
	require.ErrorIs(t, item.Claim("", testNow), domainerrors.ErrValidation)
}

func TestQueueItemDecideIsTerminal(t *testing.T) {
	item := newPendingItem(t)
	require.NoError(t, item.Claim("mod-1", testNow))

	require.ErrorIs(t, item.Decide(ActionRemove, "mod-2", "r", "", testNow), domainerrors.ErrItemAssigned)
	require.NoError(t, item.Decide(ActionRemove, "mod-1", " threat ", "", testNow))
	assert.Equal(t, QueueStatusRejected, item.Status)
	require.NotNil(t, item.Decision)
	assert.Equal(t, "threat", item.Decision.Reason)

	require.ErrorIs(t, item.Decide(ActionApprove, "mod-1", "", "", testNow), domainerrors.ErrItemDecided)
	require.ErrorIs(t, item.Claim("mod-1", testNow), domainerrors.ErrItemDecided)
	require.ErrorIs(t, item.Escalate("mod-1", "legal", "why", testNow), domainerrors.ErrItemDecided)
}

func TestQueueItemApproveAndAutoApprove(t *testing.T) {
	item := newPendingItem(t)
	require.NoError(t, item.Decide(ActionApprove, "mod-1", "fine", "", testNow))
	assert.Equal(t, QueueStatusApproved, item.Status)

	auto := newPendingItem(t)
	auto.AutoApprove(testNow)
	assert.Equal(t, QueueStatusApproved, auto.Status)
	assert.True(t, auto.AutoModerated)
	assert.Equal(t, "system", auto.Decision.DecidedBy)
}

func TestQueueItemEscalateRequiresReason(t *testing.T) {
	item := newPendingItem(t)
	require.ErrorIs(t, item.Escalate("mod-1", "legal", " ", testNow), domainerrors.ErrValidation)
	require.NoError(t, item.Escalate("mod-1", "legal", "court order", testNow))
	assert.Equal(t, QueueStatusEscalated, item.Status)
	assert.Equal(t, "legal", item.EscalatedTo)
	assert.True(t, item.Status.Terminal())
}

func TestQueueItemReports(t *testing.T) {
	item := newPendingItem(t)
	require.NoError(t, item.AddReport(Report{ReporterID: "r-1", Reason: "spam", ReportedAt: testNow}))
	require.ErrorIs(t, item.AddReport(Report{ReporterID: "r-1", Reason: "again", ReportedAt: testNow}), domainerrors.ErrDuplicateReport)
	require.ErrorIs(t, item.AddReport(Report{ReporterID: "r-2"}), domainerrors.ErrValidation)
	assert.Equal(t, 1, item.ReportCount)
}

func TestActionRecordExpiryAndReversal(t *testing.T) {
	item := newPendingItem(t)

	ban, err := NewActionRecord("a-1", item, ActionBanUser, "mod-1", "raid", "", time.Hour, testNow)
	require.NoError(t, err)
	require.NotNil(t, ban.ExpiresAt)
	assert.True(t, ban.Active(testNow))
	require.ErrorIs(t, ban.Expire(testNow), domainerrors.ErrInvalidState)
	require.NoError(t, ban.Expire(testNow.Add(time.Hour)))
	assert.False(t, ban.Active(testNow.Add(2*time.Hour)))

	remove, err := NewActionRecord("a-2", item, ActionRemove, "mod-1", "threat", "", time.Hour, testNow)
	require.NoError(t, err)
	assert.Nil(t, remove.ExpiresAt, "only time-bound actions expire")
	assert.True(t, remove.Appealable)

	require.ErrorIs(t, remove.Reverse("rev-1", "", testNow), domainerrors.ErrValidation)
	require.NoError(t, remove.Reverse("rev-1", "mistake", testNow))
	require.ErrorIs(t, remove.Reverse("rev-1", "again", testNow), domainerrors.ErrAlreadyReversed)

	_, err = NewActionRecord("a-3", item, ActionWarn, "mod-1", "", "", -time.Second, testNow)
	require.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAppealLifecycle(t *testing.T) {
	item := newPendingItem(t)
	action, err := NewActionRecord("a-1", item, ActionHide, "mod-1", "nsfw", "", 0, testNow)
	require.NoError(t, err)

	_, err = NewAppeal("ap-1", action, "user-2", "not mine", nil, testNow)
	require.ErrorIs(t, err, domainerrors.ErrForbidden)

	appeal, err := NewAppeal("ap-1", action, "user-1", "artistic", []string{" ", "link"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, AppealStatusPending, appeal.Status)
	assert.Equal(t, 5, appeal.Priority)
	assert.Equal(t, []string{"link"}, appeal.Evidence)

	require.NoError(t, appeal.StartReview("rev-1", testNow))
	require.NoError(t, appeal.StartReview("rev-1", testNow))
	require.ErrorIs(t, appeal.StartReview("rev-2", testNow), domainerrors.ErrInvalidState)

	message, err := appeal.AddMessage("user-1", "here is context", testNow)
	require.NoError(t, err)
	assert.Equal(t, MessageRoleUser, message.Role)

	require.ErrorIs(t, appeal.Resolve("rev-1", OutcomeModify, "softer", "bogus", testNow), domainerrors.ErrValidation)
	require.NoError(t, appeal.Resolve("rev-1", OutcomeModify, "softer", ActionWarn, testNow))
	assert.Equal(t, AppealStatusApproved, appeal.Status)
	assert.Equal(t, ActionWarn, appeal.Decision.NewAction)

	require.ErrorIs(t, appeal.Resolve("rev-1", OutcomeUphold, "late", "", testNow), domainerrors.ErrAppealClosed)
	_, err = appeal.AddMessage("user-1", "hello?", testNow)
	require.ErrorIs(t, err, domainerrors.ErrAppealClosed)
}

func TestAppealEscalation(t *testing.T) {
	item := newPendingItem(t)
	action, err := NewActionRecord("a-1", item, ActionBanUser, "mod-1", "raid", "", time.Hour, testNow)
	require.NoError(t, err)
	appeal, err := NewAppeal("ap-1", action, "user-1", "wrong account", nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, appeal.Priority)

	require.ErrorIs(t, appeal.Escalate("rev-1", "", "x", testNow), domainerrors.ErrValidation)
	require.NoError(t, appeal.Escalate("rev-1", "trust-and-safety", "needs legal", testNow))
	assert.Equal(t, AppealStatusEscalated, appeal.Status)
	require.Len(t, appeal.Messages, 1)
	assert.Equal(t, MessageRoleReviewer, appeal.Messages[0].Role)
}

func TestNonAppealableActions(t *testing.T) {
	item := newPendingItem(t)
	approve, err := NewActionRecord("a-1", item, ActionApprove, "mod-1", "", "", 0, testNow)
	require.NoError(t, err)
	require.ErrorIs(t, approve.CanAppeal(), domainerrors.ErrNotAppealable)

	warn, err := NewActionRecord("a-2", item, ActionWarn, "mod-1", "", "", 0, testNow)
	require.NoError(t, err)
	require.NoError(t, warn.LinkAppeal("ap-1"))
	require.ErrorIs(t, warn.LinkAppeal("ap-2"), domainerrors.ErrAlreadyAppealed)
}

func TestParseContentRef(t *testing.T) {
	ref, err := ParseContentRef(" Post ", "p-1")
	require.NoError(t, err)
	assert.Equal(t, PostRef{PostID: "p-1"}, ref)

	_, err = ParseContentRef("story", "p-1")
	require.ErrorIs(t, err, domainerrors.ErrValidation)
	_, err = ParseContentRef("post", " ")
	require.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestWordFilterNeedsWordCharacters(t *testing.T) {
	filter := Filter{Name: "marks", Type: FilterTypeWord, Pattern: "?!", Category: CategorySpam}
	require.ErrorIs(t, filter.Validate(), domainerrors.ErrValidation)

	filter.Pattern = "o'brien"
	require.NoError(t, filter.Validate())
}
