package eventsadapter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"quad/contexts/moderation-safety/moderation-service/adapters/memory"
	"quad/contexts/moderation-safety/moderation-service/domain/entities"
	"quad/contexts/moderation-safety/moderation-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	topic    string
	envelope ports.EventEnvelope
}

func (c *capturingPublisher) Publish(_ context.Context, topic string, envelope ports.EventEnvelope) error {
	c.topic = topic
	c.envelope = envelope
	return nil
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func TestDispatchEnqueuePublishesEnvelope(t *testing.T) {
	publisher := &capturingPublisher{}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	dispatcher := EnqueuePublisher{Publisher: publisher, Clock: fixedClock(at), IDGenerator: memory.NewStore()}

	request := ports.EnqueueRequest{
		ContentKind:    entities.ContentKindPost,
		ContentID:      "post-1",
		UserID:         "user-1",
		Snapshot:       entities.ContentSnapshot{Text: "hello"},
		Recommendation: entities.Recommendation{Action: entities.RecommendFlag, Priority: 3, RequiresReview: true},
	}
	require.NoError(t, dispatcher.DispatchEnqueue(context.Background(), request))

	assert.Equal(t, ports.TopicEnqueueRequested, publisher.topic)
	assert.Equal(t, "post-1", publisher.envelope.PartitionKey)
	assert.Equal(t, at, publisher.envelope.OccurredAt)
	assert.NotEmpty(t, publisher.envelope.EventID)

	var decoded ports.EnqueueRequest
	require.NoError(t, json.Unmarshal(publisher.envelope.Data, &decoded))
	assert.Equal(t, request, decoded)
}

type enqueueSpy struct {
	requests []ports.EnqueueRequest
}

func (s *enqueueSpy) Execute(_ context.Context, request ports.EnqueueRequest) (entities.QueueItem, error) {
	s.requests = append(s.requests, request)
	return entities.QueueItem{ItemID: "item-1"}, nil
}

func TestDirectDispatchCallsEnqueue(t *testing.T) {
	spy := &enqueueSpy{}
	request := ports.EnqueueRequest{ContentKind: entities.ContentKindComment, ContentID: "c-1", UserID: "user-1"}
	require.NoError(t, Direct{Enqueue: spy}.DispatchEnqueue(context.Background(), request))
	require.Len(t, spy.requests, 1)
	assert.Equal(t, "c-1", spy.requests[0].ContentID)
}
