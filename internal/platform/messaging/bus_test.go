package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"quad/internal/shared/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToEverySubscriber(t *testing.T) {
	bus := NewBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 4)
	for _, group := range []string{"a", "b"} {
		group := group
		require.NoError(t, bus.Subscribe(ctx, "topic", group, func(_ context.Context, event events.Envelope) error {
			received <- group + ":" + event.EventID
			return nil
		}))
	}
	require.NoError(t, bus.Publish(ctx, "topic", events.Envelope{EventID: "evt-1"}))
	require.NoError(t, bus.Publish(ctx, "other", events.Envelope{EventID: "evt-2"}))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case value := <-received:
			got[value] = true
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}
	assert.Equal(t, map[string]bool{"a:evt-1": true, "b:evt-1": true}, got)
}

func TestBusKeepsConsumingAfterHandlerError(t *testing.T) {
	bus := NewBus(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan string, 2)
	require.NoError(t, bus.Subscribe(ctx, "topic", "g", func(_ context.Context, event events.Envelope) error {
		calls <- event.EventID
		return errors.New("boom")
	}))
	require.NoError(t, bus.Publish(ctx, "topic", events.Envelope{EventID: "evt-1"}))
	require.NoError(t, bus.Publish(ctx, "topic", events.Envelope{EventID: "evt-2"}))

	for _, want := range []string{"evt-1", "evt-2"} {
		select {
		case got := <-calls:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}
}

func TestBusReportsFullSubscriber(t *testing.T) {
	bus := NewBus(nil)
	bus.PublishWait = 10 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	release := make(chan struct{})
	var handled atomic.Int32
	require.NoError(t, bus.Subscribe(ctx, "topic", "g", func(_ context.Context, event events.Envelope) error {
		if event.EventID == "evt-0" {
			close(started)
			<-release
		}
		handled.Add(1)
		return nil
	}))

	require.NoError(t, bus.Publish(ctx, "topic", events.Envelope{EventID: "evt-0"}))
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for handler")
	}
	for i := 1; i <= subscriberBuffer; i++ {
		require.NoError(t, bus.Publish(ctx, "topic", events.Envelope{EventID: fmt.Sprintf("evt-%d", i)}))
	}

	err := bus.Publish(ctx, "topic", events.Envelope{EventID: "evt-overflow"})
	require.ErrorIs(t, err, ErrSubscriberBusy)

	close(release)
	assert.Eventually(t, func() bool {
		return handled.Load() == subscriberBuffer+1
	}, time.Second, 5*time.Millisecond)
}

func TestNewKafkaRequiresBrokers(t *testing.T) {
	_, err := NewKafka(nil, nil)
	require.Error(t, err)

	broker, err := NewKafka([]string{"localhost:9092"}, nil)
	require.NoError(t, err)
	require.NoError(t, broker.Close())
}
