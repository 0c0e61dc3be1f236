package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestChannel() *gochannel.GoChannel {
	return gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 10,
			Persistent:          true,
		},
		NewLogger(log.WithField("test", "events")),
	)
}

var testRetry = RetryConfig{
	MaxRetries:      2,
	InitialInterval: time.Millisecond,
	Multiplier:      2,
}

type collector struct {
	mu     sync.Mutex
	events []Event
	calls  int
	fail   int
}

func (c *collector) handle(ctx context.Context, event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.calls <= c.fail {
		return errors.New("временная ошибка")
	}
	c.events = append(c.events, event)
	return nil
}

func (c *collector) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *collector) received() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]Event, len(c.events))
	copy(result, c.events)
	return result
}

func TestPublishSubscribe(t *testing.T) {
	t.Run(`delivery check`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pubSub := newTestChannel()
		defer pubSub.Close()

		c := &collector{}
		require.Nil(t, Subscribe(ctx, pubSub, "test", testRetry, c.handle))

		publisher := NewPublisher(pubSub)
		publisher.Publish(ctx, Event{
			Type:                NodeReached,
			SpaceID:             "space",
			WorkflowID:          "wf",
			CandidateWorkflowID: "cw",
			NodeID:              "n1",
			NodeType:            "interview",
		})

		require.Eventually(t, func() bool { return len(c.received()) == 1 }, 2*time.Second, 10*time.Millisecond)
		event := c.received()[0]
		require.Equal(t, NodeReached, event.Type)
		require.Equal(t, "cw", event.CandidateWorkflowID)
		require.False(t, event.OccurredAt.IsZero())
	})

	t.Run(`redelivery on error check`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pubSub := newTestChannel()
		defer pubSub.Close()

		c := &collector{fail: 1}
		require.Nil(t, Subscribe(ctx, pubSub, "test", testRetry, c.handle))
		NewPublisher(pubSub).Publish(ctx, Event{Type: NodeExecutionCompleted, SpaceID: "space", WorkflowID: "wf"})

		require.Eventually(t, func() bool { return len(c.received()) == 1 }, 2*time.Second, 10*time.Millisecond)
	})

	t.Run(`bounded retries check`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pubSub := newTestChannel()
		defer pubSub.Close()

		// первое событие не обрабатывается ни с одной попытки
		c := &collector{fail: int(testRetry.MaxRetries) + 1}
		require.Nil(t, Subscribe(ctx, pubSub, "test", testRetry, c.handle))
		publisher := NewPublisher(pubSub)
		publisher.Publish(ctx, Event{Type: NodeExecutionFailed, SpaceID: "space", WorkflowID: "wf", NodeID: "n1"})
		publisher.Publish(ctx, Event{Type: NodeExecutionCompleted, SpaceID: "space", WorkflowID: "wf", NodeID: "n2"})

		require.Eventually(t, func() bool { return len(c.received()) == 1 }, 2*time.Second, 10*time.Millisecond)
		require.Equal(t, "n2", c.received()[0].NodeID)
		time.Sleep(50 * time.Millisecond)
		require.Equal(t, int(testRetry.MaxRetries)+2, c.callCount())
	})

	t.Run(`panic in handler check`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pubSub := newTestChannel()
		defer pubSub.Close()

		calls := 0
		var mu sync.Mutex
		handler := func(ctx context.Context, event Event) error {
			mu.Lock()
			defer mu.Unlock()
			calls++
			panic("ошибка обработчика")
		}
		require.Nil(t, Subscribe(ctx, pubSub, "test", testRetry, handler))
		NewPublisher(pubSub).Publish(ctx, Event{Type: WorkflowActivated, SpaceID: "space", WorkflowID: "wf"})

		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return calls == int(testRetry.MaxRetries)+1
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run(`bad payload check`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pubSub := newTestChannel()
		defer pubSub.Close()

		c := &collector{}
		require.Nil(t, Subscribe(ctx, pubSub, "test", testRetry, c.handle))
		require.Nil(t, pubSub.Publish(Topic, message.NewMessage("1", []byte("not json"))))
		NewPublisher(pubSub).Publish(ctx, Event{Type: WorkflowActivated, SpaceID: "space", WorkflowID: "wf"})

		require.Eventually(t, func() bool { return len(c.received()) == 1 }, 2*time.Second, 10*time.Millisecond)
		require.Equal(t, WorkflowActivated, c.received()[0].Type)
	})

	t.Run(`nop publisher check`, func(t *testing.T) {
		require.NotPanics(t, func() {
			nopPublisher{}.Publish(context.Background(), Event{Type: WorkflowArchived})
		})
	})
}
