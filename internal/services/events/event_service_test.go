package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studium/internal/interfaces"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	defer svc.Close()

	ch1, cancel1 := svc.Subscribe()
	defer cancel1()
	ch2, cancel2 := svc.Subscribe()
	defer cancel2()

	svc.Publish(interfaces.Event{Type: interfaces.EventToolCall, SessionID: "s1"})

	for _, ch := range []<-chan interfaces.Event{ch1, ch2} {
		select {
		case event := <-ch:
			assert.Equal(t, interfaces.EventToolCall, event.Type)
			assert.Equal(t, "s1", event.SessionID)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	defer svc.Close()

	// Must not panic or block
	svc.Publish(interfaces.Event{Type: interfaces.EventChatStarted})
}

func TestPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	defer svc.Close()

	_, cancel := svc.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			svc.Publish(interfaces.Event{Type: interfaces.EventToolResult})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	svc := NewService(arbor.NewLogger())
	defer svc.Close()

	ch, cancel := svc.Subscribe()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after unsubscribe must not panic
	svc.Publish(interfaces.Event{Type: interfaces.EventChatCompleted})

	// Unsubscribing twice is a no-op
	cancel()
}

func TestCloseShutsDownSubscribers(t *testing.T) {
	svc := NewService(arbor.NewLogger())

	ch, cancel := svc.Subscribe()
	defer cancel()

	require.NoError(t, svc.Close())

	_, open := <-ch
	assert.False(t, open)

	// Idempotent
	require.NoError(t, svc.Close())

	// Operations after close stay safe
	svc.Publish(interfaces.Event{Type: interfaces.EventChatStarted})
	closedCh, cancel2 := svc.Subscribe()
	defer cancel2()
	_, open = <-closedCh
	assert.False(t, open)
}
