package events

import (
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studium/internal/interfaces"
)

const subscriberBuffer = 64

// Service implements EventService with channel fan-out. Publish never
// blocks: a subscriber that falls behind drops events rather than
// stalling the chat loop.
type Service struct {
	mu          sync.RWMutex
	subscribers map[int]chan interfaces.Event
	nextID      int
	closed      bool
	logger      arbor.ILogger
}

// NewService creates a new event service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		subscribers: make(map[int]chan interfaces.Event),
		logger:      logger,
	}
}

var _ interfaces.EventService = (*Service)(nil)

// Publish sends an event to all subscribers without blocking
func (s *Service) Publish(event interfaces.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}

	for id, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			s.logger.Debug().
				Int("subscriber", id).
				Str("event_type", string(event.Type)).
				Msg("Subscriber buffer full, event dropped")
		}
	}
}

// Subscribe registers a channel to receive events. The returned function
// unsubscribes it and closes the channel.
func (s *Service) Subscribe() (<-chan interfaces.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan interfaces.Event, subscriberBuffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextID
	s.nextID++
	s.subscribers[id] = ch

	s.logger.Debug().
		Int("subscriber", id).
		Int("subscriber_count", len(s.subscribers)).
		Msg("Event subscriber registered")

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(sub)
		}
	}

	return ch, unsubscribe
}

// Close shuts down the event service and closes all subscriber channels
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}

	s.logger.Info().Msg("Event service closed")
	return nil
}
