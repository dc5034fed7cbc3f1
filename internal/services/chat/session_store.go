package chat

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/studium/internal/interfaces"
)

// DefaultSessionID is used when a request does not name a session
const DefaultSessionID = "default"

type session struct {
	// turnMu serializes whole turns; it is held across LLM and tool
	// calls, so nothing that guards data may block on it.
	turnMu sync.Mutex

	mu         sync.Mutex // guards messages and lastActive
	messages   []interfaces.Message
	lastActive time.Time
}

func (s *session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

func (s *session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive.Before(cutoff)
}

// SessionStore keeps per-session conversation history in memory with
// idle-time eviction. Lock serializes turns within one session so a
// concurrent second message cannot interleave transcript mutation;
// different sessions proceed fully concurrently.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	logger   arbor.ILogger
}

// Compile-time interface assertion
var _ interfaces.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a session store with the given idle TTL
func NewSessionStore(ttl time.Duration, logger arbor.ILogger) *SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &SessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		logger:   logger,
	}
}

func (s *SessionStore) get(sessionID string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}
	sess = &session{lastActive: time.Now()}
	s.sessions[sessionID] = sess
	return sess
}

// History returns a copy of the session's messages in order
func (s *SessionStore) History(sessionID string) []interfaces.Message {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	history := make([]interfaces.Message, len(sess.messages))
	copy(history, sess.messages)
	return history
}

// Append adds messages to the session, creating it if needed
func (s *SessionStore) Append(sessionID string, messages ...interfaces.Message) {
	sess := s.get(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.messages = append(sess.messages, messages...)
	sess.lastActive = time.Now()
}

// Clear discards the session's history. The next turn on the same id
// starts from an empty transcript.
func (s *SessionStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Lock serializes turns within a session. The turn lock is distinct from
// the data lock, so History and Append stay usable while a turn is in
// flight. The returned function releases the lock and refreshes the
// session's idle clock.
func (s *SessionStore) Lock(sessionID string) func() {
	sess := s.get(sessionID)
	sess.turnMu.Lock()
	sess.touch()

	return func() {
		sess.touch()
		sess.turnMu.Unlock()
	}
}

// Sweep evicts sessions idle longer than the TTL and returns the number
// evicted. The idle check happens outside the store lock so a slow turn
// on one session never stalls the others, and a session whose turn lock
// is held is never evicted.
func (s *SessionStore) Sweep() int {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.RLock()
	candidates := make(map[string]*session, len(s.sessions))
	for id, sess := range s.sessions {
		candidates[id] = sess
	}
	s.mu.RUnlock()

	var idle []string
	for id, sess := range candidates {
		if sess.idleSince(cutoff) {
			idle = append(idle, id)
		}
	}

	evicted := 0
	s.mu.Lock()
	for _, id := range idle {
		sess, ok := s.sessions[id]
		if !ok || sess != candidates[id] {
			continue
		}
		// A turn that started since the idle check keeps the session
		if !sess.turnMu.TryLock() {
			continue
		}
		if sess.idleSince(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
		sess.turnMu.Unlock()
	}
	s.mu.Unlock()

	if evicted > 0 {
		s.logger.Info().Int("evicted", evicted).Msg("Swept idle chat sessions")
	}

	return evicted
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartSweeper schedules Sweep on the given cron expression and returns
// the running scheduler. Callers stop it on shutdown.
func (s *SessionStore) StartSweeper(schedule string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { s.Sweep() }); err != nil {
		return nil, err
	}
	c.Start()

	s.logger.Info().Str("schedule", schedule).Dur("ttl", s.ttl).Msg("Session sweeper started")
	return c, nil
}
