package csvimport

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ImportState represents the current state of an import session
type ImportState string

const (
	StateCreated   ImportState = "created"
	StateRunning   ImportState = "running"
	StateCompleted ImportState = "completed"
	StateAborted   ImportState = "aborted"
	StateRejected  ImportState = "rejected"
)

// ImportSession tracks one batch import. The abort flag is cooperative:
// the worker checks it between rows, and rows already applied stay applied.
type ImportSession struct {
	ID          uuid.UUID   `json:"id"`
	StoreID     uuid.UUID   `json:"store_id"`
	UserID      uuid.UUID   `json:"user_id"`
	FileName    string      `json:"file_name"`
	State       ImportState `json:"state"`
	Inserted    int         `json:"inserted"`
	Skipped     int         `json:"skipped"`
	Rejected    int         `json:"rejected"`
	Errors      []RowError  `json:"errors,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`

	abort atomic.Bool
	mu    sync.Mutex
}

// NewImportSession creates a new import session
func NewImportSession(storeID, userID uuid.UUID, fileName string) *ImportSession {
	now := time.Now()
	return &ImportSession{
		ID:        uuid.New(),
		StoreID:   storeID,
		UserID:    userID,
		FileName:  fileName,
		State:     StateCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Abort requests cooperative cancellation
func (s *ImportSession) Abort() {
	s.abort.Store(true)
}

// Aborted reports whether cancellation was requested
func (s *ImportSession) Aborted() bool {
	return s.abort.Load()
}

// UpdateState updates the session state
func (s *ImportSession) UpdateState(state ImportState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State = state
	s.UpdatedAt = time.Now()
	switch state {
	case StateCompleted, StateAborted, StateRejected:
		now := time.Now()
		s.CompletedAt = &now
	}
}

// SessionStore stores import sessions so they can be polled and aborted.
type SessionStore interface {
	Save(session *ImportSession) error
	Get(id uuid.UUID) (*ImportSession, error)
	Delete(id uuid.UUID) error
}

// InMemorySessionStore is an in-memory SessionStore with TTL eviction.
type InMemorySessionStore struct {
	sessions map[uuid.UUID]*ImportSession
	mu       sync.RWMutex
	ttl      time.Duration
	stopCh   chan struct{}
}

// NewInMemorySessionStore creates a new in-memory session store
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	store := &InMemorySessionStore{
		sessions: make(map[uuid.UUID]*ImportSession),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}
	go store.cleanupLoop()
	return store
}

func (s *InMemorySessionStore) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemorySessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if time.Since(session.CreatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// Stop stops the background cleanup goroutine
func (s *InMemorySessionStore) Stop() {
	close(s.stopCh)
}

// Save saves a session
func (s *InMemorySessionStore) Save(session *ImportSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return nil
}

// Get retrieves a session by ID; expired sessions are treated as absent
func (s *InMemorySessionStore) Get(id uuid.UUID) (*ImportSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok || time.Since(session.CreatedAt) > s.ttl {
		return nil, nil
	}
	return session, nil
}

// Delete deletes a session by ID
func (s *InMemorySessionStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
