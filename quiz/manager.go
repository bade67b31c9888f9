package quiz

import (
	"log"
	"sync"
)

// Manager keeps one session per user.
type Manager struct {
	mu        sync.RWMutex
	catalog   *Catalog
	rnd       Rand
	observers []Observer
	sessions  map[int64]*Session
}

// NewManager creates a manager whose sessions share the catalog. Every new
// session is subscribed to the given observers. When rnd is nil each session
// gets its own time-seeded source.
func NewManager(catalog *Catalog, rnd Rand, observers ...Observer) (*Manager, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, ErrEmptyCatalog
	}
	if rnd != nil {
		rnd = &lockedRand{rnd: rnd}
	}
	return &Manager{
		catalog:   catalog,
		rnd:       rnd,
		observers: observers,
		sessions:  make(map[int64]*Session),
	}, nil
}

func (m *Manager) Catalog() *Catalog { return m.catalog }

// Get returns the user's session or ErrNoSession
func (m *Manager) Get(userID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// GetOrStart returns the user's session, starting one if needed.
// The bool reports whether a new session was started.
func (m *Manager) GetOrStart(userID int64) (*Session, bool, error) {
	if s, err := m.Get(userID); err == nil {
		return s, false, nil
	}

	// Observers run during Start, so the registry lock is not held here.
	s, err := m.start(userID)
	if err != nil {
		return nil, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[userID]; ok {
		log.Printf("Discarding session %s for user %d, another start won", s.ID(), userID)
		return existing, false, nil
	}
	m.sessions[userID] = s
	return s, true, nil
}

// Restart replaces the user's session with a fresh one
func (m *Manager) Restart(userID int64) (*Session, error) {
	s, err := m.start(userID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = s
	return s, nil
}

// Drop forgets the user's session
func (m *Manager) Drop(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Len returns the number of active sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// start builds a session for userID without registering it
func (m *Manager) start(userID int64) (*Session, error) {
	opts := []Option{WithUserID(userID)}
	if m.rnd != nil {
		opts = append(opts, WithRand(m.rnd))
	}
	for _, o := range m.observers {
		opts = append(opts, WithObserver(o))
	}

	s, err := Start(m.catalog, opts...)
	if err != nil {
		return nil, err
	}
	log.Printf("Started session %s for user %d (%d questions)", s.ID(), userID, m.catalog.Len())
	return s, nil
}
