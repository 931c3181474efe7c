package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/aria"
	"github.com/aretw0/aria/internal/logging"
	"github.com/aretw0/aria/pkg/domain"
	"github.com/google/uuid"
)

// Factory builds the console of a new session.
type Factory func(ctx context.Context, sessionID string) (*aria.Console, error)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns the consoles of all live sessions.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	factory Factory
	logger  *slog.Logger
	limit   int

	mu       sync.Mutex            // Global lock for the maps
	locks    map[string]*lockEntry // Per-ID creation locks
	consoles map[string]*aria.Console
	closed   bool
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithLimit caps the number of live sessions. Zero means unlimited.
func WithLimit(n int) Option {
	return func(m *Manager) {
		m.limit = n
	}
}

// NewManager creates a Session Manager building consoles with factory.
func NewManager(factory Factory, opts ...Option) *Manager {
	m := &Manager{
		factory:  factory,
		locks:    make(map[string]*lockEntry),
		consoles: make(map[string]*aria.Console),
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewID returns a fresh random session ID.
func NewID() string {
	return uuid.NewString()
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()
	return fn(ctx)
}

// Get returns the console of an existing session.
func (m *Manager) Get(sessionID string) (*aria.Console, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.consoles[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	return c, nil
}

// GetOrCreate returns the console of sessionID, building it on first use.
// created reports whether this call built it.
func (m *Manager) GetOrCreate(ctx context.Context, sessionID string) (console *aria.Console, created bool, err error) {
	if sessionID == "" {
		return nil, false, fmt.Errorf("%w: empty session ID", domain.ErrSessionNotFound)
	}

	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if c, err := m.Get(sessionID); err == nil {
			console = c
			return nil
		}

		m.mu.Lock()
		closed := m.closed
		full := m.limit > 0 && len(m.consoles) >= m.limit
		m.mu.Unlock()
		if closed {
			return ErrClosed
		}
		if full {
			return fmt.Errorf("%w (%d)", ErrLimit, m.limit)
		}

		c, err := m.factory(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to create console for session %s: %w", sessionID, err)
		}

		m.mu.Lock()
		m.consoles[sessionID] = c
		m.mu.Unlock()

		m.logger.Debug("session created", "session_id", sessionID)
		console, created = c, true
		return nil
	})
	return console, created, err
}

// Delete closes and forgets a session. It stops a running pipeline.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		m.mu.Lock()
		c, ok := m.consoles[sessionID]
		delete(m.consoles, sessionID)
		m.mu.Unlock()

		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		c.Close()
		m.logger.Debug("session deleted", "session_id", sessionID)
		return nil
	})
}

// List returns the live session IDs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.consoles))
	for id := range m.consoles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.consoles)
}

// Close closes every console. Later GetOrCreate calls fail with ErrClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	consoles := m.consoles
	m.consoles = make(map[string]*aria.Console)
	m.mu.Unlock()

	for id, c := range consoles {
		c.Close()
		m.logger.Debug("session closed", "session_id", id)
	}
}
