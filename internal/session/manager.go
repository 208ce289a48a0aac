package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/postbrowser/internal/events"
)

// Bus is both sides of the favourite event bus.
type Bus interface {
	events.Publisher
	Subscriber
}

// Manager owns every active session. Sessions are independent of each other;
// the manager lock only guards the id map.
type Manager struct {
	sites SiteResolver
	store FavouritesStore
	bus   Bus

	newID       func() string
	now         func() time.Time
	sessionOpts []Option

	mu       sync.RWMutex
	sessions map[string]*Session
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithIDGenerator replaces uuid-based session ids.
func WithIDGenerator(newID func() string) ManagerOption {
	return func(m *Manager) { m.newID = newID }
}

// WithManagerClock replaces the time source used for idle tracking.
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
		m.sessionOpts = append(m.sessionOpts, WithClock(now))
	}
}

// WithSessionOptions applies opts to every session the manager creates.
func WithSessionOptions(opts ...Option) ManagerOption {
	return func(m *Manager) { m.sessionOpts = append(m.sessionOpts, opts...) }
}

func NewManager(sites SiteResolver, store FavouritesStore, bus Bus, opts ...ManagerOption) *Manager {
	m := &Manager{
		sites:    sites,
		store:    store,
		bus:      bus,
		newID:    uuid.NewString,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateQuery opens a session over a tag query on one site. The session is
// only registered when its first render succeeds.
func (m *Manager) CreateQuery(ctx context.Context, ownerID, siteName, tags string) (*Session, *Render, error) {
	client, err := m.sites.Lookup(siteName)
	if err != nil {
		return nil, nil, err
	}
	return m.start(ctx, ownerID, NewQuerySource(client, tags))
}

// CreateFavourites opens a session over the owner's favourites.
func (m *Manager) CreateFavourites(ctx context.Context, ownerID string) (*Session, *Render, error) {
	src, err := NewFavouritesSource(ctx, ownerID, m.store, m.sites, m.bus)
	if err != nil {
		return nil, nil, err
	}
	sess, render, err := m.start(ctx, ownerID, src)
	if err != nil {
		src.Close()
		return nil, nil, err
	}
	return sess, render, nil
}

func (m *Manager) start(ctx context.Context, ownerID string, src PostSource) (*Session, *Render, error) {
	sess := New(m.newID(), ownerID, src, m.store, m.bus, m.sessionOpts...)
	render, err := sess.Start(ctx)
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	m.sessions[sess.ID()] = sess
	m.mu.Unlock()

	log.Printf("[SESSION] %s: created for %s (%s)", sess.ID(), ownerID, src.Title())
	return sess, render, nil
}

// Get returns the active session with id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Handle routes an action to the session and forgets it once deleted.
func (m *Manager) Handle(ctx context.Context, id, actingUser, action string) (Outcome, error) {
	sess, err := m.Get(id)
	if err != nil {
		return Outcome{}, err
	}

	outcome := sess.Handle(ctx, actingUser, action)
	if outcome.Deleted {
		m.remove(id)
	}
	return outcome, nil
}

// Current re-renders a session's current page.
func (m *Manager) Current(ctx context.Context, id string) (Outcome, error) {
	sess, err := m.Get(id)
	if err != nil {
		return Outcome{}, err
	}
	return sess.Current(ctx), nil
}

// ReapIdle deletes sessions idle for longer than ttl and returns how many
// were removed. This stands in for the host platform expiring old messages.
func (m *Manager) ReapIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-ttl)

	m.mu.RLock()
	var stale []*Session
	for _, sess := range m.sessions {
		if sess.LastActive().Before(cutoff) {
			stale = append(stale, sess)
		}
	}
	m.mu.RUnlock()

	for _, sess := range stale {
		sess.expire()
		m.remove(sess.ID())
	}
	return len(stale)
}

// Len returns the number of active sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close expires every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.expire()
	}
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
