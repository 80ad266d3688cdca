package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"cgmis/internal/identity"
	"cgmis/internal/localstore"
)

const (
	DefaultKey = "auth_session"
	DefaultTTL = 24 * time.Hour
)

// ErrNotWatchable is returned by Watch when the storage has no change feed.
var ErrNotWatchable = errors.New("session: storage does not report changes")

// Manager owns the single current session of one local storage slot.
// A Manager caches the session it last saw; call Invalidate when another
// process may have changed the slot.
type Manager struct {
	storage localstore.Storage
	authn   Authenticator
	key     string
	log     *zap.Logger

	mu      sync.Mutex
	current *Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithKey sets the storage key holding the session.
func WithKey(key string) Option { return func(m *Manager) { m.key = key } }

// WithTTL sets how long a new session lives.
func WithTTL(ttl time.Duration) Option { return func(m *Manager) { m.authn.TTL = ttl } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.authn.Now = now } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(m *Manager) { m.log = l } }

// WithUnknownEmails controls whether sign-in accepts emails missing from the
// registry by synthesizing a temporary identity.
func WithUnknownEmails(allow bool) Option { return func(m *Manager) { m.authn.AllowUnknown = allow } }

// NewManager creates a session manager over storage.
func NewManager(storage localstore.Storage, registry *identity.Registry, tokens TokenIssuer, opts ...Option) *Manager {
	m := &Manager{
		storage: storage,
		authn: Authenticator{
			Registry:     registry,
			Tokens:       tokens,
			TTL:          DefaultTTL,
			Now:          time.Now,
			AllowUnknown: true,
		},
		key: DefaultKey,
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.authn.Log = m.log
	return m
}

// Key returns the storage key holding the session.
func (m *Manager) Key() string { return m.key }

// SignIn starts a new session for email, replacing any previous one.
// The password is only checked for presence.
func (m *Manager) SignIn(ctx context.Context, email, password string) (Session, error) {
	s, err := m.authn.Authenticate(email, password)
	if err != nil {
		return Session{}, err
	}
	raw, err := Encode(s)
	if err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.storage.Set(ctx, m.key, raw); err != nil {
		return Session{}, fmt.Errorf("session: persist: %w", err)
	}
	m.current = &s
	m.log.Info("signed in", zap.String("user_id", s.User.ID), zap.Time("expires_at", s.ExpiresAt))
	return s, nil
}

// SignOut forgets the current session. It never fails; storage errors are logged.
func (m *Manager) SignOut(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = nil
	if err := m.storage.Remove(ctx, m.key); err != nil {
		m.log.Warn("failed to remove persisted session", zap.Error(err))
	}
	signOuts.Inc()
	m.log.Info("signed out")
}

// GetSession returns the live session, or nil when nobody is signed in.
// Expired or corrupt persisted sessions are removed as a side effect.
func (m *Manager) GetSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.authn.now()
	if m.current != nil {
		if m.current.Valid(now) {
			s := *m.current
			return &s, nil
		}
		m.current = nil
		m.purge(ctx, "expired")
		return nil, nil
	}

	raw, ok, err := m.storage.Get(ctx, m.key)
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	if !ok {
		return nil, nil
	}

	s, err := Decode(raw)
	if err != nil {
		m.log.Warn("discarding persisted session", zap.Error(err))
		m.purge(ctx, "corrupt")
		return nil, nil
	}
	if !s.Valid(now) {
		m.purge(ctx, "expired")
		return nil, nil
	}

	m.current = &s
	out := s
	return &out, nil
}

// purge removes the persisted session. Callers hold m.mu.
func (m *Manager) purge(ctx context.Context, reason string) {
	purged.WithLabelValues(reason).Inc()
	if err := m.storage.Remove(ctx, m.key); err != nil {
		m.log.Warn("failed to purge session", zap.String("reason", reason), zap.Error(err))
	}
}

// GetCurrentUser returns the signed-in identity, or nil.
func (m *Manager) GetCurrentUser(ctx context.Context) (*identity.Identity, error) {
	s, err := m.GetSession(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	u := s.User
	return &u, nil
}

// IsAuthenticated reports whether a live session exists. Storage errors count as signed out.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	s, err := m.GetSession(ctx)
	if err != nil {
		m.log.Warn("session lookup failed", zap.Error(err))
		return false
	}
	return s != nil
}

// Register adds a new identity to the registry. It does not sign in.
func (m *Manager) Register(_ context.Context, email, password, name string) (identity.Identity, error) {
	return m.authn.Register(email, password, name)
}

// Invalidate drops the cached session so the next read goes to storage.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// Watch reports the current user every time another process changes the
// session slot, until ctx ends. fn receives nil after a sign-out.
// Notifications are best-effort: bursts may collapse and order across
// writers is not guaranteed.
func (m *Manager) Watch(ctx context.Context, fn func(*identity.Identity)) error {
	w, ok := m.storage.(localstore.Watchable)
	if !ok {
		return ErrNotWatchable
	}
	changes, err := w.Changes(ctx)
	if err != nil {
		return fmt.Errorf("session: watch: %w", err)
	}
	for c := range changes {
		if c.Key != m.key {
			continue
		}
		m.Invalidate()
		u, err := m.GetCurrentUser(ctx)
		if err != nil {
			m.log.Warn("reload after storage change failed", zap.Error(err))
			continue
		}
		fn(u)
	}
	return nil
}
