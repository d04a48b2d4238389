package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type SessionManager struct {
	store    SessionStore
	api      StudioAPI
	notifier Notifier
	logger   *zap.Logger
	ttl      time.Duration
	now      func() time.Time

	mounted prometheus.Counter
	pruned  prometheus.Counter

	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

type SessionManagerOption func(*SessionManager)

func WithNotifier(n Notifier) SessionManagerOption {
	return func(m *SessionManager) { m.notifier = n }
}

func WithSessionCounters(mounted, pruned prometheus.Counter) SessionManagerOption {
	return func(m *SessionManager) {
		m.mounted = mounted
		m.pruned = pruned
	}
}

func NewSessionManager(store SessionStore, api StudioAPI, ttl time.Duration, logger *zap.Logger, opts ...SessionManagerOption) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &SessionManager{
		store:  store,
		api:    api,
		logger: logger,
		ttl:    ttl,
		now:    time.Now,
		locks:  make(map[uuid.UUID]*sessionLock),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do runs fn against the session's controller and saves the result.
// Operations on one session are serialised. When id is nil or no longer
// stored, a new session is mounted first; the returned id is the session
// that fn actually ran against.
func (m *SessionManager) Do(ctx context.Context, id uuid.UUID, fn func(*ViewController) error) (uuid.UUID, error) {
	if id != uuid.Nil {
		err := m.run(ctx, id, fn, false)
		if !errors.Is(err, ErrSessionNotFound) {
			return id, err
		}
		m.logger.Debug("session expired, mounting a new one", zap.String("session", id.String()))
	}
	id = uuid.New()
	return id, m.run(ctx, id, fn, true)
}

func (m *SessionManager) run(ctx context.Context, id uuid.UUID, fn func(*ViewController) error, mount bool) error {
	unlock := m.lock(id)
	defer unlock()

	var vc *ViewController
	if mount {
		vc = NewViewController(nil, m.api, m.notifier, m.logger.With(zap.String("session", id.String())))
		vc.Mount(ctx)
		if m.mounted != nil {
			m.mounted.Inc()
		}
	} else {
		state, err := m.store.Get(ctx, id)
		if err != nil {
			return err
		}
		vc = NewViewController(state, m.api, m.notifier, m.logger.With(zap.String("session", id.String())))
	}

	fnErr := fn(vc)
	if err := m.store.Save(ctx, id, vc.State()); err != nil {
		return err
	}
	return fnErr
}

func (m *SessionManager) lock(id uuid.UUID) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

// Prune drops sessions idle for longer than the session TTL.
func (m *SessionManager) Prune(ctx context.Context) (int64, error) {
	n, err := m.store.PruneIdle(ctx, m.now().Add(-m.ttl))
	if err != nil {
		return 0, err
	}
	if m.pruned != nil {
		m.pruned.Add(float64(n))
	}
	return n, nil
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}
