package desk

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/artem13815/careerdesk/pkg/storage"
)

// ErrSessionNotFound is returned for unknown or evicted session ids.
var ErrSessionNotFound = errors.New("desk session not found")

// Registry owns the live desks, one per page view.
type Registry struct {
	extractor  Extractor
	session    storage.Backend
	persistent storage.Backend
	log        *zap.Logger
	ttl        time.Duration
	now        func() time.Time
	opts       []Option

	mu    sync.Mutex
	desks map[string]*Desk
}

// RegistryConfig wires a Registry. Persistent may be nil; TTL <= 0 disables eviction.
type RegistryConfig struct {
	Extractor  Extractor
	Session    storage.Backend
	Persistent storage.Backend
	Logger     *zap.Logger
	TTL        time.Duration
	Clock      func() time.Time
	Options    []Option
}

func NewRegistry(cfg RegistryConfig) *Registry {
	r := &Registry{
		extractor:  cfg.Extractor,
		session:    cfg.Session,
		persistent: cfg.Persistent,
		log:        cfg.Logger,
		ttl:        cfg.TTL,
		now:        cfg.Clock,
		opts:       cfg.Options,
		desks:      make(map[string]*Desk),
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Open creates the desk for a new page view and initializes it. The session
// scope is keyed by sessionID, the persistent scope by clientID.
func (r *Registry) Open(ctx context.Context, sessionID, clientID string) (*Desk, State, error) {
	deps := Deps{
		Extractor: r.extractor,
		Session:   r.session.Scope(sessionID),
		Logger:    r.log,
		Clock:     r.now,
	}
	if r.persistent != nil {
		deps.Persistent = r.persistent.Scope(clientID)
	}
	d := New(sessionID, deps, r.opts...)
	st, err := d.Initialize(ctx)

	r.mu.Lock()
	r.desks[sessionID] = d
	r.mu.Unlock()
	return d, st, err
}

// Get returns the live desk for sessionID.
func (r *Registry) Get(sessionID string) (*Desk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.desks[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return d, nil
}

// Len returns the number of live desks.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.desks)
}

// Evict drops desks idle for longer than the TTL and returns how many went away.
func (r *Registry) Evict() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, d := range r.desks {
		if d.LastActive().Before(cutoff) {
			delete(r.desks, id)
			n++
		}
	}
	return n
}

// Run evicts idle desks every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	if r.ttl <= 0 || every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Evict(); n > 0 {
				r.log.Debug("registry: evicted idle desks", zap.Int("count", n), zap.Int("live", r.Len()))
			}
		}
	}
}
