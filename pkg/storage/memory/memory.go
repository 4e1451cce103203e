package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/artem13815/careerdesk/pkg/storage"
)

// Backend keeps every scope in process memory. Scopes idle longer than ttl
// read as empty; quota bounds the total bytes (keys + values) of one scope.
type Backend struct {
	mu     sync.Mutex
	scopes map[string]*scope
	quota  int
	ttl    time.Duration
	now    func() time.Time
}

type scope struct {
	items   map[string]string
	size    int
	touched time.Time
}

// Option configures a Backend.
type Option func(*Backend)

// WithQuota limits a scope to n bytes. Zero means unlimited.
func WithQuota(n int) Option { return func(b *Backend) { b.quota = n } }

// WithTTL expires scopes that were not touched for d. Zero disables expiry.
func WithTTL(d time.Duration) Option { return func(b *Backend) { b.ttl = d } }

// WithClock overrides time.Now, used by tests.
func WithClock(now func() time.Time) Option { return func(b *Backend) { b.now = now } }

func New(opts ...Option) *Backend {
	b := &Backend{scopes: make(map[string]*scope), now: time.Now}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Scope implements storage.Backend.
func (b *Backend) Scope(id string) storage.Store { return &store{b: b, id: id} }

// Sweep drops expired scopes and returns how many were removed.
func (b *Backend) Sweep() int {
	if b.ttl <= 0 {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for id, s := range b.scopes {
		if b.expired(s) {
			delete(b.scopes, id)
			n++
		}
	}
	return n
}

func (b *Backend) expired(s *scope) bool {
	return b.ttl > 0 && b.now().Sub(s.touched) > b.ttl
}

// live returns the scope for id, creating it when create is set. Caller holds mu.
func (b *Backend) live(id string, create bool) *scope {
	s, ok := b.scopes[id]
	if ok && b.expired(s) {
		delete(b.scopes, id)
		ok = false
	}
	if !ok {
		if !create {
			return nil
		}
		s = &scope{items: make(map[string]string)}
		b.scopes[id] = s
	}
	s.touched = b.now()
	return s
}

type store struct {
	b  *Backend
	id string
}

func (s *store) SetItem(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	sc := s.b.live(s.id, true)
	size := sc.size + len(key) + len(value)
	if old, ok := sc.items[key]; ok {
		size -= len(key) + len(old)
	}
	if s.b.quota > 0 && size > s.b.quota {
		return fmt.Errorf("set %q: %w", key, storage.ErrQuotaExceeded)
	}
	sc.items[key] = value
	sc.size = size
	return nil
}

func (s *store) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	sc := s.b.live(s.id, false)
	if sc == nil {
		return "", false, nil
	}
	v, ok := sc.items[key]
	return v, ok, nil
}

func (s *store) RemoveItem(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	sc := s.b.live(s.id, false)
	if sc == nil {
		return nil
	}
	if old, ok := sc.items[key]; ok {
		sc.size -= len(key) + len(old)
		delete(sc.items, key)
	}
	return nil
}

func (s *store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	delete(s.b.scopes, s.id)
	return nil
}
