package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"

	"github.com/f3rmion/frostcoord/session"
)

// DefaultCapacity bounds the number of live sessions when no
// [WithCapacity] option is given.
const DefaultCapacity = 1024

var (
	// ErrUnknownSession is returned for handles that were never registered,
	// were removed, or were evicted.
	ErrUnknownSession = errors.New("registry: unknown session")
	// ErrSessionExpired is returned for sessions idle for longer than the
	// configured TTL. The session is dropped.
	ErrSessionExpired = errors.New("registry: session expired")
)

type entry struct {
	coord    session.Coordinator
	lastSeen time.Time
}

// Registry tracks live coordinator sessions by handle. It bounds their
// number, least recently used first, and drops sessions that stay idle
// past the TTL. It does not touch protocol state: dropping an entry is
// the only way a session ends early.
type Registry struct {
	capacity int
	ttl      time.Duration
	clock    clockwork.Clock
	metrics  *Metrics

	mu    sync.Mutex
	cache *lru.Cache[uuid.UUID, *entry]
}

// Option configures a [Registry].
type Option func(*Registry)

// WithCapacity sets the maximum number of live sessions.
func WithCapacity(n int) Option {
	return func(r *Registry) { r.capacity = n }
}

// WithTTL sets the idle expiry. Zero disables expiry.
func WithTTL(d time.Duration) Option {
	return func(r *Registry) { r.ttl = d }
}

// WithClock sets the time source, mainly for tests.
func WithClock(c clockwork.Clock) Option {
	return func(r *Registry) { r.clock = c }
}

// WithMetrics records registry events in m.
func WithMetrics(m *Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// New creates an empty registry.
func New(opts ...Option) (*Registry, error) {
	r := &Registry{
		capacity: DefaultCapacity,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.ttl < 0 {
		return nil, fmt.Errorf("registry: negative ttl %s", r.ttl)
	}
	cache, err := lru.New[uuid.UUID, *entry](r.capacity)
	if err != nil {
		return nil, fmt.Errorf("registry: capacity %d: %w", r.capacity, err)
	}
	r.cache = cache
	return r, nil
}

// Register stores c under a fresh handle. When the registry is full the
// least recently used session is evicted.
func (r *Registry) Register(c session.Coordinator) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	evicted := r.cache.Add(id, &entry{coord: c, lastSeen: r.clock.Now()})
	glog.V(1).Infof("registry: registered session %s", id)
	r.record(eventRegistered)
	if evicted {
		glog.V(1).Infof("registry: capacity %d reached, evicted least recently used session", r.capacity)
		r.record(eventEvicted)
	}
	r.updateActive()
	return id
}

// Get returns the session registered under id and marks it as used.
func (r *Registry) Get(id uuid.UUID) (session.Coordinator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	now := r.clock.Now()
	if r.expired(e, now) {
		r.cache.Remove(id)
		glog.V(1).Infof("registry: session %s expired", id)
		r.record(eventExpired)
		r.updateActive()
		return nil, fmt.Errorf("%w: %s", ErrSessionExpired, id)
	}
	e.lastSeen = now
	return e.coord, nil
}

// Remove drops the session registered under id. It reports whether the
// session was present.
func (r *Registry) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.cache.Remove(id) {
		return false
	}
	r.record(eventRemoved)
	r.updateActive()
	return true
}

// Sweep drops every idle-expired session and returns how many it dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ttl == 0 {
		return 0
	}
	now := r.clock.Now()
	n := 0
	for _, id := range r.cache.Keys() {
		e, ok := r.cache.Peek(id)
		if !ok || !r.expired(e, now) {
			continue
		}
		r.cache.Remove(id)
		r.record(eventExpired)
		n++
	}
	if n > 0 {
		glog.V(1).Infof("registry: swept %d expired sessions", n)
		r.updateActive()
	}
	return n
}

// Len returns the number of live sessions, expired ones not yet swept
// included.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len()
}

func (r *Registry) expired(e *entry, now time.Time) bool {
	return r.ttl > 0 && now.Sub(e.lastSeen) > r.ttl
}

func (r *Registry) record(event string) {
	if r.metrics != nil {
		r.metrics.sessions.WithLabelValues(event).Inc()
	}
}

func (r *Registry) updateActive() {
	if r.metrics != nil {
		r.metrics.active.Set(float64(r.cache.Len()))
	}
}
