package session

import (
	"context"
	"sync"
)

// Scope is one visitor's session state, loaded at the start of a request and
// written back through a Manager when dirty. Values are JSON documents so the
// same payloads round-trip through the Postgres JSONB store.
type Scope struct {
	id     string
	values map[string][]byte
	dirty  bool
}

func NewScope(id string, values map[string][]byte) *Scope {
	if values == nil {
		values = make(map[string][]byte)
	}
	return &Scope{id: id, values: values}
}

func (s *Scope) ID() string { return s.id }

func (s *Scope) Get(key string) ([]byte, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Scope) Set(key string, value []byte) {
	s.values[key] = value
}

func (s *Scope) Delete(key string) {
	delete(s.values, key)
}

// MarkDirty flags the scope for persistence at the end of the request.
func (s *Scope) MarkDirty() { s.dirty = true }

func (s *Scope) Dirty() bool { return s.dirty }

// Manager loads and persists session scopes. Load returns an empty scope for
// an unknown id; Save is a no-op unless the scope was marked dirty.
type Manager interface {
	Load(ctx context.Context, id string) (*Scope, error)
	Save(ctx context.Context, scope *Scope) error
}

// Locks serializes request handling per session id. One request is one
// logical operation; within a session mutations and the checkout critical
// section must not interleave. Entries are refcounted and evicted once the
// last holder unlocks, so the map stays bounded by concurrent sessions
// rather than growing with every id ever seen.
type Locks struct {
	mu sync.Mutex
	m  map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLocks() *Locks {
	return &Locks{m: make(map[string]*lockEntry)}
}

func (l *Locks) Lock(id string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.m[id]
	if !ok {
		e = &lockEntry{}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}
