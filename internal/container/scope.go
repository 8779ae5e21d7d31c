package container

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// Scope is a child resolver with its own scoped-instance cache and
// disposal list (§4.E). Scopes form a tree: singleton lookups always walk
// to the root container; scoped lookups never fall through to a parent
// scope, each scope owns its own scoped instances.
type Scope struct {
	id     string
	root   *Container
	parent *Scope

	mu         sync.Mutex
	cache      map[string]any
	buildOrder []string
	closed     bool

	locks singleflight.Group
}

func newScope(root *Container, parent *Scope) *Scope {
	return &Scope{
		id:     uuid.NewString(),
		root:   root,
		parent: parent,
		cache:  make(map[string]any),
	}
}

func (s *Scope) ID() string { return s.id }

// CreateScope creates a child scope of this scope. Closing the parent
// does not implicitly close children; callers that build scope trees are
// expected to close leaves before their ancestors.
func (s *Scope) CreateScope() *Scope {
	child := newScope(s.root, s)
	s.root.trackScope(child)
	return child
}

func (s *Scope) Has(key string) bool {
	return s.root.Has(key)
}

func (s *Scope) get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache[key]
	return v, ok
}

func (s *Scope) set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = value
	s.buildOrder = append(s.buildOrder, key)
}

func (s *Scope) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close invokes OnStop hooks for every cached scoped instance in reverse
// build order, empties the cache, and marks the scope closed. Closing an
// already-closed scope is a no-op (§7: scope closure is idempotent).
func (s *Scope) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	order := s.buildOrder
	s.buildOrder = nil
	s.cache = make(map[string]any)
	s.mu.Unlock()

	s.root.untrackScope(s)

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		key := order[i]
		entry, exists := s.root.entry(key)
		if !exists {
			continue
		}
		for j := len(entry.OnStop) - 1; j >= 0; j-- {
			if err := entry.OnStop[j](ctx); err != nil {
				errs = append(errs, errConstructionFailed(key, err))
			}
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (s *Scope) Resolve(ctx context.Context, key string) (any, error) {
	return s.root.resolveFrom(ctx, key, s, false)
}

func (s *Scope) ResolveAsync(ctx context.Context, key string) (any, error) {
	return s.root.resolveFrom(ctx, key, s, true)
}
