package ward

import (
	"context"

	"github.com/ashbourne/ward/internal/container"
	"github.com/ashbourne/ward/internal/scope"
)

// ScopeKind is a service's lifecycle (§3 DATA MODEL): Singleton instances
// are built once per container, Transient instances once per resolution,
// Scoped instances once per open Scope, and Pooled instances are reused
// from a bounded pool.
type ScopeKind = scope.Kind

const (
	Singleton = scope.Singleton
	Transient = scope.Transient
	Scoped    = scope.Scoped
	Pooled    = scope.Pooled
)

// Scope is a child resolver with its own scoped-instance cache (§4.E).
// Scopes form a tree: Singleton lookups always resolve at the root
// container; Scoped lookups never fall through to a parent scope.
type Scope struct {
	internal *container.Scope
	root     *Container
}

// ID returns the scope's identifier, generated with uuid at creation.
func (s *Scope) ID() string {
	return s.internal.ID()
}

// CreateScope opens a child scope of this scope.
func (s *Scope) CreateScope() *Scope {
	return &Scope{internal: s.internal.CreateScope(), root: s.root}
}

func (s *Scope) Has(key string) bool {
	return s.internal.Has(key)
}

func (s *Scope) Resolve(ctx context.Context, key string) (any, error) {
	return s.internal.Resolve(ctx, key)
}

func (s *Scope) ResolveAsync(ctx context.Context, key string) (any, error) {
	return s.internal.ResolveAsync(ctx, key)
}

// Close disposes every scoped instance built through this scope, in
// reverse build order, and marks the scope closed. Closing an
// already-closed scope is a no-op.
func (s *Scope) Close(ctx context.Context) error {
	if err := s.internal.Close(ctx); err != nil {
		return errShutdownFailed("scope:"+s.ID(), err)
	}
	return nil
}

func (c *Container) Release(key string, instance any) {
	c.internal.Release(key, instance)
}
