package container

import (
	"context"
	"sync"
)

// LazyHandle is the deferred-resolution handle for breaking construction
// cycles (§4.F, §8.5). It holds a reference to the resolver that will
// eventually produce its target and an initially empty slot; the first
// Materialize call resolves the target key and memoizes the result.
type LazyHandle struct {
	target   string
	resolve  func(ctx context.Context, key string) (any, error)
	once     sync.Once
	value    any
	err      error
}

func NewLazyHandle(target string, resolve func(ctx context.Context, key string) (any, error)) *LazyHandle {
	return &LazyHandle{target: target, resolve: resolve}
}

func (l *LazyHandle) Target() string { return l.target }

func (l *LazyHandle) Materialize(ctx context.Context) (any, error) {
	l.once.Do(func() {
		l.value, l.err = l.resolve(ctx, l.target)
	})
	return l.value, l.err
}
