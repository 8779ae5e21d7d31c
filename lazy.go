package ward

import (
	"context"

	"github.com/ashbourne/ward/internal/container"
	"github.com/ashbourne/ward/internal/reflect"
)

// LazyProxy is a deferred-resolution handle (§4.F). It holds a reference
// to the resolver that will eventually produce its target; the target is
// never resolved until Materialize is called, so obtaining a LazyProxy
// never adds a dependency edge and cannot itself trigger a cycle.
type LazyProxy[T any] struct {
	inner *container.LazyHandle
}

// Lazy returns a handle that resolves T from r on first Materialize
// call. Used to break a construction cycle: depend on Lazy[B] instead of
// B directly, and call Materialize after both sides are built.
func Lazy[T any](r Resolver) *LazyProxy[T] {
	key := reflect.TypeKey[T]()
	return &LazyProxy[T]{
		inner: container.NewLazyHandle(
			key, func(ctx context.Context, k string) (any, error) {
				return r.Resolve(ctx, k)
			},
		),
	}
}

func LazyNamed[T any](r Resolver, name string) *LazyProxy[T] {
	key := reflect.TypeKeyNamed[T](name)
	return &LazyProxy[T]{
		inner: container.NewLazyHandle(
			key, func(ctx context.Context, k string) (any, error) {
				return r.Resolve(ctx, k)
			},
		),
	}
}

func (l *LazyProxy[T]) Target() string {
	return l.inner.Target()
}

func (l *LazyProxy[T]) Materialize(ctx context.Context) (T, error) {
	var zero T

	v, err := l.inner.Materialize(ctx)
	if err != nil {
		return zero, translateResolveError(l.inner.Target(), err)
	}

	typed, ok := v.(T)
	if !ok {
		return zero, errResolutionFailed(l.inner.Target(), nil)
	}

	return typed, nil
}

func (l *LazyProxy[T]) MustMaterialize(ctx context.Context) T {
	v, err := l.Materialize(ctx)
	if err != nil {
		panic(err)
	}
	return v
}
