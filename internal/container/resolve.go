package container

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ashbourne/ward/internal/scope"
)

// inFlight is the per-resolution cycle-detection bookkeeping (§4.D step 5,
// §5). It is created fresh for every top-level Resolve / ResolveAsync call
// and threaded through the recursive dependency walk via the context, so
// two unrelated resolutions running on separate goroutines never share
// state the way a single container-wide map keyed only by service key
// would.
type inFlight struct {
	mu    sync.Mutex
	set   map[string]bool
	chain []string
}

type inFlightKey struct{}

func ensureInFlight(ctx context.Context) (*inFlight, context.Context) {
	if f, ok := ctx.Value(inFlightKey{}).(*inFlight); ok {
		return f, ctx
	}
	f := &inFlight{set: make(map[string]bool)}
	return f, context.WithValue(ctx, inFlightKey{}, f)
}

func (f *inFlight) push(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.set[key] {
		chain := append(append([]string{}, f.chain...), key)
		return errCyclicDependency(chain)
	}
	f.set[key] = true
	f.chain = append(f.chain, key)
	return nil
}

func (f *inFlight) pop(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.set, key)
	if n := len(f.chain); n > 0 && f.chain[n-1] == key {
		f.chain = f.chain[:n-1]
	}
}

// Resolve runs the synchronous resolution path (§4.D). It fails with
// AsyncRequired if any descriptor in the transitive closure declares
// AsyncInit.
func (c *Container) Resolve(ctx context.Context, key string) (any, error) {
	return c.resolveFrom(ctx, key, nil, false)
}

// ResolveAsync runs the suspension-capable path. On an all-synchronous
// closure it behaves exactly like Resolve (§9, explicit open question).
func (c *Container) ResolveAsync(ctx context.Context, key string) (any, error) {
	return c.resolveFrom(ctx, key, nil, true)
}

func (c *Container) resolveFrom(ctx context.Context, key string, sc *Scope, allowAsync bool) (any, error) {
	start := time.Now()
	f, ctx := ensureInFlight(ctx)

	instance, err := c.resolveEntry(ctx, key, sc, f, nil, allowAsync)
	c.callResolveHooks(key, time.Since(start), err)
	return instance, err
}

func (c *Container) callResolveHooks(key string, duration time.Duration, err error) {
	for _, hook := range c.onResolve {
		hook(key, duration, err)
	}
}

// resolveEntry is the recursive core of the algorithm (§4.D steps 1-11).
// parent is the lifecycle of whichever descriptor is pulling key in as a
// dependency; it is nil for the outermost call.
func (c *Container) resolveEntry(
	ctx context.Context,
	key string,
	sc *Scope,
	f *inFlight,
	parent *scope.Kind,
	allowAsync bool,
) (any, error) {
	if v, ok := c.overlay.get(key); ok {
		return v, nil
	}

	entry, exists := c.entry(key)
	if !exists {
		return nil, errUnregistered(key)
	}

	if parent != nil && !scope.Compatible(*parent, entry.Lifecycle) {
		return nil, errLifecycleMismatch(key, parent.String(), entry.Lifecycle.String())
	}

	switch entry.Lifecycle {
	case scope.Singleton:
		if instance, ok := c.registry.GetInstance(key); ok {
			return instance, nil
		}
	case scope.Scoped:
		if sc == nil {
			return nil, errScopeRequired(key)
		}
		if sc.isClosed() {
			return nil, errScopeClosed(key)
		}
		if instance, ok := sc.get(key); ok {
			return instance, nil
		}
	case scope.Pooled:
		if instance, ok := c.acquireFromPool(key); ok {
			return instance, nil
		}
	}

	if !allowAsync && c.transitivelyAsync(key, map[string]bool{}) {
		return nil, errAsyncRequired(key)
	}

	if err := f.push(key); err != nil {
		return nil, err
	}
	defer f.pop(key)

	build := func() (any, error) {
		return c.construct(ctx, key, entry, sc, f, allowAsync)
	}

	switch entry.Lifecycle {
	case scope.Singleton:
		v, err, _ := c.singletonLocks.Do(key, func() (any, error) {
			v, err := build()
			if err != nil || !entry.Lazy || entry.StartRan || c.State() != StateRunning {
				return v, err
			}
			for _, hook := range entry.OnStart {
				if err := hook(ctx); err != nil {
					return nil, fmt.Errorf("OnStart hook failed for %s: %w", key, err)
				}
			}
			c.registry.SetStartRan(key)
			return v, nil
		})
		if err != nil {
			return nil, err
		}
		c.registry.SetInstance(key, v)
		if c.overlay.isActive() {
			c.markBuiltUnderTestMode(key)
		}
		return v, nil
	case scope.Scoped:
		v, err, _ := sc.locks.Do(key, build)
		if err != nil {
			return nil, err
		}
		sc.set(key, v)
		return v, nil
	default: // Transient, Pooled
		return build()
	}
}

func (c *Container) transitivelyAsync(key string, seen map[string]bool) bool {
	if seen[key] {
		return false
	}
	seen[key] = true

	entry, exists := c.entry(key)
	if !exists {
		return false
	}
	if entry.AsyncInit {
		return true
	}
	for _, dep := range entry.Dependencies {
		if c.transitivelyAsync(dep.Key, seen) {
			return true
		}
	}
	return false
}

// construct resolves dependencies in declared order, invokes the
// provider, applies property injections and decorators (§4.D steps 6-9).
func (c *Container) construct(
	ctx context.Context,
	key string,
	entry *ServiceEntry,
	sc *Scope,
	f *inFlight,
	allowAsync bool,
) (any, error) {
	depLifecycle := entry.Lifecycle

	for _, dep := range entry.Dependencies {
		if _, err := c.resolveEntry(ctx, dep.Key, sc, f, &depLifecycle, allowAsync); err != nil {
			var re *ResolveError
			if asResolveError(err, &re) {
				if dep.Optional && re.Code == CodeUnregistered {
					continue
				}
				if isStructuralCode(re.Code) {
					return nil, err
				}
			}
			return nil, errConstructionFailed(key, fmt.Errorf("dependency %s: %w", dep.Key, err))
		}
	}

	if entry.Kind == KindInstance {
		return entry.Instance, nil
	}

	var resolver Resolver
	if sc != nil {
		resolver = sc
	} else {
		resolver = c
	}

	instance, err := entry.Provider(ctx, resolver)
	if err != nil {
		c.logger.Debug("provider failed", zap.String("key", key), zap.Error(err))
		return nil, errConstructionFailed(key, err)
	}

	instance, err = c.applyPropertyInjections(ctx, key, entry, instance, sc, f, allowAsync)
	if err != nil {
		return nil, err
	}

	return c.applyDecorators(ctx, key, instance)
}

func (c *Container) applyPropertyInjections(
	ctx context.Context,
	key string,
	entry *ServiceEntry,
	instance any,
	sc *Scope,
	f *inFlight,
	allowAsync bool,
) (any, error) {
	if len(entry.PropertyInjections) == 0 {
		return instance, nil
	}

	depLifecycle := entry.Lifecycle
	val := reflect.ValueOf(instance)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	for _, inj := range entry.PropertyInjections {
		dep, err := c.resolveEntry(ctx, inj.Key, sc, f, &depLifecycle, allowAsync)
		if err != nil {
			var re *ResolveError
			if inj.Optional {
				continue
			}
			if asResolveError(err, &re) && isStructuralCode(re.Code) {
				return nil, err
			}
			return nil, errConstructionFailed(key, fmt.Errorf("property %s: %w", inj.FieldName, err))
		}

		if val.Kind() != reflect.Struct {
			continue
		}
		field := val.FieldByName(inj.FieldName)
		if !field.IsValid() || !field.CanSet() {
			continue
		}
		depVal := reflect.ValueOf(dep)
		if depVal.IsValid() && depVal.Type().AssignableTo(field.Type()) {
			field.Set(depVal)
		}
	}

	return instance, nil
}

func asResolveError(err error, target **ResolveError) bool {
	for err != nil {
		if re, ok := err.(*ResolveError); ok {
			*target = re
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
