package container

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ashbourne/ward/internal/graph"
	"github.com/ashbourne/ward/internal/scope"
)

type State int

const (
	StateNew State = iota
	StateStarting
	StateRunning
	StateStopping
	StateStopped
)

// Container is the root of a resolution tree: it owns the registry, the
// dependency graph, the singleton cache (folded into the registry's own
// entries) and the process-wide per-key construction locks. Scopes are
// created from it and delegate singleton lookups back here.
type Container struct {
	mu       sync.RWMutex
	registry *Registry
	graph    *graph.ServiceGraph
	logger   *zap.Logger
	state    State
	parallel bool

	shutdownTimeout time.Duration

	singletonLocks singleflight.Group

	overlay *overlay

	decoratorsMu sync.RWMutex
	decorators   map[string][]DecoratorFunc

	poolsMu sync.Mutex
	pools   map[string][]any

	testModeMu         sync.Mutex
	builtUnderTestMode []string

	scopesMu   sync.Mutex
	openScopes map[string]*Scope

	onResolve []ResolveHook
	onProvide []ProvideHook
	onStart   []StartHook
	onStop    []StopHook
}

type ResolveHook func(key string, duration time.Duration, err error)
type ProvideHook func(key string)
type StartHook func(key string, duration time.Duration, err error)
type StopHook func(key string, duration time.Duration, err error)

type Config struct {
	Logger          *zap.Logger
	Parallel        bool
	ShutdownTimeout time.Duration

	OnResolve []ResolveHook
	OnProvide []ProvideHook
	OnStart   []StartHook
	OnStop    []StopHook
}

func New(cfg *Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Container{
		registry:        NewRegistry(),
		graph:           graph.New(),
		logger:          logger,
		parallel:        cfg.Parallel,
		shutdownTimeout: cfg.ShutdownTimeout,
		overlay:         newOverlay(),
		decorators:      make(map[string][]DecoratorFunc),
		pools:           make(map[string][]any),
		openScopes:      make(map[string]*Scope),
		onResolve:       cfg.OnResolve,
		onProvide:       cfg.OnProvide,
		onStart:         cfg.OnStart,
		onStop:          cfg.OnStop,
	}
}

// Register installs a descriptor, silently replacing any prior descriptor
// under the same key (§4.B). Registration rejects a dependency graph that
// would become cyclic through non-lazy edges.
func (c *Container) Register(entry *ServiceEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	depKeys := make([]string, len(entry.Dependencies))
	for i, d := range entry.Dependencies {
		depKeys[i] = d.Key
	}

	replacing := c.registry.Has(entry.Key)
	c.registry.Register(entry)
	c.graph.AddNode(entry.Key, depKeys)

	if c.graph.HasCycle() {
		c.registry.Remove(entry.Key)
		c.graph.RemoveNode(entry.Key)
		cyclePath := c.graph.FindCyclePath(entry.Key)
		return errCyclicDependency(cyclePath)
	}

	if replacing {
		c.logger.Debug("service registration replaced", zap.String("key", entry.Key))
	}

	for _, hook := range c.onProvide {
		hook(entry.Key)
	}

	return nil
}

func (c *Container) Has(key string) bool {
	if c.overlay.has(key) {
		return true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.Has(key)
}

func (c *Container) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.Keys()
}

func (c *Container) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.Size()
}

func (c *Container) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	missing := c.graph.Validate()
	if len(missing) > 0 {
		return fmt.Errorf("missing dependencies: %v", missing)
	}
	if c.graph.HasCycle() {
		cycles := c.graph.GetAllCyclePaths()
		return fmt.Errorf("circular dependencies detected: %v", cycles)
	}
	return nil
}

func (c *Container) Graph() *graph.ServiceGraph {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.graph.Clone()
}

func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Container) GetInstance(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.GetInstance(key)
}

func (c *Container) AddOnStart(key string, hook Hook) {
	c.registry.AddOnStart(key, hook)
}

func (c *Container) AddOnStop(key string, hook Hook) {
	c.registry.AddOnStop(key, hook)
}

func (c *Container) SetScope(key string, kind scope.Kind) {
	c.registry.SetScope(key, kind)
}

func (c *Container) SetLazy(key string, lazy bool) {
	c.registry.SetLazy(key, lazy)
}

func (c *Container) SetPoolSize(key string, size int) {
	c.registry.SetPoolSize(key, size)
}

func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Release returns a pooled instance to its pool for reuse by a future
// resolution of the same key.
func (c *Container) Release(key string, instance any) {
	c.poolsMu.Lock()
	defer c.poolsMu.Unlock()
	c.pools[key] = append(c.pools[key], instance)
}

func (c *Container) acquireFromPool(key string) (any, bool) {
	c.poolsMu.Lock()
	defer c.poolsMu.Unlock()
	items := c.pools[key]
	if len(items) == 0 {
		return nil, false
	}
	instance := items[len(items)-1]
	c.pools[key] = items[:len(items)-1]
	return instance, true
}

// CreateScope creates a top-level child scope of the root container.
func (c *Container) CreateScope() *Scope {
	s := newScope(c, nil)
	c.trackScope(s)
	return s
}

func (c *Container) trackScope(s *Scope) {
	c.scopesMu.Lock()
	defer c.scopesMu.Unlock()
	c.openScopes[s.id] = s
}

func (c *Container) untrackScope(s *Scope) {
	c.scopesMu.Lock()
	defer c.scopesMu.Unlock()
	delete(c.openScopes, s.id)
}

// OpenScopes returns every currently open scope, including nested ones,
// for diagnostics such as health checks walking scoped instances.
func (c *Container) OpenScopes() []*Scope {
	c.scopesMu.Lock()
	defer c.scopesMu.Unlock()
	scopes := make([]*Scope, 0, len(c.openScopes))
	for _, s := range c.openScopes {
		scopes = append(scopes, s)
	}
	return scopes
}

// ScopedInstances returns a snapshot of every cached instance currently
// held by this scope, keyed by service key.
func (s *Scope) ScopedInstances() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.cache))
	for k, v := range s.cache {
		out[k] = v
	}
	return out
}

// Lifecycle reports the registered lifecycle kind for key, for
// diagnostics (§4.G debug graph).
func (c *Container) Lifecycle(key string) (scope.Kind, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.registry.Get(key)
	if !ok {
		return 0, false
	}
	return e.Lifecycle, true
}

func (c *Container) entry(key string) (*ServiceEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.registry.Get(key)
}
