package container

import (
	"context"
	"sync"

	"github.com/ashbourne/ward/internal/scope"
)

// ProviderFunc builds one instance of a service, pulling its dependencies
// from the Resolver it is handed.
type ProviderFunc func(ctx context.Context, r Resolver) (any, error)

// Resolver is the minimal surface a provider needs to pull further
// dependencies out of whichever container or scope is building it.
type Resolver interface {
	Resolve(ctx context.Context, key string) (any, error)
	Has(key string) bool
}

// Kind tags which provider form a ServiceEntry was registered with.
type Kind int

const (
	KindConstructor Kind = iota
	KindFactory
	KindInstance
)

// PropertyInjection is a post-construction setter: once the instance is
// built, FieldName is resolved as Key and written onto it. Optional
// property injections are silently skipped, rather than failing
// construction, when Key isn't registered or fails to resolve — the
// path struct-tag autowired optional fields (`ward:",optional"`) compile
// down to.
type PropertyInjection struct {
	FieldName string
	Key       string
	Optional  bool
}

// DependencySpec names one entry in a descriptor's fixed dependency list.
// The resolver walks these in order; it never rediscovers them.
type DependencySpec struct {
	Name     string
	Key      string
	Optional bool
}

// ServiceEntry is the descriptor for a single (service key, context key)
// pair. A second Register call for the same key silently replaces the
// entry (§4.B); the dependency list itself is never rediscovered once set.
type ServiceEntry struct {
	Key                string
	ContextKey         string
	Kind               Kind
	Provider           ProviderFunc
	Instance           any
	Instantiated       bool
	Dependencies       []DependencySpec
	AsyncInit          bool
	PropertyInjections []PropertyInjection

	Lifecycle scope.Kind
	Lazy      bool
	PoolSize  int
	StartRan  bool

	OnStart []Hook
	OnStop  []Hook
}

type Hook func(ctx context.Context) error

// Registry is a plain (key -> entry) mapping. It never builds anything.
type Registry struct {
	mu       sync.RWMutex
	services map[string]*ServiceEntry
}

func NewRegistry() *Registry {
	return &Registry{
		services: make(map[string]*ServiceEntry),
	}
}

func (r *Registry) Register(entry *ServiceEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[entry.Key] = entry
}

func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.services[key]
	return exists
}

func (r *Registry) Get(key string) (*ServiceEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, exists := r.services[key]
	return entry, exists
}

func (r *Registry) GetEntry(key string) (*ServiceEntry, bool) {
	return r.Get(key)
}

func (r *Registry) GetInstance(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, exists := r.services[key]
	if !exists || !entry.Instantiated {
		return nil, false
	}
	return entry.Instance, true
}

func (r *Registry) SetInstance(key string, instance any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, exists := r.services[key]; exists {
		entry.Instance = instance
		entry.Instantiated = true
	}
}

// Evict resets a descriptor to its unbuilt state without removing the
// descriptor itself, used to drop mock-tainted singleton instances when
// test mode is disabled.
func (r *Registry) Evict(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, exists := r.services[key]; exists {
		entry.Instance = nil
		entry.Instantiated = false
		entry.StartRan = false
	}
}

func (r *Registry) SetStartRan(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, exists := r.services[key]; exists {
		entry.StartRan = true
	}
}

func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.services))
	for key := range r.services {
		keys = append(keys, key)
	}
	return keys
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.services)
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services = make(map[string]*ServiceEntry)
}

func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.services, key)
}

func (r *Registry) IsLazy(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, exists := r.services[key]
	return exists && entry.Lazy
}

func (r *Registry) AddOnStart(key string, hook Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, exists := r.services[key]; exists {
		entry.OnStart = append(entry.OnStart, hook)
	}
}

func (r *Registry) AddOnStop(key string, hook Hook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, exists := r.services[key]; exists {
		entry.OnStop = append(entry.OnStop, hook)
	}
}

func (r *Registry) SetScope(key string, kind scope.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, exists := r.services[key]; exists {
		entry.Lifecycle = kind
	}
}

func (r *Registry) SetLazy(key string, lazy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, exists := r.services[key]; exists {
		entry.Lazy = lazy
	}
}

func (r *Registry) SetPoolSize(key string, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, exists := r.services[key]; exists {
		entry.PoolSize = size
		entry.Lifecycle = scope.Pooled
	}
}

func (r *Registry) Dependencies(key string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, exists := r.services[key]
	if !exists {
		return nil
	}
	deps := make([]string, len(entry.Dependencies))
	for i, d := range entry.Dependencies {
		deps[i] = d.Key
	}
	return deps
}

func (r *Registry) AllDependencies() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	deps := make(map[string][]string, len(r.services))
	for key, entry := range r.services {
		d := make([]string, len(entry.Dependencies))
		for i, dep := range entry.Dependencies {
			d[i] = dep.Key
		}
		deps[key] = d
	}
	return deps
}
