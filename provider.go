package ward

import (
	"context"

	"github.com/ashbourne/ward/internal/container"
	"github.com/ashbourne/ward/internal/reflect"
	"github.com/ashbourne/ward/internal/scope"
)

type Provider[T any] func(ctx context.Context, r Resolver) (T, error)

// Hook is a lifecycle callback registered with WithOnStart/WithOnStop,
// run against a single service in startup or reverse-shutdown order.
type Hook func(ctx context.Context) error

type ProviderOption func(*providerConfig)

type providerConfig struct {
	name               string
	dependencies       []container.DependencySpec
	propertyInjections []container.PropertyInjection
	onStart            []container.Hook
	onStop             []container.Hook
	scope              scope.Kind
	poolSize           int
	lazy               bool
	async              bool
}

func Provide[T any](c *Container, provider Provider[T], opts ...ProviderOption) error {
	cfg := &providerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	key := reflect.TypeKey[T]()
	if cfg.name != "" {
		key = reflect.TypeKeyNamed[T](cfg.name)
	}

	wrappedProvider := func(ctx context.Context, r container.Resolver) (any, error) {
		return provider(ctx, r)
	}

	entry := &container.ServiceEntry{
		Key:                key,
		Kind:               container.KindConstructor,
		Provider:           wrappedProvider,
		Dependencies:       cfg.dependencies,
		PropertyInjections: cfg.propertyInjections,
		AsyncInit:          cfg.async,
		Lifecycle:          cfg.scope,
		Lazy:               cfg.lazy,
		PoolSize:           cfg.poolSize,
		OnStart:            cfg.onStart,
		OnStop:             cfg.onStop,
	}

	if cfg.poolSize > 0 {
		entry.Lifecycle = scope.Pooled
	}

	return c.internal.Register(entry)
}

func ProvideValue[T any](c *Container, value T, opts ...ProviderOption) error {
	cfg := &providerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	key := reflect.TypeKey[T]()
	if cfg.name != "" {
		key = reflect.TypeKeyNamed[T](cfg.name)
	}

	entry := &container.ServiceEntry{
		Key:          key,
		Kind:         container.KindInstance,
		Instance:     value,
		Instantiated: true,
		Lifecycle:    scope.Singleton,
		OnStart:      cfg.onStart,
		OnStop:       cfg.onStop,
	}

	return c.internal.Register(entry)
}

func ProvideNamed[T any](c *Container, name string, provider Provider[T], opts ...ProviderOption) error {
	opts = append(opts, WithName(name))
	return Provide(c, provider, opts...)
}

func ProvideNamedValue[T any](c *Container, name string, value T, opts ...ProviderOption) error {
	opts = append(opts, WithName(name))
	return ProvideValue(c, value, opts...)
}

func MustProvide[T any](c *Container, provider Provider[T], opts ...ProviderOption) {
	if err := Provide(c, provider, opts...); err != nil {
		panic(err)
	}
}

func MustProvideValue[T any](c *Container, value T, opts ...ProviderOption) {
	if err := ProvideValue(c, value, opts...); err != nil {
		panic(err)
	}
}

func WithName(name string) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.name = name
	}
}

// WithDependencies declares the fixed, ordered dependency list a
// constructor or factory provider needs (§3, §4.A — the dependency list
// is never rediscovered once registered).
func WithDependencies(deps ...string) ProviderOption {
	return func(cfg *providerConfig) {
		for _, d := range deps {
			cfg.dependencies = append(cfg.dependencies, container.DependencySpec{Key: d})
		}
	}
}

// WithOptionalDependencies declares dependencies that, if unregistered,
// are simply skipped rather than failing construction.
func WithOptionalDependencies(deps ...string) ProviderOption {
	return func(cfg *providerConfig) {
		for _, d := range deps {
			cfg.dependencies = append(cfg.dependencies, container.DependencySpec{Key: d, Optional: true})
		}
	}
}

// WithPropertyInjection resolves key and assigns it to fieldName on the
// built instance after construction (supplemented from the original
// Python source's post-construction injection, exposed here the way the
// struct-tag autowiring does it — by reflection, not attribute
// interception).
func WithPropertyInjection(fieldName, key string) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.propertyInjections = append(
			cfg.propertyInjections, container.PropertyInjection{FieldName: fieldName, Key: key},
		)
	}
}

// WithOptionalPropertyInjection is WithPropertyInjection for a field
// that should simply be left unset, rather than fail construction,
// when key isn't registered.
func WithOptionalPropertyInjection(fieldName, key string) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.propertyInjections = append(
			cfg.propertyInjections,
			container.PropertyInjection{FieldName: fieldName, Key: key, Optional: true},
		)
	}
}

func WithOnStart(hook Hook) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.onStart = append(cfg.onStart, container.Hook(hook))
	}
}

func WithOnStop(hook Hook) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.onStop = append(cfg.onStop, container.Hook(hook))
	}
}

func WithScope(s ScopeKind) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.scope = s
	}
}

func WithPoolSize(size int) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.scope = scope.Pooled
		cfg.poolSize = size
	}
}

// WithLazy marks a service as not instantiated during Start(); it is
// built on first Resolve/Invoke, and its OnStart hooks run at that
// point if the container is already running.
func WithLazy() ProviderOption {
	return func(cfg *providerConfig) {
		cfg.lazy = true
	}
}

// WithAsync marks a provider's construction as requiring the
// suspension-capable path; synchronous Resolve/Invoke against it (or
// anything depending on it) fails with ErrCodeAsyncRequired.
func WithAsync() ProviderOption {
	return func(cfg *providerConfig) {
		cfg.async = true
	}
}
