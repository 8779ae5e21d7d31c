package ward

import (
	"context"

	"github.com/ashbourne/ward/internal/container"
	"github.com/ashbourne/ward/internal/reflect"
	"github.com/ashbourne/ward/internal/scope"
)

type Decorator[T any] func(ctx context.Context, r Resolver, base T) (T, error)

// Bind registers interfaceKey I as an alias that resolves implKey T
// (§4.G). Binding never instantiates T itself; it registers a
// constructor whose sole dependency is T.
func Bind[I, T any](c *Container, opts ...ProviderOption) error {
	cfg := &providerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	interfaceKey := reflect.TypeKey[I]()
	implKey := reflect.TypeKey[T]()

	if cfg.name != "" {
		interfaceKey = reflect.TypeKeyNamed[I](cfg.name)
	}

	wrappedProvider := func(ctx context.Context, r container.Resolver) (any, error) {
		return r.Resolve(ctx, implKey)
	}

	entry := &container.ServiceEntry{
		Key:          interfaceKey,
		Kind:         container.KindConstructor,
		Provider:     wrappedProvider,
		Dependencies: []container.DependencySpec{{Key: implKey}},
		Lifecycle:    scope.Singleton,
		OnStart:      cfg.onStart,
		OnStop:       cfg.onStop,
	}

	return c.internal.Register(entry)
}

func BindNamed[I, T any](c *Container, name string, opts ...ProviderOption) error {
	opts = append(opts, WithName(name))
	return Bind[I, T](c, opts...)
}

func Decorate[T any](c *Container, decorator Decorator[T]) {
	key := reflect.TypeKey[T]()

	c.internal.AddDecorator(
		key, func(ctx context.Context, cc *container.Container, instance any) (any, error) {
			typed, ok := instance.(T)
			if !ok {
				var zero T
				return zero, errDecoratorTypeMismatch(reflect.TypeName[T]())
			}

			return decorator(ctx, c.AsResolver(), typed)
		},
	)
}

func DecorateNamed[T any](c *Container, name string, decorator Decorator[T]) {
	key := reflect.TypeKeyNamed[T](name)

	c.internal.AddDecorator(
		key, func(ctx context.Context, cc *container.Container, instance any) (any, error) {
			typed, ok := instance.(T)
			if !ok {
				var zero T
				return zero, errDecoratorTypeMismatch(reflect.TypeName[T]())
			}

			return decorator(ctx, c.AsResolver(), typed)
		},
	)
}

func errDecoratorTypeMismatch(typeName string) *Error {
	return newError(
		ErrCodeDecoratorFailed,
		"decorator type mismatch for "+typeName,
		nil,
	)
}
