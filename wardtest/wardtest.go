package wardtest

import (
	"context"

	"github.com/ashbourne/ward"
	"github.com/ashbourne/ward/internal/container"
	"github.com/ashbourne/ward/internal/reflect"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

type TestContainer struct {
	*ward.Container
	tb TB
}

func New(tb TB, opts ...ward.Option) *TestContainer {
	tb.Helper()

	c := ward.New(opts...)
	c.EnableTestMode()

	tc := &TestContainer{
		Container: c,
		tb:        tb,
	}

	tb.Cleanup(func() {
		c.DisableTestMode()
		if err := c.Stop(context.Background()); err != nil {
			tb.Fatalf("failed to stop container: %v", err)
		}
	})

	return tc
}

// Mock overlays value over T for the lifetime of the test (§4.H), without
// touching the underlying registration.
func Mock[T any](tc *TestContainer, value T) {
	tc.tb.Helper()
	ward.Mock(tc.Container, value)
}

func MockNamed[T any](tc *TestContainer, name string, value T) {
	tc.tb.Helper()
	ward.MockNamed(tc.Container, name, value)
}

func (tc *TestContainer) RequireStart(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Start(ctx); err != nil {
		tc.tb.Fatalf("failed to start container: %v", err)
	}
}

func (tc *TestContainer) RequireStop(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Stop(ctx); err != nil {
		tc.tb.Fatalf("failed to stop container: %v", err)
	}
}

func (tc *TestContainer) RequireValidate() {
	tc.tb.Helper()

	if err := tc.Validate(); err != nil {
		tc.tb.Fatalf("container validation failed: %v", err)
	}
}

func Replace[T any](tc *TestContainer, value T) {
	tc.tb.Helper()

	key := reflect.TypeKey[T]()
	if err := tc.Container.Internal().ReplaceValue(key, value); err != nil {
		tc.tb.Fatalf("failed to replace %s: %v", key, err)
	}
}

func ReplaceNamed[T any](tc *TestContainer, name string, value T) {
	tc.tb.Helper()

	key := reflect.TypeKeyNamed[T](name)
	if err := tc.Container.Internal().ReplaceValue(key, value); err != nil {
		tc.tb.Fatalf("failed to replace %s: %v", key, err)
	}
}

func ReplaceProvider[T any](tc *TestContainer, provider ward.Provider[T]) {
	tc.tb.Helper()

	key := reflect.TypeKey[T]()
	resolver := tc.Container.AsResolver()
	wrappedProvider := func(ctx context.Context, r container.Resolver) (any, error) {
		return provider(ctx, resolver)
	}

	if err := tc.Container.Internal().Replace(key, wrappedProvider, nil); err != nil {
		tc.tb.Fatalf("failed to replace provider %s: %v", key, err)
	}
}

func ReplaceNamedProvider[T any](tc *TestContainer, name string, provider ward.Provider[T]) {
	tc.tb.Helper()

	key := reflect.TypeKeyNamed[T](name)
	resolver := tc.Container.AsResolver()
	wrappedProvider := func(ctx context.Context, r container.Resolver) (any, error) {
		return provider(ctx, resolver)
	}

	if err := tc.Container.Internal().Replace(key, wrappedProvider, nil); err != nil {
		tc.tb.Fatalf("failed to replace provider %s: %v", key, err)
	}
}

func AssertHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if !ward.Has[T](tc.Container) {
		tc.tb.Fatalf("expected container to have %s", reflect.TypeKey[T]())
	}
}

func AssertHasNamed[T any](tc *TestContainer, name string) {
	tc.tb.Helper()

	if !ward.HasNamed[T](tc.Container, name) {
		tc.tb.Fatalf("expected container to have %s", reflect.TypeKeyNamed[T](name))
	}
}

func AssertNotHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if ward.Has[T](tc.Container) {
		tc.tb.Fatalf("expected container to not have %s", reflect.TypeKey[T]())
	}
}

func MustInvoke[T any](tc *TestContainer) T {
	tc.tb.Helper()

	v, err := ward.Invoke[T](tc.Container)
	if err != nil {
		tc.tb.Fatalf("failed to invoke %s: %v", reflect.TypeKey[T](), err)
	}
	return v
}

func MustInvokeNamed[T any](tc *TestContainer, name string) T {
	tc.tb.Helper()

	v, err := ward.InvokeNamed[T](tc.Container, name)
	if err != nil {
		tc.tb.Fatalf("failed to invoke %s: %v", reflect.TypeKeyNamed[T](name), err)
	}
	return v
}

func MustProvide[T any](tc *TestContainer, provider ward.Provider[T], opts ...ward.ProviderOption) {
	tc.tb.Helper()

	if err := ward.Provide(tc.Container, provider, opts...); err != nil {
		tc.tb.Fatalf("failed to provide %s: %v", reflect.TypeKey[T](), err)
	}
}

func MustProvideValue[T any](tc *TestContainer, value T, opts ...ward.ProviderOption) {
	tc.tb.Helper()

	if err := ward.ProvideValue(tc.Container, value, opts...); err != nil {
		tc.tb.Fatalf("failed to provide value %s: %v", reflect.TypeKey[T](), err)
	}
}

func MustProvideNamed[T any](tc *TestContainer, name string, provider ward.Provider[T], opts ...ward.ProviderOption) {
	tc.tb.Helper()

	if err := ward.ProvideNamed(tc.Container, name, provider, opts...); err != nil {
		tc.tb.Fatalf("failed to provide %s: %v", reflect.TypeKeyNamed[T](name), err)
	}
}

func MustProvideNamedValue[T any](tc *TestContainer, name string, value T, opts ...ward.ProviderOption) {
	tc.tb.Helper()

	if err := ward.ProvideNamedValue(tc.Container, name, value, opts...); err != nil {
		tc.tb.Fatalf("failed to provide value %s: %v", reflect.TypeKeyNamed[T](name), err)
	}
}
