package ward

import (
	"context"
	"fmt"
	reflectPkg "reflect"

	"github.com/ashbourne/ward/internal/reflect"
)

// TagKey is the struct tag autowiring reads: `ward:""` injects by type,
// `ward:"primary"` by a bare name, and a trailing `,optional` on either
// form makes the field best-effort. It is the declarative counterpart
// of WithPropertyInjection/WithOptionalPropertyInjection — ProvideStruct
// compiles tags down to exactly those options rather than resolving and
// setting fields through a separate path.
const TagKey = "ward"

// InvokeStruct builds a T by resolving every ward-tagged field directly
// against c, without registering T as a service. Use ProvideStruct
// instead when T should be resolvable like any other dependency.
func InvokeStruct[T any](c *Container) (T, error) {
	return InvokeStructCtx[T](context.Background(), c)
}

func InvokeStructCtx[T any](ctx context.Context, c *Container) (T, error) {
	var zero T

	t := reflectPkg.TypeOf(zero)
	isPtr := t.Kind() == reflectPkg.Ptr
	if isPtr {
		t = t.Elem()
	}

	if t.Kind() != reflectPkg.Struct {
		return zero, fmt.Errorf("InvokeStruct requires a struct type, got %s", t.Kind())
	}

	fields, err := reflect.StructFields[T](TagKey)
	if err != nil {
		return zero, err
	}

	structVal := reflectPkg.New(t).Elem()

	for _, field := range fields {
		key := field.Key()

		if !c.internal.Has(key) {
			if field.Optional {
				continue
			}
			return zero, errServiceNotFound(key)
		}

		instance, err := c.internal.Resolve(ctx, key)
		if err != nil {
			if field.Optional {
				continue
			}
			return zero, errResolutionFailed(field.Name, err)
		}

		fieldVal := structVal.Field(field.Index)
		if !fieldVal.CanSet() {
			return zero, fmt.Errorf("cannot set field %s (unexported)", field.Name)
		}

		instanceVal := reflectPkg.ValueOf(instance)
		if !instanceVal.Type().AssignableTo(fieldVal.Type()) {
			return zero, fmt.Errorf(
				"cannot assign %s to field %s of type %s",
				instanceVal.Type(), field.Name, fieldVal.Type(),
			)
		}

		fieldVal.Set(instanceVal)
	}

	if isPtr {
		ptr := reflectPkg.New(t)
		ptr.Elem().Set(structVal)
		return ptr.Interface().(T), nil
	}

	return structVal.Interface().(T), nil
}

// ProvideFunc registers constructor, a plain function of the form
// func(Dep1, Dep2, ...) (T, error), as T's provider. Its parameter
// types are resolved positionally and become T's dependency list — the
// reflective alternative to writing out a Provider[T] closure by hand.
func ProvideFunc[T any](c *Container, constructor any, opts ...ProviderOption) error {
	params, returnType, err := reflect.FuncParams(constructor)
	if err != nil {
		return err
	}

	if returnType == nil {
		return fmt.Errorf("constructor must return at least one value")
	}

	expectedType := reflectPkg.TypeOf((*T)(nil)).Elem()
	if !returnType.AssignableTo(expectedType) {
		return fmt.Errorf("constructor returns %s, expected %s", returnType, expectedType)
	}

	fnVal := reflectPkg.ValueOf(constructor)
	fnType := fnVal.Type()

	hasError := fnType.NumOut() == 2 && fnType.Out(1).Implements(reflectPkg.TypeOf((*error)(nil)).Elem())

	deps := make([]string, len(params))
	for i, p := range params {
		deps[i] = p.TypeKey
	}

	provider := func(ctx context.Context, r Resolver) (T, error) {
		var zero T

		args := make([]reflectPkg.Value, len(params))
		for i, p := range params {
			instance, err := c.internal.Resolve(ctx, p.TypeKey)
			if err != nil {
				return zero, fmt.Errorf("failed to resolve parameter %d (%s): %w", i, p.TypeKey, err)
			}
			args[i] = reflectPkg.ValueOf(instance)
		}

		results := fnVal.Call(args)

		if hasError && len(results) == 2 && !results[1].IsNil() {
			return zero, results[1].Interface().(error)
		}

		return results[0].Interface().(T), nil
	}

	opts = append([]ProviderOption{WithDependencies(deps...)}, opts...)
	return Provide(c, provider, opts...)
}

func MustProvideFunc[T any](c *Container, constructor any, opts ...ProviderOption) {
	if err := ProvideFunc[T](c, constructor, opts...); err != nil {
		panic(err)
	}
}

// ProvideStruct registers T as a service whose fields are populated
// entirely from its ward struct tags. For a pointer-to-struct T, the
// resolution isn't done inline: every tagged field becomes a
// WithPropertyInjection (or WithOptionalPropertyInjection) option on an
// otherwise empty constructor, so the container's own post-construction
// injection path — the same one WithPropertyInjection uses — builds it,
// and the field's dependency shows up in Graph() and the cycle checker
// like any other declared dependency. A value-typed T falls back to
// InvokeStructCtx, since property injection needs an addressable
// pointer to set fields on.
func ProvideStruct[T any](c *Container, opts ...ProviderOption) error {
	t := reflectPkg.TypeOf((*T)(nil)).Elem()
	isPtr := t.Kind() == reflectPkg.Ptr

	fields, err := reflect.StructFields[T](TagKey)
	if err != nil {
		return err
	}

	if !isPtr {
		provider := func(ctx context.Context, r Resolver) (T, error) {
			return InvokeStructCtx[T](ctx, c)
		}

		deps := make([]string, 0, len(fields))
		for _, f := range fields {
			if !f.Optional {
				deps = append(deps, f.Key())
			}
		}

		opts = append([]ProviderOption{WithDependencies(deps...)}, opts...)
		return Provide(c, provider, opts...)
	}

	elemType := t.Elem()
	provider := func(ctx context.Context, r Resolver) (T, error) {
		return reflectPkg.New(elemType).Interface().(T), nil
	}

	injectionOpts := make([]ProviderOption, 0, len(fields)+1)
	deps := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Optional {
			injectionOpts = append(injectionOpts, WithOptionalPropertyInjection(f.Name, f.Key()))
		} else {
			injectionOpts = append(injectionOpts, WithPropertyInjection(f.Name, f.Key()))
			deps = append(deps, f.Key())
		}
	}
	injectionOpts = append(injectionOpts, WithDependencies(deps...))

	opts = append(injectionOpts, opts...)
	return Provide(c, provider, opts...)
}

func MustProvideStruct[T any](c *Container, opts ...ProviderOption) {
	if err := ProvideStruct[T](c, opts...); err != nil {
		panic(err)
	}
}
