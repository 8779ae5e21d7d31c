// Package reflect builds the string keys the registry indexes services
// by. A key is derived from a Go type (its package path plus name, with
// the usual pointer/slice/map/chan decorations) and, for named
// bindings, a "#name" suffix — so "*bytes.Buffer" and
// "*bytes.Buffer#primary" are distinct registry entries for the same
// Go type.
package reflect

import (
	"reflect"
	"sync"
)

var typeKeyCache sync.Map

// TypeKey computes the registry key for T, memoizing the result per
// reflect.Type since the same type is looked up on every Provide and
// every Resolve.
func TypeKey[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeOf((*T)(nil)).Elem()
	}
	return typeKeyFromReflect(t)
}

func typeKeyFromReflect(t reflect.Type) string {
	if cached, ok := typeKeyCache.Load(t); ok {
		return cached.(string)
	}

	key := buildTypeKey(t)
	typeKeyCache.Store(t, key)
	return key
}

func buildTypeKey(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Ptr:
		return "*" + buildTypeKey(t.Elem())
	case reflect.Slice:
		return "[]" + buildTypeKey(t.Elem())
	case reflect.Array:
		return "[" + string(rune(t.Len())) + "]" + buildTypeKey(t.Elem())
	case reflect.Map:
		return "map[" + buildTypeKey(t.Key()) + "]" + buildTypeKey(t.Elem())
	case reflect.Chan:
		switch t.ChanDir() {
		case reflect.RecvDir:
			return "<-chan " + buildTypeKey(t.Elem())
		case reflect.SendDir:
			return "chan<- " + buildTypeKey(t.Elem())
		default:
			return "chan " + buildTypeKey(t.Elem())
		}
	case reflect.Func:
		return t.String()
	default:
		if t.PkgPath() != "" {
			return t.PkgPath() + "." + t.Name()
		}
		return t.Name()
	}
}

// TypeKeyFromValue computes the registry key for v's dynamic type,
// used where only an any value is in hand (decorator and property
// injection targets).
func TypeKeyFromValue(v any) string {
	if v == nil {
		return "<nil>"
	}
	return typeKeyFromReflect(reflect.TypeOf(v))
}

// JoinNamed appends a named-binding suffix to a base key. Every call
// site that builds a named key — ProvideNamed, the bind/module named
// bindings, autowired struct-tag fields — goes through this so the
// "#" separator lives in one place.
func JoinNamed(key, name string) string {
	if name == "" {
		return key
	}
	return key + "#" + name
}

func TypeKeyNamed[T any](name string) string {
	return JoinNamed(TypeKey[T](), name)
}

// IsNil reports whether v is nil, including a typed nil pointer,
// interface, map, slice, channel or func — the cases reflect.ValueOf
// needs a Kind switch to catch that a plain `v == nil` comparison
// would miss.
func IsNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

func TypeName[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeOf((*T)(nil)).Elem()
	}
	return t.String()
}

func IsInterface[T any]() bool {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t.Kind() == reflect.Interface
}

func Implements[T any](v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	return reflect.TypeOf(v).Implements(t)
}
