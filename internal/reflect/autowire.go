package reflect

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldInfo describes one struct-tag-annotated field found by StructFields.
type FieldInfo struct {
	Name     string
	Index    int
	TypeKey  string
	Named    string
	Optional bool
}

// Key returns the registry key the field resolves against — TypeKey
// itself, or TypeKey's named variant when the tag carried a bare name.
func (f FieldInfo) Key() string {
	return JoinNamed(f.TypeKey, f.Named)
}

// StructFields walks the exported fields of T (or *T) and collects those
// carrying the given struct tag, e.g. `ward:",optional"` or
// `ward:"primary"`. Fields without the tag are left alone.
func StructFields[T any](tagKey string) ([]FieldInfo, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		t = reflect.TypeOf((*T)(nil)).Elem()
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("autowire: %s is not a struct", t)
	}

	var fields []FieldInfo
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, ok := sf.Tag.Lookup(tagKey)
		if !ok || tag == "-" {
			continue
		}

		info := FieldInfo{
			Name:    sf.Name,
			Index:   i,
			TypeKey: typeKeyFromReflect(sf.Type),
		}

		for j, part := range strings.Split(tag, ",") {
			part = strings.TrimSpace(part)
			switch {
			case part == "":
			case part == "optional":
				info.Optional = true
			case j == 0:
				info.Named = part
			}
		}

		fields = append(fields, info)
	}

	return fields, nil
}

// ParamInfo describes one positional parameter of a constructor function
// passed to ProvideFunc.
type ParamInfo struct {
	TypeKey string
	Type    reflect.Type
}

// FuncParams validates that fn is a function returning at least one value
// (optionally a trailing error) and reports its parameter types and first
// return type.
func FuncParams(fn any) ([]ParamInfo, reflect.Type, error) {
	if fn == nil {
		return nil, nil, fmt.Errorf("autowire: constructor must not be nil")
	}

	fnType := reflect.TypeOf(fn)
	if fnType.Kind() != reflect.Func {
		return nil, nil, fmt.Errorf("autowire: constructor must be a function, got %s", fnType.Kind())
	}
	if fnType.NumOut() == 0 {
		return nil, nil, fmt.Errorf("autowire: constructor must return at least one value")
	}
	if fnType.NumOut() > 2 {
		return nil, nil, fmt.Errorf("autowire: constructor must return (T) or (T, error)")
	}

	params := make([]ParamInfo, fnType.NumIn())
	for i := 0; i < fnType.NumIn(); i++ {
		pt := fnType.In(i)
		params[i] = ParamInfo{
			TypeKey: typeKeyFromReflect(pt),
			Type:    pt,
		}
	}

	return params, fnType.Out(0), nil
}
