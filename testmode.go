package ward

import "github.com/ashbourne/ward/internal/reflect"

// EnableTestMode activates the mock overlay (§4.H). While active, Resolve
// consults mocked keys before the registry. This is distinct from
// Replace: mocks never touch the real registry and DisableTestMode
// evicts only the singleton instances built while the overlay was
// active, leaving pre-existing cache entries untouched.
func (c *Container) EnableTestMode() {
	c.internal.EnableTestMode()
}

func (c *Container) DisableTestMode() {
	c.internal.DisableTestMode()
}

func (c *Container) IsTestMode() bool {
	return c.internal.IsTestMode()
}

func Mock[T any](c *Container, value T) {
	c.internal.Mock(reflect.TypeKey[T](), value)
}

func MockNamed[T any](c *Container, name string, value T) {
	c.internal.Mock(reflect.TypeKeyNamed[T](name), value)
}

func Unmock[T any](c *Container) {
	c.internal.Unmock(reflect.TypeKey[T]())
}

func UnmockNamed[T any](c *Container, name string) {
	c.internal.Unmock(reflect.TypeKeyNamed[T](name))
}
