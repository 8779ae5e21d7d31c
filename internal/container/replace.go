package container

import "fmt"

// Replace swaps a descriptor's provider and dependency list in place,
// re-validating the graph (§4.B). Unlike test-mode mocking, this mutates
// the real registry permanently.
func (c *Container) Replace(key string, provider ProviderFunc, dependencies []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, exists := c.registry.Get(key)
	if !exists {
		return errUnregistered(key)
	}

	depSpecs := make([]DependencySpec, len(dependencies))
	for i, d := range dependencies {
		depSpecs[i] = DependencySpec{Key: d}
	}

	updated := *existing
	updated.Kind = KindConstructor
	updated.Provider = provider
	updated.Dependencies = depSpecs
	updated.Instance = nil
	updated.Instantiated = false

	c.graph.RemoveNode(key)
	c.registry.Register(&updated)
	c.graph.AddNode(key, dependencies)

	if c.graph.HasCycle() {
		c.registry.Register(existing)
		c.graph.RemoveNode(key)
		depKeys := make([]string, len(existing.Dependencies))
		for i, d := range existing.Dependencies {
			depKeys[i] = d.Key
		}
		c.graph.AddNode(key, depKeys)
		cyclePath := c.graph.FindCyclePath(key)
		return fmt.Errorf("circular dependency detected: %v", cyclePath)
	}

	return nil
}

// ReplaceValue swaps a descriptor for a fixed instance, bypassing
// construction entirely.
func (c *Container) ReplaceValue(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, exists := c.registry.Get(key)
	if !exists {
		return errUnregistered(key)
	}

	updated := *existing
	updated.Kind = KindInstance
	updated.Instance = value
	updated.Instantiated = true
	updated.Dependencies = nil

	c.graph.RemoveNode(key)
	c.registry.Register(&updated)
	c.graph.AddNode(key, nil)
	return nil
}
