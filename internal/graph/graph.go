// Package graph tracks the dependency edges between registered service
// keys and answers the questions the container needs of them: is there
// a cycle, what order do services start and stop in, and which keys
// point at which.
package graph

import "sync"

// ServiceGraph is a directed graph where each node is a service key and
// each edge points from a service to something it depends on. A key's
// presence as a map entry (even with a nil dependency slice) is what
// makes it a registered node; Validate uses that distinction to find
// dependencies nothing ever registered.
type ServiceGraph struct {
	mu         sync.RWMutex
	deps       map[string][]string
	cycleValid bool
	hasCycle   bool
}

func New() *ServiceGraph {
	return &ServiceGraph{deps: make(map[string][]string)}
}

// AddNode records key's dependency list, replacing any prior one.
// Invalidates the cached cycle check.
func (g *ServiceGraph) AddNode(key string, dependencies []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.deps[key] = dependencies
	g.cycleValid = false
}

func (g *ServiceGraph) RemoveNode(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.deps, key)
	g.cycleValid = false
}

func (g *ServiceGraph) GetDependencies(key string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	deps, exists := g.deps[key]
	if !exists {
		return nil
	}

	result := make([]string, len(deps))
	copy(result, deps)
	return result
}

// GetDependents returns every registered key that lists key as a
// dependency, used by the debug graph to render reverse edges.
func (g *ServiceGraph) GetDependents(key string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var dependents []string
	for node, deps := range g.deps {
		for _, dep := range deps {
			if dep == key {
				dependents = append(dependents, node)
				break
			}
		}
	}
	return dependents
}

// Clone returns an independent copy, used by Container.Graph so callers
// can inspect the dependency structure without holding the live lock.
func (g *ServiceGraph) Clone() *ServiceGraph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clone := New()
	for key, deps := range g.deps {
		d := make([]string, len(deps))
		copy(d, deps)
		clone.deps[key] = d
	}
	return clone
}

// Validate returns every dependency key referenced by some node but
// never registered itself.
func (g *ServiceGraph) Validate() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var missing []string
	seen := make(map[string]bool)

	for _, deps := range g.deps {
		for _, dep := range deps {
			if _, exists := g.deps[dep]; !exists && !seen[dep] {
				missing = append(missing, dep)
				seen[dep] = true
			}
		}
	}

	return missing
}
