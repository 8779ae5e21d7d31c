package graph

import "errors"

var ErrCycleDetected = errors.New("cycle detected in graph")

// TopologicalSort orders every registered key so each one appears after
// everything it depends on — the order Container.Start brings services
// up in.
func (g *ServiceGraph) TopologicalSort() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodeCount := len(g.deps)
	dependents := make(map[string][]string, nodeCount)
	inDegree := make(map[string]int, nodeCount)

	for key := range g.deps {
		inDegree[key] = 0
	}

	for key, deps := range g.deps {
		for _, dep := range deps {
			if _, exists := g.deps[dep]; exists {
				dependents[dep] = append(dependents[dep], key)
				inDegree[key]++
			}
		}
	}

	var queue []string
	for key, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, key)
		}
	}

	var sorted []string
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		sorted = append(sorted, key)

		for _, dependent := range dependents[key] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) != len(g.deps) {
		return nil, ErrCycleDetected
	}

	return sorted, nil
}

// ReverseTopologicalSort is TopologicalSort with the order flipped —
// the order Container.Stop tears services down in, so nothing is
// disposed before the things that depend on it.
func (g *ServiceGraph) ReverseTopologicalSort() ([]string, error) {
	sorted, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	n := len(sorted)
	reversed := make([]string, n)
	for i, v := range sorted {
		reversed[n-1-i] = v
	}

	return reversed, nil
}

func (g *ServiceGraph) StartupOrder() ([]string, error) {
	return g.TopologicalSort()
}

func (g *ServiceGraph) ShutdownOrder() ([]string, error) {
	return g.ReverseTopologicalSort()
}

// ParallelGroup is a batch of keys that share a dependency depth and so
// can start (or stop) concurrently with one another.
type ParallelGroup struct {
	Level int
	Nodes []string
}

// ParallelStartupGroups buckets every key by the length of its longest
// dependency chain, so Container.Start can run each level's hooks
// concurrently while still respecting cross-level ordering.
func (g *ServiceGraph) ParallelStartupGroups() ([]ParallelGroup, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	levels := make(map[string]int, len(g.deps))

	var depth func(key string) int
	depth = func(key string) int {
		if level, ok := levels[key]; ok {
			return level
		}

		deps := g.deps[key]
		if len(deps) == 0 {
			levels[key] = 0
			return 0
		}

		maxDepLevel := -1
		for _, dep := range deps {
			if _, exists := g.deps[dep]; !exists {
				continue
			}
			if depLevel := depth(dep); depLevel > maxDepLevel {
				maxDepLevel = depLevel
			}
		}

		level := maxDepLevel + 1
		levels[key] = level
		return level
	}

	for key := range g.deps {
		depth(key)
	}

	groupMap := make(map[int][]string)
	maxLevel := 0
	for key, level := range levels {
		groupMap[level] = append(groupMap[level], key)
		if level > maxLevel {
			maxLevel = level
		}
	}

	groups := make([]ParallelGroup, 0, maxLevel+1)
	for level := 0; level <= maxLevel; level++ {
		if keys, ok := groupMap[level]; ok {
			groups = append(groups, ParallelGroup{Level: level, Nodes: keys})
		}
	}

	return groups, nil
}

func (g *ServiceGraph) ParallelShutdownGroups() ([]ParallelGroup, error) {
	groups, err := g.ParallelStartupGroups()
	if err != nil {
		return nil, err
	}

	n := len(groups)
	reversed := make([]ParallelGroup, n)
	for i, group := range groups {
		reversed[n-1-i] = ParallelGroup{Level: group.Level, Nodes: group.Nodes}
	}

	return reversed, nil
}
