package graph

// tarjan finds strongly connected components of size > 1 (a genuine
// cycle) or size 1 with a self-edge, using Tarjan's algorithm so a
// single pass covers graphs with several independent cycles at once.
type tarjan struct {
	graph   *ServiceGraph
	index   int
	stack   []string
	onStack map[string]bool
	indices map[string]int
	lowlink map[string]int
	sccs    [][]string
}

// DetectCycles returns every strongly connected component that forms a
// cycle: a group of two or more mutually dependent keys, or a single
// key that depends on itself.
func (g *ServiceGraph) DetectCycles() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	t := &tarjan{
		graph:   g,
		onStack: make(map[string]bool),
		indices: make(map[string]int),
		lowlink: make(map[string]int),
	}

	for key := range g.deps {
		if _, visited := t.indices[key]; !visited {
			t.strongConnect(key)
		}
	}

	var cycles [][]string
	for _, scc := range t.sccs {
		switch {
		case len(scc) > 1:
			cycles = append(cycles, scc)
		case len(scc) == 1:
			key := scc[0]
			for _, dep := range g.deps[key] {
				if dep == key {
					cycles = append(cycles, scc)
					break
				}
			}
		}
	}

	return cycles
}

func (t *tarjan) strongConnect(key string) {
	t.indices[key] = t.index
	t.lowlink[key] = t.index
	t.index++
	t.stack = append(t.stack, key)
	t.onStack[key] = true

	for _, dep := range t.graph.deps[key] {
		if _, registered := t.graph.deps[dep]; !registered {
			continue
		}

		if _, visited := t.indices[dep]; !visited {
			t.strongConnect(dep)
			t.lowlink[key] = min(t.lowlink[key], t.lowlink[dep])
		} else if t.onStack[dep] {
			t.lowlink[key] = min(t.lowlink[key], t.indices[dep])
		}
	}

	if t.lowlink[key] == t.indices[key] {
		var scc []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == key {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}

// HasCycle reports whether the graph currently contains a cycle. The
// result is cached until the next AddNode/RemoveNode, since Register
// calls this on every new entry and re-walking an unchanged graph each
// time would be wasted work.
func (g *ServiceGraph) HasCycle() bool {
	g.mu.RLock()
	if g.cycleValid {
		result := g.hasCycle
		g.mu.RUnlock()
		return result
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cycleValid {
		return g.hasCycle
	}

	g.hasCycle = g.hasCycleUnsafe()
	g.cycleValid = true
	return g.hasCycle
}

func (g *ServiceGraph) hasCycleUnsafe() bool {
	unvisited := make(map[string]bool, len(g.deps))
	onPath := make(map[string]bool, len(g.deps))

	for key := range g.deps {
		unvisited[key] = true
	}

	var dfs func(key string) bool
	dfs = func(key string) bool {
		unvisited[key] = false
		onPath[key] = true

		for _, dep := range g.deps[key] {
			if _, registered := g.deps[dep]; !registered {
				continue
			}
			if onPath[dep] {
				return true
			}
			if unvisited[dep] && dfs(dep) {
				return true
			}
		}

		onPath[key] = false
		return false
	}

	for key := range g.deps {
		if unvisited[key] && dfs(key) {
			return true
		}
	}

	return false
}

// FindCyclePath walks from start and returns the first cycle reached,
// as the ordered chain of keys (e.g. [A, B, A]) the container reports
// in its cyclic-dependency error.
func (g *ServiceGraph) FindCyclePath(start string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[string]bool)
	var path []string
	inPath := make(map[string]bool)

	var dfs func(key string) []string
	dfs = func(key string) []string {
		if inPath[key] {
			var cycle []string
			found := false
			for _, p := range path {
				if p == key {
					found = true
				}
				if found {
					cycle = append(cycle, p)
				}
			}
			return append(cycle, key)
		}

		if visited[key] {
			return nil
		}

		visited[key] = true
		path = append(path, key)
		inPath[key] = true

		for _, dep := range g.deps[key] {
			if _, registered := g.deps[dep]; !registered {
				continue
			}
			if cycle := dfs(dep); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		inPath[key] = false
		return nil
	}

	return dfs(start)
}

// GetAllCyclePaths resolves every detected cycle to a concrete chain,
// for diagnostics that want to list all of them rather than just the
// one that blocked registration.
func (g *ServiceGraph) GetAllCyclePaths() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	cycles := g.DetectCycles()
	if len(cycles) == 0 {
		return nil
	}

	var allPaths [][]string
	for _, scc := range cycles {
		if len(scc) == 0 {
			continue
		}
		if path := g.FindCyclePath(scc[0]); path != nil {
			allPaths = append(allPaths, path)
		}
	}

	return allPaths
}
