package gen

import (
	"slices"
	"sort"
)

// ExecutionPlan is the validated, topologically ordered plugin schedule of a
// single run. It is built once during the validating phase, consumed by the
// declare and render phases, and discarded with the run.
type ExecutionPlan struct {
	plugins   []Plugin
	order     []int
	providers map[Capability]int
}

// newExecutionPlan validates the plugin list and computes the execution
// order. Plugins are held by registration index; all graph work happens over
// those indices. Validation fails fast, in order: duplicate plugin names,
// malformed capabilities, conflicting providers, unsatisfied requirements,
// dependency cycles.
func newExecutionPlan(plugins []Plugin) (*ExecutionPlan, error) {
	names := make(map[string]struct{}, len(plugins))
	for _, p := range plugins {
		if _, ok := names[p.Name()]; ok {
			return nil, NewDuplicatePluginError(p.Name())
		}
		names[p.Name()] = struct{}{}
	}
	for _, p := range plugins {
		for _, c := range p.Provides() {
			if err := c.Validate(); err != nil {
				return nil, NewPluginError(p.Name(), PhaseValidating, err)
			}
		}
		for _, c := range p.Requires() {
			if err := c.Validate(); err != nil {
				return nil, NewPluginError(p.Name(), PhaseValidating, err)
			}
		}
	}

	// Providing a capability implies providing all its prefixes, so the
	// provider map is built over the expanded provides. Two plugins
	// landing on the identical expanded string is a conflict; a plugin
	// re-claiming its own expansion is not.
	providers := make(map[Capability]int)
	for i, p := range plugins {
		for _, c := range p.Provides() {
			for _, exp := range c.Expand() {
				if prev, ok := providers[exp]; ok && prev != i {
					return nil, NewConflictError(exp, plugins[prev].Name(), p.Name())
				}
				providers[exp] = i
			}
		}
	}

	adj := make([][]int, len(plugins))
	seen := make([]map[int]struct{}, len(plugins))
	addEdge := func(from, to int) {
		if from == to {
			return
		}
		if seen[from] == nil {
			seen[from] = make(map[int]struct{})
		}
		if _, ok := seen[from][to]; ok {
			return
		}
		seen[from][to] = struct{}{}
		adj[from] = append(adj[from], to)
	}
	for i, p := range plugins {
		for _, c := range p.Requires() {
			provider, ok := providers[c]
			if !ok {
				return nil, NewUnsatisfiedError(p.Name(), c)
			}
			addEdge(provider, i)
		}
	}
	for _, edges := range adj {
		slices.Sort(edges)
	}

	if comps := cyclicComponents(adj); len(comps) > 0 {
		comp := comps[0]
		for _, c := range comps[1:] {
			if slices.Min(c) < slices.Min(comp) {
				comp = c
			}
		}
		return nil, NewCycleError(cyclePath(plugins, adj, comp))
	}

	return &ExecutionPlan{
		plugins:   plugins,
		order:     kahn(adj),
		providers: providers,
	}, nil
}

// Plugins returns the plugins in execution order.
func (p *ExecutionPlan) Plugins() []Plugin {
	out := make([]Plugin, len(p.order))
	for i, idx := range p.order {
		out[i] = p.plugins[idx]
	}
	return out
}

// Names returns the plugin names in execution order.
func (p *ExecutionPlan) Names() []string {
	out := make([]string, len(p.order))
	for i, idx := range p.order {
		out[i] = p.plugins[idx].Name()
	}
	return out
}

// Provider returns the name of the plugin providing the capability, matching
// against the expanded provides of every plugin.
func (p *ExecutionPlan) Provider(c Capability) (string, bool) {
	idx, ok := p.providers[c]
	if !ok {
		return "", false
	}
	return p.plugins[idx].Name(), true
}

// cyclicComponents returns the strongly connected components with more than
// one member, using Tarjan's algorithm over the adjacency lists.
func cyclicComponents(adj [][]int) [][]int {
	n := len(adj)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var (
		stack  []int
		next   int
		comps  [][]int
		strong func(v int)
	)
	strong = func(v int) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true
		for _, w := range adj[v] {
			if index[w] == -1 {
				strong(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}
		if low[v] == index[v] {
			var comp []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			if len(comp) > 1 {
				comps = append(comps, comp)
			}
		}
	}
	for v := 0; v < n; v++ {
		if index[v] == -1 {
			strong(v)
		}
	}
	return comps
}

// cyclePath reconstructs a cycle through the component as an ordered list of
// plugin names. The walk starts at the component's lowest registration index
// and follows in-component edges in index order until it can close on the
// start; the edge from the last name back to the first is implied.
func cyclePath(plugins []Plugin, adj [][]int, comp []int) []string {
	inComp := make(map[int]bool, len(comp))
	for _, v := range comp {
		inComp[v] = true
	}
	start := slices.Min(comp)
	visited := make(map[int]bool)
	var (
		path []int
		walk func(v int) bool
	)
	walk = func(v int) bool {
		path = append(path, v)
		visited[v] = true
		for _, w := range adj[v] {
			if !inComp[w] {
				continue
			}
			if w == start {
				return true
			}
			if !visited[w] && walk(w) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}
	walk(start)
	names := make([]string, len(path))
	for i, v := range path {
		names[i] = plugins[v].Name()
	}
	return names
}

// kahn computes a topological order. The ready queue is kept sorted by
// registration index, so independent plugins run in the order they were
// registered.
func kahn(adj [][]int) []int {
	n := len(adj)
	indegree := make([]int, n)
	for _, edges := range adj {
		for _, w := range edges {
			indegree[w]++
		}
	}
	ready := make([]int, 0, n)
	for v := 0; v < n; v++ {
		if indegree[v] == 0 {
			ready = append(ready, v)
		}
	}
	order := make([]int, 0, n)
	for len(ready) > 0 {
		v := ready[0]
		ready = ready[1:]
		order = append(order, v)
		for _, w := range adj[v] {
			indegree[w]--
			if indegree[w] == 0 {
				i := sort.SearchInts(ready, w)
				ready = slices.Insert(ready, i, w)
			}
		}
	}
	return order
}
