// # internal/graph/graph.go
package graph

import (
	"sort"

	"terradep/internal/registry"
)

// Graph is the immutable dependency graph for one analysis run. Nodes are the
// defined modules; an edge A -> B means B depends on A, so walking forward
// from A reaches everything a change to A can break.
type Graph struct {
	nodes []string
	index map[string]int
	// adjacency is indexed by node position; targets are sorted and unique.
	adjacency [][]int
	edgeCount int
}

// Build derives the graph from a fully merged registry. Dangling descriptors
// contribute no nodes and no edges; dependencies on them simply do not
// resolve. Build must not run while files are still merging.
func Build(reg *registry.Registry) *Graph {
	names := reg.DefinedNames()

	g := &Graph{
		nodes:     names,
		index:     make(map[string]int, len(names)),
		adjacency: make([][]int, len(names)),
	}
	for i, name := range names {
		g.index[name] = i
	}

	for i, name := range names {
		desc, ok := reg.Get(name)
		if !ok {
			continue
		}
		for _, dep := range desc.DirectDependencies {
			g.addEdge(dep, i)
		}
		for _, dep := range desc.ExternalDependencies {
			g.addEdge(dep, i)
		}
	}

	for i := range g.adjacency {
		g.adjacency[i] = dedupeSorted(g.adjacency[i])
		g.edgeCount += len(g.adjacency[i])
	}
	return g
}

// addEdge records dep -> dependent when the dependency names a defined node.
func (g *Graph) addEdge(dep string, dependent int) {
	from, ok := g.index[dep]
	if !ok {
		return
	}
	g.adjacency[from] = append(g.adjacency[from], dependent)
}

// Nodes returns the node names in sorted order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodes...)
}

func (g *Graph) NodeCount() int { return len(g.nodes) }

func (g *Graph) EdgeCount() int { return g.edgeCount }

func (g *Graph) HasNode(name string) bool {
	_, ok := g.index[name]
	return ok
}

// Dependents returns the modules directly depending on name, sorted.
func (g *Graph) Dependents(name string) []string {
	from, ok := g.index[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.adjacency[from]))
	for _, to := range g.adjacency[from] {
		out = append(out, g.nodes[to])
	}
	return out
}

func dedupeSorted(targets []int) []int {
	if len(targets) == 0 {
		return targets
	}
	sort.Ints(targets)
	out := targets[:1]
	for _, t := range targets[1:] {
		if t != out[len(out)-1] {
			out = append(out, t)
		}
	}
	return out
}
