// # internal/graph/impact.go
package graph

// Impact returns every module transitively affected by a change to name,
// sorted. The node itself is excluded even when it sits on a cycle; a module
// "affecting itself" adds nothing to a blast-radius report.
func (g *Graph) Impact(name string) []string {
	src, ok := g.index[name]
	if !ok {
		return nil
	}

	visited := make([]bool, len(g.nodes))
	queue := append([]int(nil), g.adjacency[src]...)
	for _, w := range queue {
		visited[w] = true
	}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range g.adjacency[v] {
			if !visited[w] {
				visited[w] = true
				queue = append(queue, w)
			}
		}
	}
	visited[src] = false

	out := make([]string, 0)
	for v, ok := range visited {
		if ok {
			out = append(out, g.nodes[v])
		}
	}
	return out
}

// ImpactAll computes the impact set for every node.
func (g *Graph) ImpactAll() map[string][]string {
	out := make(map[string][]string, len(g.nodes))
	for _, name := range g.nodes {
		out[name] = g.Impact(name)
	}
	return out
}
