// # internal/graph/paths.go
package graph

import "fmt"

// PathSet holds the simple paths found between ordered node pairs, keyed
// "src->dst". Pairs with no path are absent. Truncated carries one message
// per pair whose enumeration hit the cap.
type PathSet struct {
	Paths     map[string][][]string
	Truncated []string
}

// PairKey formats the map key for one ordered pair.
func PairKey(src, dst string) string {
	return src + "->" + dst
}

// AllPaths enumerates every simple path between every ordered pair of
// distinct nodes. maxPerPair bounds the paths kept for one pair; zero or
// negative means unbounded. Dense graphs are exponential here, which is why
// the cap exists: a truncated pair still reports its first maxPerPair paths
// plus a warning instead of hanging the run.
func (g *Graph) AllPaths(maxPerPair int) *PathSet {
	set := &PathSet{Paths: make(map[string][][]string)}

	for src := range g.nodes {
		reachable := g.reachableFrom(src)
		for _, dst := range reachable {
			if dst == src {
				continue
			}
			paths, truncated := g.simplePaths(src, dst, maxPerPair)
			if len(paths) == 0 {
				continue
			}
			key := PairKey(g.nodes[src], g.nodes[dst])
			set.Paths[key] = paths
			if truncated {
				set.Truncated = append(set.Truncated,
					fmt.Sprintf("path enumeration for %s stopped at %d paths", key, maxPerPair))
			}
		}
	}
	return set
}

// simplePaths collects the simple paths src -> dst via depth-first search
// with an on-path mark. Neighbor order is the sorted adjacency, so output
// order is stable.
func (g *Graph) simplePaths(src, dst, maxPerPair int) ([][]string, bool) {
	var out [][]string
	truncated := false

	onPath := make([]bool, len(g.nodes))
	path := []int{src}
	onPath[src] = true

	var walk func(v int) bool
	walk = func(v int) bool {
		if v == dst {
			// The cap marks truncation only when a path beyond it actually
			// exists, so a pair with exactly maxPerPair paths stays clean.
			if maxPerPair > 0 && len(out) >= maxPerPair {
				truncated = true
				return false
			}
			out = append(out, renderPath(path, g.nodes))
			return true
		}
		for _, w := range g.adjacency[v] {
			if onPath[w] {
				continue
			}
			path = append(path, w)
			onPath[w] = true
			keepGoing := walk(w)
			onPath[w] = false
			path = path[:len(path)-1]
			if !keepGoing {
				return false
			}
		}
		return true
	}
	walk(src)

	return out, truncated
}

// reachableFrom returns the nodes reachable from src in index order,
// excluding src unless it sits on a cycle back to itself.
func (g *Graph) reachableFrom(src int) []int {
	visited := make([]bool, len(g.nodes))
	queue := []int{src}
	visited[src] = true
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
	var out []int
	for v, ok := range visited {
		if ok && v != src {
			out = append(out, v)
		}
	}
	return out
}

func renderPath(path []int, names []string) []string {
	out := make([]string, len(path))
	for i, v := range path {
		out[i] = names[v]
	}
	return out
}
