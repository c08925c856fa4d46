// # internal/graph/cycles.go
package graph

import (
	"sort"
	"strings"
)

// Cycles enumerates every elementary cycle, each reported exactly once and
// rotated so its lexicographically smallest node comes first. The result is
// sorted, so two runs over the same tree always agree.
//
// This is Johnson's circuit enumeration: for each start node s, the search is
// confined to the strongly connected component of s within the subgraph of
// nodes >= s, and the blocked set prunes vertices that cannot reach s again.
func (g *Graph) Cycles() [][]string {
	n := len(g.nodes)
	blocked := make([]bool, n)
	blockList := make([][]int, n)
	var stack []int

	seen := make(map[string]bool)
	var cycles [][]string

	emit := func(path []int) {
		cycle := canonicalize(path, g.nodes)
		key := strings.Join(cycle, "\x00")
		if seen[key] {
			return
		}
		seen[key] = true
		cycles = append(cycles, cycle)
	}

	var unblock func(v int)
	unblock = func(v int) {
		blocked[v] = false
		pending := blockList[v]
		blockList[v] = nil
		for _, w := range pending {
			if blocked[w] {
				unblock(w)
			}
		}
	}

	// comp holds the adjacency of the current component; nil rows are outside
	// of it.
	var comp [][]int

	var circuit func(v, s int) bool
	circuit = func(v, s int) bool {
		found := false
		stack = append(stack, v)
		blocked[v] = true

		for _, w := range comp[v] {
			if w == s {
				emit(stack)
				found = true
			} else if !blocked[w] {
				if circuit(w, s) {
					found = true
				}
			}
		}

		if found {
			unblock(v)
		} else {
			for _, w := range comp[v] {
				blockList[w] = append(blockList[w], v)
			}
		}
		stack = stack[:len(stack)-1]
		return found
	}

	for s := 0; s < n; s++ {
		if containsInt(g.adjacency[s], s) {
			emit([]int{s})
		}

		members := g.componentOf(s)
		if len(members) < 2 {
			continue
		}
		comp = make([][]int, n)
		inComp := make(map[int]bool, len(members))
		for _, v := range members {
			inComp[v] = true
		}
		for _, v := range members {
			row := make([]int, 0, len(g.adjacency[v]))
			for _, w := range g.adjacency[v] {
				if inComp[w] && w != v {
					row = append(row, w)
				}
			}
			comp[v] = row
			blocked[v] = false
			blockList[v] = nil
		}

		circuit(s, s)
	}

	sortCycles(cycles)
	return cycles
}

// componentOf runs Tarjan over the subgraph of nodes >= s and returns the
// strongly connected component containing s.
func (g *Graph) componentOf(s int) []int {
	n := len(g.nodes)
	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}
	var stack []int
	counter := 0
	var result []int

	var connect func(v int)
	connect = func(v int) {
		index[v] = counter
		lowlink[v] = counter
		counter++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.adjacency[v] {
			if w < s {
				continue
			}
			if index[w] < 0 {
				connect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && index[w] < lowlink[v] {
				lowlink[v] = index[w]
			}
		}

		if lowlink[v] == index[v] {
			var members []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				members = append(members, w)
				if w == v {
					break
				}
			}
			for _, m := range members {
				if m == s {
					result = members
				}
			}
		}
	}

	connect(s)
	return result
}

// canonicalize rotates the cycle so its smallest name leads.
func canonicalize(path []int, names []string) []string {
	cycle := make([]string, len(path))
	best := 0
	for i, v := range path {
		cycle[i] = names[v]
		if cycle[i] < cycle[best] {
			best = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[best:]...)
	rotated = append(rotated, cycle[:best]...)
	return rotated
}

func sortCycles(cycles [][]string) {
	sort.Slice(cycles, func(i, j int) bool {
		a, b := cycles[i], cycles[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
}

func containsInt(sorted []int, v int) bool {
	for _, x := range sorted {
		if x == v {
			return true
		}
		if x > v {
			return false
		}
	}
	return false
}
