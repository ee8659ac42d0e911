package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pgerd/pgerd/pkg/graph"
	"github.com/pgerd/pgerd/pkg/schema"
)

// Levels assigns each table of the graph a layer. Tables nothing points at
// sit on level 0 and every other table sits one level past the deepest
// table it references, so targets always render above their referencers.
// Tables on a reference cycle collapse into one strongly connected
// component whose members share a level; each such component is reported
// with a cycle_broken warning. A table referencing itself does not count
// as a cycle and does not influence leveling.
func Levels(g *graph.Graph) (map[schema.Identifier]int, []schema.Warning) {
	nodes := g.Nodes()
	levels := make(map[schema.Identifier]int, len(nodes))
	if len(nodes) == 0 {
		return levels, nil
	}

	// Leveling edges run from the referenced table to its referencers.
	succ := make(map[schema.Identifier][]schema.Identifier, len(nodes))
	for _, e := range g.Edges() {
		if e.From == e.To {
			continue
		}
		succ[e.To] = append(succ[e.To], e.From)
	}

	comp, members := condense(nodes, succ)

	indegree := make([]int, len(members))
	compSucc := make([][]int, len(members))
	linked := make(map[[2]int]bool)
	for src, dsts := range succ {
		for _, dst := range dsts {
			cs, cd := comp[src], comp[dst]
			if cs == cd || linked[[2]int{cs, cd}] {
				continue
			}
			linked[[2]int{cs, cd}] = true
			compSucc[cs] = append(compSucc[cs], cd)
			indegree[cd]++
		}
	}

	depth := make([]int, len(members))
	var frontier []int
	for ci := range members {
		if indegree[ci] == 0 {
			frontier = append(frontier, ci)
		}
	}
	for d := 0; len(frontier) > 0; d++ {
		var next []int
		for _, ci := range frontier {
			depth[ci] = d
			for _, cd := range compSucc[ci] {
				indegree[cd]--
				if indegree[cd] == 0 {
					next = append(next, cd)
				}
			}
		}
		frontier = next
	}

	var cycles []string
	for ci, ms := range members {
		for _, id := range ms {
			levels[id] = depth[ci]
		}
		if len(ms) < 2 {
			continue
		}
		names := make([]string, len(ms))
		for i, id := range ms {
			names[i] = id.String()
		}
		sort.Strings(names)
		cycles = append(cycles, strings.Join(names, ", "))
	}

	sort.Strings(cycles)
	var warnings []schema.Warning
	for _, cycle := range cycles {
		warnings = append(warnings, schema.Warning{
			Kind:   schema.WarningCycleBroken,
			Reason: fmt.Sprintf("foreign keys form a cycle between %s; the tables share one layout level", cycle),
		})
	}

	return levels, warnings
}

// condense computes the strongly connected components of the leveling
// graph with Tarjan's algorithm. Every node lands in exactly one
// component; comp maps nodes to component indexes and members lists each
// component's nodes. The component graph is acyclic.
func condense(nodes []schema.Identifier, succ map[schema.Identifier][]schema.Identifier) (map[schema.Identifier]int, [][]schema.Identifier) {
	index := make(map[schema.Identifier]int, len(nodes))
	low := make(map[schema.Identifier]int, len(nodes))
	onStack := make(map[schema.Identifier]bool, len(nodes))
	var stack []schema.Identifier
	next := 0

	comp := make(map[schema.Identifier]int, len(nodes))
	var members [][]schema.Identifier

	var connect func(v schema.Identifier)
	connect = func(v schema.Identifier) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range succ[v] {
			if _, seen := index[w]; !seen {
				connect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] && index[w] < low[v] {
				low[v] = index[w]
			}
		}

		if low[v] != index[v] {
			return
		}
		var ms []schema.Identifier
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			comp[w] = len(members)
			ms = append(ms, w)
			if w == v {
				break
			}
		}
		members = append(members, ms)
	}

	for _, v := range nodes {
		if _, seen := index[v]; !seen {
			connect(v)
		}
	}

	return comp, members
}
