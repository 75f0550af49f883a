package datastructure

import (
	"slices"
	"sort"
)

// StronglyConnectedComponents runs kosaraju's algorithm over the directed road graph. Vertices of each
// component are sorted ascending.
func (g *Graph) StronglyConnectedComponents() [][]Index {
	n := g.NumberOfVertices()

	order := make([]Index, 0, n)
	visited := make([]bool, n)
	for v := 0; v < n; v++ {
		if !visited[v] {
			g.dfs(Index(v), &order, visited, g.outEdgeHeads)
		}
	}

	reverseAdj := make([][]Index, n)
	g.ForEdges(func(e Edge) {
		reverseAdj[e.GetHead()] = append(reverseAdj[e.GetHead()], e.GetTail())
	})
	inNeighbors := func(v Index) []Index {
		return reverseAdj[v]
	}

	// reset visited
	visited = make([]bool, n)
	components := make([][]Index, 0, 10)
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		if visited[v] {
			continue
		}
		component := make([]Index, 0, 10)
		g.dfs(v, &component, visited, inNeighbors)
		sortIndices(component)
		components = append(components, component)
	}
	return components
}

// WeaklyConnectedComponents components of the graph with edge direction ignored.
func (g *Graph) WeaklyConnectedComponents() [][]Index {
	n := g.NumberOfVertices()
	undirected := make([][]Index, n)
	g.ForEdges(func(e Edge) {
		undirected[e.GetTail()] = append(undirected[e.GetTail()], e.GetHead())
		undirected[e.GetHead()] = append(undirected[e.GetHead()], e.GetTail())
	})
	neighbors := func(v Index) []Index {
		return undirected[v]
	}

	visited := make([]bool, n)
	components := make([][]Index, 0, 10)
	for v := 0; v < n; v++ {
		if visited[v] {
			continue
		}
		component := make([]Index, 0, 10)
		g.dfs(Index(v), &component, visited, neighbors)
		sortIndices(component)
		components = append(components, component)
	}
	return components
}

func (g *Graph) outEdgeHeads(v Index) []Index {
	heads := make([]Index, 0, len(g.outEdges[v]))
	for _, e := range g.outEdges[v] {
		heads = append(heads, e.key.To)
	}
	return heads
}

// dfs appends v to output after all vertices reachable from it (post order).
func (g *Graph) dfs(v Index, output *[]Index, visited []bool, neighbors func(Index) []Index) {
	visited[v] = true
	for _, w := range neighbors(v) {
		if !visited[w] {
			g.dfs(w, output, visited, neighbors)
		}
	}
	*output = append(*output, v)
}

// LargestComponent returns the component with the most vertices. Ties go to the component holding the lowest
// vertex index.
func LargestComponent(components [][]Index) []Index {
	var best []Index
	for _, c := range components {
		if len(c) == 0 {
			continue
		}
		if best == nil || len(c) > len(best) || (len(c) == len(best) && c[0] < best[0]) {
			best = c
		}
	}
	return best
}

// InducedSubgraph returns a new graph with the vertices in keep and every edge between them. Vertices are
// renumbered in ascending order of their old index; edges keep their relative order, osm ids and weights.
func (g *Graph) InducedSubgraph(keep []Index) *Graph {
	sorted := make([]Index, 0, len(keep))
	for _, v := range keep {
		if g.HasVertex(v) {
			sorted = append(sorted, v)
		}
	}
	sortIndices(sorted)
	sorted = slices.Compact(sorted)

	sub := NewGraphWithSize(len(sorted))
	newID := make(map[Index]Index, len(sorted))
	for _, v := range sorted {
		old := g.vertices[v]
		var id Index
		if old.osmID != 0 {
			id = sub.AddOsmVertex(old.osmID, old.lat, old.lon)
		} else {
			id = sub.AddVertex(old.lat, old.lon)
		}
		newID[v] = id
	}

	for _, v := range sorted {
		from := newID[v]
		for _, e := range g.outEdges[v] {
			to, ok := newID[e.key.To]
			if !ok {
				continue
			}
			key, _ := sub.AddWayEdge(from, to, e.length, e.osmWayID)
			if e.hasCustomWeight {
				_ = sub.SetCustomWeight(key, e.customWeight)
			}
		}
	}
	return sub
}

func sortIndices(s []Index) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}
