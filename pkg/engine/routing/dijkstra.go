package routing

import (
	"github.com/lintang-b-s/navigatorx-traffic/pkg"
	da "github.com/lintang-b-s/navigatorx-traffic/pkg/datastructure"
	"github.com/lintang-b-s/navigatorx-traffic/pkg/util"
)

type vertexInfo struct {
	dist     float64
	parent   da.Index
	heapNode *da.PriorityQueueNode[da.Index]
	settled  bool
}

type arc struct {
	from, to da.Index
}

// searchRestriction hides vertices and vertex pairs from a search. Used by the spur searches of the
// k shortest simple paths algorithm.
type searchRestriction struct {
	vertices map[da.Index]struct{}
	arcs     map[arc]struct{}
}

func newSearchRestriction() *searchRestriction {
	return &searchRestriction{
		vertices: make(map[da.Index]struct{}),
		arcs:     make(map[arc]struct{}),
	}
}

func (sr *searchRestriction) banVertex(u da.Index) {
	sr.vertices[u] = struct{}{}
}

func (sr *searchRestriction) banArc(u, v da.Index) {
	sr.arcs[arc{u, v}] = struct{}{}
}

func (sr *searchRestriction) allowed(u, v da.Index) bool {
	if sr == nil {
		return true
	}
	if _, banned := sr.vertices[v]; banned {
		return false
	}
	_, banned := sr.arcs[arc{u, v}]
	return !banned
}

// Dijkstra point-to-point search over the road graph with a pluggable cost function.
// Ties: the queue orders by (distance, vertex index), out edges are relaxed in insertion order and a
// label is replaced only by a strictly smaller distance.
type Dijkstra struct {
	graph        *da.Graph
	costFunction CostFunction

	info []vertexInfo
	pq   *da.MinHeap[da.Index]

	numSettledNodes int
}

func NewDijkstra(graph *da.Graph, costFunction CostFunction) *Dijkstra {
	return &Dijkstra{
		graph:        graph,
		costFunction: costFunction,
		pq:           da.NewFourAryHeap[da.Index](),
	}
}

func (d *Dijkstra) Preallocate() {
	n := d.graph.NumberOfVertices()
	if cap(d.info) >= n {
		d.info = d.info[:n]
	} else {
		d.info = make([]vertexInfo, n)
	}
	for i := range d.info {
		d.info[i] = vertexInfo{dist: pkg.INF_WEIGHT, parent: da.INVALID_VERTEX_ID}
	}
	d.pq.Clear()
	d.numSettledNodes = 0
}

// ShortestPath returns the vertex sequence of a shortest s-t path and its cost.
func (d *Dijkstra) ShortestPath(s, t da.Index) ([]da.Index, float64, bool) {
	return d.shortestPath(s, t, nil)
}

func (d *Dijkstra) shortestPath(s, t da.Index, restriction *searchRestriction) ([]da.Index, float64, bool) {
	if s == t {
		return []da.Index{s}, 0, true
	}

	d.Preallocate()

	sNode := da.NewPriorityQueueNode(0, s)
	d.info[s].dist = 0
	d.info[s].heapNode = sNode
	d.pq.Insert(sNode)

	for !d.pq.IsEmpty() {
		minNode, _ := d.pq.ExtractMin()
		u := minNode.GetItem()
		d.info[u].settled = true
		d.numSettledNodes++

		if u == t {
			break
		}

		d.graph.ForOutEdgesOf(u, func(e da.Edge) {
			v := e.GetHead()
			if d.info[v].settled || !restriction.allowed(u, v) {
				return
			}

			newDist := d.info[u].dist + d.costFunction.GetWeight(e)
			if newDist >= pkg.INF_WEIGHT {
				return
			}

			if d.info[v].heapNode == nil {
				vNode := da.NewPriorityQueueNode(newDist, v)
				d.info[v].dist = newDist
				d.info[v].parent = u
				d.info[v].heapNode = vNode
				d.pq.Insert(vNode)
				return
			}

			if util.Lt(newDist, d.info[v].dist) {
				d.info[v].dist = newDist
				d.info[v].parent = u
				d.pq.DecreaseKey(d.info[v].heapNode, newDist)
			}
		})
	}

	if !d.info[t].settled {
		return nil, pkg.INF_WEIGHT, false
	}

	path := make([]da.Index, 0, 16)
	for cur := t; cur != da.INVALID_VERTEX_ID; cur = d.info[cur].parent {
		path = append(path, cur)
	}

	return util.ReverseG(path), d.info[t].dist, true
}

func (d *Dijkstra) GetNumSettledNodes() int {
	return d.numSettledNodes
}
