package datastructure

import (
	"fmt"
)

type Index uint32

const INVALID_VERTEX_ID Index = ^Index(0)

type Vertex struct {
	lat   float64
	lon   float64
	osmID int64
	id    Index
}

func NewVertex(lat, lon float64, id Index) *Vertex {
	return &Vertex{
		lat: lat,
		lon: lon,
		id:  id,
	}
}

func (v *Vertex) GetID() Index {
	return v.id
}

func (v *Vertex) GetLat() float64 {
	return v.lat
}

func (v *Vertex) GetLon() float64 {
	return v.lon
}

func (v *Vertex) GetOsmID() int64 {
	return v.osmID
}

// EdgeKey addresses one road segment of the multigraph. Key discriminates parallel edges between the
// same ordered vertex pair, the first edge added for a pair has Key 0.
type EdgeKey struct {
	From Index
	To   Index
	Key  int
}

func NewEdgeKey(from, to Index, key int) EdgeKey {
	return EdgeKey{From: from, To: to, Key: key}
}

func (k EdgeKey) String() string {
	return fmt.Sprintf("(%d,%d,%d)", k.From, k.To, k.Key)
}

// Edge is a directed road segment. length is in meter. customWeight is unset until the weight
// adjustment pass penalizes the segment.
type Edge struct {
	key             EdgeKey
	length          float64
	customWeight    float64
	hasCustomWeight bool
	osmWayID        int64
}

func (e Edge) GetKey() EdgeKey {
	return e.key
}

func (e Edge) GetTail() Index {
	return e.key.From
}

func (e Edge) GetHead() Index {
	return e.key.To
}

func (e Edge) GetLength() float64 {
	return e.length
}

func (e Edge) GetOsmWayID() int64 {
	return e.osmWayID
}

// GetCustomWeight returns the adjusted weight and whether it was ever set.
func (e Edge) GetCustomWeight() (float64, bool) {
	return e.customWeight, e.hasCustomWeight
}

// EffectiveCost is custom_weight if set, otherwise the base length.
func (e Edge) EffectiveCost() float64 {
	if e.hasCustomWeight {
		return e.customWeight
	}
	return e.length
}

// Graph is a directed multigraph of a drivable road network. Vertices and edges are addressed by
// Index handles and EdgeKey; edge records are only mutated through SetCustomWeight.
type Graph struct {
	vertices []*Vertex
	outEdges [][]Edge // adjacency list, in insertion order
	numEdges int
	osmIDMap map[int64]Index
}

func NewGraph() *Graph {
	return &Graph{
		vertices: make([]*Vertex, 0),
		outEdges: make([][]Edge, 0),
		osmIDMap: make(map[int64]Index),
	}
}

func NewGraphWithSize(numVertices int) *Graph {
	return &Graph{
		vertices: make([]*Vertex, 0, numVertices),
		outEdges: make([][]Edge, 0, numVertices),
		osmIDMap: make(map[int64]Index, numVertices),
	}
}

func (g *Graph) AddVertex(lat, lon float64) Index {
	id := Index(len(g.vertices))
	g.vertices = append(g.vertices, NewVertex(lat, lon, id))
	g.outEdges = append(g.outEdges, make([]Edge, 0, 2))
	return id
}

// AddOsmVertex adds a vertex for an openstreetmap node, or returns the existing one.
func (g *Graph) AddOsmVertex(osmID int64, lat, lon float64) Index {
	if id, ok := g.osmIDMap[osmID]; ok {
		return id
	}
	id := g.AddVertex(lat, lon)
	g.vertices[id].osmID = osmID
	g.osmIDMap[osmID] = id
	return id
}

func (g *Graph) GetVertexByOsmID(osmID int64) (Index, bool) {
	id, ok := g.osmIDMap[osmID]
	return id, ok
}

// AddEdge adds a directed edge u->v and returns its key.
func (g *Graph) AddEdge(u, v Index, length float64) (EdgeKey, error) {
	return g.AddWayEdge(u, v, length, 0)
}

func (g *Graph) AddWayEdge(u, v Index, length float64, osmWayID int64) (EdgeKey, error) {
	if !g.HasVertex(u) || !g.HasVertex(v) {
		return EdgeKey{}, fmt.Errorf("%w: edge (%d,%d)", ErrVertexNotFound, u, v)
	}
	if !(length >= 0) {
		return EdgeKey{}, fmt.Errorf("%w: edge (%d,%d) length %f", ErrNegativeLength, u, v, length)
	}
	key := 0
	for _, e := range g.outEdges[u] {
		if e.key.To == v {
			key++
		}
	}
	ek := NewEdgeKey(u, v, key)
	g.outEdges[u] = append(g.outEdges[u], Edge{key: ek, length: length, osmWayID: osmWayID})
	g.numEdges++
	return ek, nil
}

func (g *Graph) HasVertex(u Index) bool {
	return int(u) < len(g.vertices)
}

// HasEdge reports whether at least one edge u->v exists.
func (g *Graph) HasEdge(u, v Index) bool {
	if !g.HasVertex(u) {
		return false
	}
	for _, e := range g.outEdges[u] {
		if e.key.To == v {
			return true
		}
	}
	return false
}

func (g *Graph) GetEdge(k EdgeKey) (Edge, bool) {
	pos := g.edgePos(k)
	if pos < 0 {
		return Edge{}, false
	}
	return g.outEdges[k.From][pos], true
}

// GetParallelEdges returns every edge u->v in insertion order.
func (g *Graph) GetParallelEdges(u, v Index) []Edge {
	if !g.HasVertex(u) {
		return nil
	}
	es := make([]Edge, 0, 1)
	for _, e := range g.outEdges[u] {
		if e.key.To == v {
			es = append(es, e)
		}
	}
	return es
}

// SetCustomWeight sets custom_weight of edge k. The weight must not be below the edge base length.
func (g *Graph) SetCustomWeight(k EdgeKey, weight float64) error {
	pos := g.edgePos(k)
	if pos < 0 {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, k)
	}
	e := &g.outEdges[k.From][pos]
	if weight < e.length {
		return fmt.Errorf("%w: edge %s weight %f < length %f", ErrWeightBelowLength, k, weight, e.length)
	}
	e.customWeight = weight
	e.hasCustomWeight = true
	return nil
}

// ClearCustomWeights resets every edge to its base length.
func (g *Graph) ClearCustomWeights() {
	for u := range g.outEdges {
		for i := range g.outEdges[u] {
			g.outEdges[u][i].customWeight = 0
			g.outEdges[u][i].hasCustomWeight = false
		}
	}
}

func (g *Graph) edgePos(k EdgeKey) int {
	if !g.HasVertex(k.From) {
		return -1
	}
	seen := 0
	for i, e := range g.outEdges[k.From] {
		if e.key.To != k.To {
			continue
		}
		if seen == k.Key {
			return i
		}
		seen++
	}
	return -1
}

// ForOutEdgesOf calls handle for every out edge of u in insertion order. Edges are passed by value.
func (g *Graph) ForOutEdgesOf(u Index, handle func(e Edge)) {
	for _, e := range g.outEdges[u] {
		handle(e)
	}
}

func (g *Graph) ForEdges(handle func(e Edge)) {
	for u := range g.outEdges {
		for _, e := range g.outEdges[u] {
			handle(e)
		}
	}
}

// Neighbors returns the distinct successors of u, in order of their first out edge.
func (g *Graph) Neighbors(u Index) []Index {
	if !g.HasVertex(u) {
		return nil
	}
	seen := make(map[Index]struct{}, len(g.outEdges[u]))
	ns := make([]Index, 0, len(g.outEdges[u]))
	for _, e := range g.outEdges[u] {
		if _, ok := seen[e.key.To]; ok {
			continue
		}
		seen[e.key.To] = struct{}{}
		ns = append(ns, e.key.To)
	}
	return ns
}

func (g *Graph) GetVertex(u Index) *Vertex {
	return g.vertices[u]
}

func (g *Graph) GetVertexCoordinates(u Index) (float64, float64) {
	return g.vertices[u].lat, g.vertices[u].lon
}

func (g *Graph) ForVertices(handle func(v *Vertex)) {
	for _, v := range g.vertices {
		handle(v)
	}
}

func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

func (g *Graph) NumberOfEdges() int {
	return g.numEdges
}

