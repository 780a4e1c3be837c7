package datastructure

import (
	"errors"
	"math"
)

var (
	ErrSelfLoop    = errors.New("self-loop edges are not allowed")
	ErrUnknownNode = errors.New("edge endpoint is not a node of the graph")
)

// EdgeAttributes carries the road attributes of one directed edge. MaxSpeed
// keeps the raw tag value because openstreetmap maxspeed tags are not always
// numeric ("50; 30", "walk", ...); cost functions fall back to the road-class
// table when parsing fails.
type EdgeAttributes struct {
	StreetName string
	Dist       float64 // meters. NaN when the source data carried no length.
	RoadClass  string
	MaxSpeed   string
}

func NewEdgeAttributes(streetName string, dist float64, roadClass, maxSpeed string) EdgeAttributes {
	return EdgeAttributes{
		StreetName: streetName,
		Dist:       dist,
		RoadClass:  roadClass,
		MaxSpeed:   maxSpeed,
	}
}

func (e EdgeAttributes) HasDist() bool {
	return !math.IsNaN(e.Dist)
}

// Node is a road intersection with planar coordinates. For graphs built from
// openstreetmap, X is longitude and Y is latitude.
type Node[K comparable] struct {
	ID   K
	X, Y float64
}

func NewNode[K comparable](id K, x, y float64) Node[K] {
	return Node[K]{ID: id, X: x, Y: y}
}

type outEdge[K comparable] struct {
	to    K
	attrs EdgeAttributes
}

// Graph is a directed weighted road graph. Out-edges are kept in insertion
// order so neighbor relaxation and Kruskal's stable sort are deterministic
// across runs. The graph is read-only during queries, so any number of
// concurrent readers may share one instance.
type Graph[K comparable] struct {
	nodes     map[K]Node[K]
	nodeOrder []K
	adj       map[K][]outEdge[K]
	adjIndex  map[K]map[K]int // position of (u,v) inside adj[u]
	edgeOrder [][2]K
}

func NewGraph[K comparable]() *Graph[K] {
	return &Graph[K]{
		nodes:    make(map[K]Node[K]),
		adj:      make(map[K][]outEdge[K]),
		adjIndex: make(map[K]map[K]int),
	}
}

// AddNode registers a node. Re-adding an existing node updates its
// coordinates without disturbing edges.
func (g *Graph[K]) AddNode(id K, x, y float64) {
	if _, ok := g.nodes[id]; !ok {
		g.nodeOrder = append(g.nodeOrder, id)
	}
	g.nodes[id] = NewNode(id, x, y)
}

// AddEdge inserts the directed edge (from, to). Self-loops are rejected,
// which is how the ingestion step filters them out of the road graph. Adding
// an edge twice overwrites its attributes in place.
func (g *Graph[K]) AddEdge(from, to K, attrs EdgeAttributes) error {
	if from == to {
		return ErrSelfLoop
	}
	if _, ok := g.nodes[from]; !ok {
		return ErrUnknownNode
	}
	if _, ok := g.nodes[to]; !ok {
		return ErrUnknownNode
	}
	if idx, ok := g.adjIndex[from][to]; ok {
		g.adj[from][idx].attrs = attrs
		return nil
	}
	if g.adjIndex[from] == nil {
		g.adjIndex[from] = make(map[K]int)
	}
	g.adjIndex[from][to] = len(g.adj[from])
	g.adj[from] = append(g.adj[from], outEdge[K]{to: to, attrs: attrs})
	g.edgeOrder = append(g.edgeOrder, [2]K{from, to})
	return nil
}

func (g *Graph[K]) HasNode(id K) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph[K]) Node(id K) (Node[K], bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all node keys in insertion order.
func (g *Graph[K]) Nodes() []K {
	out := make([]K, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

func (g *Graph[K]) NumNodes() int {
	return len(g.nodes)
}

// Neighbors returns the out-neighbors of u in edge insertion order.
func (g *Graph[K]) Neighbors(u K) []K {
	edges := g.adj[u]
	out := make([]K, len(edges))
	for i, e := range edges {
		out[i] = e.to
	}
	return out
}

func (g *Graph[K]) EdgeBetween(u, v K) (EdgeAttributes, bool) {
	idx, ok := g.adjIndex[u][v]
	if !ok {
		return EdgeAttributes{}, false
	}
	return g.adj[u][idx].attrs, true
}

// Edges returns every directed edge as a (from, to) pair, in insertion order.
func (g *Graph[K]) Edges() [][2]K {
	out := make([][2]K, len(g.edgeOrder))
	copy(out, g.edgeOrder)
	return out
}

func (g *Graph[K]) NumEdges() int {
	return len(g.edgeOrder)
}

// RoadClassMaxSpeed returns the assumed maximum speed in km/h for a road
// class, used when an edge has no usable maxspeed tag.
func RoadClassMaxSpeed(roadClass string) (float64, bool) {
	switch roadClass {
	case "living_street":
		return 20, true
	case "residential":
		return 30, true
	case "primary_link":
		return 40, true
	case "unclassified":
		return 40, true
	case "secondary_link":
		return 40, true
	case "trunk_link":
		return 40, true
	case "secondary":
		return 50, true
	case "tertiary":
		return 50, true
	case "primary":
		return 50, true
	case "trunk":
		return 50, true
	case "tertiary_link":
		return 50, true
	case "busway":
		return 50, true
	case "motorway_link":
		return 70, true
	case "motorway":
		return 100, true
	default:
		return 0, false
	}
}
