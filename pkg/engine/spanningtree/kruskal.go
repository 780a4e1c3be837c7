package spanningtree

import (
	"sort"

	"github.com/madnav/madnav/pkg/costfunction"
	"github.com/madnav/madnav/pkg/datastructure"
)

type weightedEdge[K comparable] struct {
	from, to K
	weight   float64
}

// Kruskal returns the edges of a minimum spanning forest in the order they
// were accepted. Edges are considered in ascending weight order with ties
// broken by graph insertion order (stable sort), and an edge is accepted
// only when its endpoints are still in different components. For a graph
// with k components the result has exactly |V| - k edges.
func Kruskal[K comparable](g *datastructure.Graph[K], weight costfunction.WeightFunc[K]) ([][2]K, error) {
	edges := make([]weightedEdge[K], 0, g.NumEdges())
	for _, e := range g.Edges() {
		w, err := weight(g, e[0], e[1])
		if err != nil {
			return nil, err
		}
		edges = append(edges, weightedEdge[K]{from: e[0], to: e[1], weight: w})
	}

	sort.SliceStable(edges, func(i, j int) bool {
		return edges[i].weight < edges[j].weight
	})

	dsu := newUnionFind(g.Nodes())

	forest := make([][2]K, 0, g.NumNodes())
	for _, e := range edges {
		if dsu.union(e.from, e.to) {
			forest = append(forest, [2]K{e.from, e.to})
		}
	}
	return forest, nil
}

// unionFind is a disjoint-set with path compression and union by rank.
type unionFind[K comparable] struct {
	parent map[K]K
	rank   map[K]int
}

func newUnionFind[K comparable](nodes []K) *unionFind[K] {
	u := &unionFind[K]{
		parent: make(map[K]K, len(nodes)),
		rank:   make(map[K]int, len(nodes)),
	}
	for _, v := range nodes {
		u.parent[v] = v
	}
	return u
}

func (u *unionFind[K]) find(v K) K {
	for u.parent[v] != v {
		// point v at its grandparent to halve the chain
		u.parent[v] = u.parent[u.parent[v]]
		v = u.parent[v]
	}
	return v
}

// union merges the components of a and b, reporting whether they were
// distinct before the call.
func (u *unionFind[K]) union(a, b K) bool {
	rootA, rootB := u.find(a), u.find(b)
	if rootA == rootB {
		return false
	}
	if u.rank[rootA] < u.rank[rootB] {
		rootA, rootB = rootB, rootA
	}
	u.parent[rootB] = rootA
	if u.rank[rootA] == u.rank[rootB] {
		u.rank[rootA]++
	}
	return true
}
