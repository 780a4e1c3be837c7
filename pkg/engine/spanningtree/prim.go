// Package spanningtree computes minimum spanning structures over the road
// graph with two independent algorithms, Prim and Kruskal. Both treat edge
// weights as undirected: on a directed graph the caller is responsible for
// supplying a symmetric weight function.
package spanningtree

import (
	"math"

	"github.com/madnav/madnav/pkg/costfunction"
	"github.com/madnav/madnav/pkg/datastructure"
)

// Prim returns a minimum spanning forest as a child -> parent map. Nodes
// without a parent entry are roots. The graph does not have to be
// connected: every component grows its own tree, so an isolated node simply
// stays a root. Popped queue entries whose node already left the frontier
// are stale and get discarded.
func Prim[K comparable](g *datastructure.Graph[K], weight costfunction.WeightFunc[K]) (map[K]K, error) {
	cost := make(map[K]float64, g.NumNodes())
	parent := make(map[K]K)
	inFrontier := make(map[K]bool, g.NumNodes())

	var seq int64
	pq := datastructure.NewMinHeap[K]()
	for _, v := range g.Nodes() {
		cost[v] = math.Inf(1)
		inFrontier[v] = true
		pq.Insert(datastructure.NewPriorityQueueNode(cost[v], seq, v))
		seq++
	}

	for pq.Size() > 0 {
		node, _ := pq.ExtractMin()
		v := node.Item
		if !inFrontier[v] {
			continue
		}
		delete(inFrontier, v)

		for _, x := range g.Neighbors(v) {
			if !inFrontier[x] {
				continue
			}
			w, err := weight(g, v, x)
			if err != nil {
				return nil, err
			}
			if w < cost[x] {
				cost[x] = w
				parent[x] = v
				pq.Insert(datastructure.NewPriorityQueueNode(w, seq, x))
				seq++
			}
		}
	}

	return parent, nil
}
