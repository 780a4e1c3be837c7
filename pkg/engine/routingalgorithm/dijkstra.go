// Package routingalgorithm implements single-source shortest paths over the
// road graph with Dijkstra's algorithm.
package routingalgorithm

import (
	"errors"
	"fmt"
	"math"

	"github.com/madnav/madnav/pkg/costfunction"
	"github.com/madnav/madnav/pkg/datastructure"
	"github.com/madnav/madnav/pkg/util"
)

// ErrInvalidKey reports an origin or destination that is not a node of the
// graph. With a comparable key type this is the only invalid-key condition
// left to validate at entry.
var ErrInvalidKey = errors.New("key is not a node of the graph")

// ShortestPathTree runs Dijkstra from origin and returns the shortest-path
// tree as a child -> parent map. Only nodes reachable from origin appear;
// origin itself is excluded because it has no parent. Stale priority-queue
// entries are discarded on pop instead of being decreased in place, so the
// queue never needs a DecreaseKey.
func ShortestPathTree[K comparable](g *datastructure.Graph[K], weight costfunction.WeightFunc[K], origin K) (map[K]K, error) {
	if !g.HasNode(origin) {
		return nil, fmt.Errorf("origin %v: %w", origin, ErrInvalidKey)
	}

	dist := make(map[K]float64, g.NumNodes())
	visited := make(map[K]bool, g.NumNodes())
	parent := make(map[K]K)
	for _, v := range g.Nodes() {
		dist[v] = math.Inf(1)
	}
	dist[origin] = 0

	var seq int64
	pq := datastructure.NewMinHeap[K]()
	pq.Insert(datastructure.NewPriorityQueueNode(0, seq, origin))
	seq++

	for pq.Size() > 0 {
		node, _ := pq.ExtractMin()
		v := node.Item
		if visited[v] {
			// stale entry for an already settled node
			continue
		}
		visited[v] = true

		for _, x := range g.Neighbors(v) {
			w, err := weight(g, v, x)
			if err != nil {
				return nil, err
			}
			if dist[v]+w < dist[x] {
				dist[x] = dist[v] + w
				parent[x] = v
				pq.Insert(datastructure.NewPriorityQueueNode(dist[x], seq, x))
				seq++
			}
		}
	}

	delete(parent, origin)
	return parent, nil
}

// ShortestPath returns the minimum-cost node sequence from origin to
// destination, origin first. An unreachable destination yields an empty
// path and no error; callers present that as a "no route" outcome.
func ShortestPath[K comparable](g *datastructure.Graph[K], weight costfunction.WeightFunc[K], origin, destination K) ([]K, error) {
	if !g.HasNode(origin) {
		return nil, fmt.Errorf("origin %v: %w", origin, ErrInvalidKey)
	}
	if !g.HasNode(destination) {
		return nil, fmt.Errorf("destination %v: %w", destination, ErrInvalidKey)
	}
	if origin == destination {
		return []K{origin}, nil
	}

	parent, err := ShortestPathTree(g, weight, origin)
	if err != nil {
		return nil, err
	}
	if _, ok := parent[destination]; !ok {
		return []K{}, nil
	}

	path := []K{destination}
	current := destination
	for current != origin {
		current = parent[current]
		path = append(path, current)
	}
	return util.ReverseG(path), nil
}
