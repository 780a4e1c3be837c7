// Package snap finds the road-graph node nearest to a geographic
// coordinate. Nodes are indexed in an R-tree; the R-tree candidates are
// then re-ranked by great-circle distance, since tree lookups compare plain
// degree offsets.
package snap

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/madnav/madnav/pkg/datastructure"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50

	// how many tree candidates are re-ranked by great-circle distance
	nearestCandidates = 8

	pointTolerance = 1e-7
)

type nodePoint[K comparable] struct {
	id       K
	lat, lon float64
	rect     rtreego.Rect
}

func (p *nodePoint[K]) Bounds() rtreego.Rect {
	return p.rect
}

// NodeSnapper answers nearest-node queries over one road graph.
type NodeSnapper[K comparable] struct {
	tree *rtreego.Rtree
	size int
}

// NewNodeSnapper indexes every node of g. Node X/Y are expected to be
// longitude/latitude, which is how the openstreetmap ingestion stores them.
func NewNodeSnapper[K comparable](g *datastructure.Graph[K]) *NodeSnapper[K] {
	tree := rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren)
	count := 0
	for _, id := range g.Nodes() {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		point := rtreego.Point{n.X, n.Y}
		tree.Insert(&nodePoint[K]{
			id:   id,
			lat:  n.Y,
			lon:  n.X,
			rect: point.ToRect(pointTolerance),
		})
		count++
	}
	return &NodeSnapper[K]{tree: tree, size: count}
}

// NearestNode returns the graph node closest to (lat, lon). The second
// return value is false only for an empty graph.
func (s *NodeSnapper[K]) NearestNode(lat, lon float64) (K, bool) {
	var zero K
	if s.size == 0 {
		return zero, false
	}

	candidates := s.tree.NearestNeighbors(nearestCandidates, rtreego.Point{lon, lat})

	query := s2.LatLngFromDegrees(lat, lon)
	best := zero
	bestAngle := s1.Angle(math.Inf(1))
	found := false
	for _, c := range candidates {
		np, ok := c.(*nodePoint[K])
		if !ok || np == nil {
			continue
		}
		angle := query.Distance(s2.LatLngFromDegrees(np.lat, np.lon))
		if !found || angle < bestAngle {
			best = np.id
			bestAngle = angle
			found = true
		}
	}
	return best, found
}
