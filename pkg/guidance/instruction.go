// Package guidance turns a computed node path into human-readable
// turn-by-turn driving instructions. Consecutive edges that share a street
// name collapse into one segment, and the turn at each street change is
// classified from the planar geometry of the three nodes around it.
package guidance

import (
	"fmt"
	"math"
	"strings"

	"github.com/madnav/madnav/pkg/datastructure"
)

const (
	unnamedWay = "unnamed way"

	// cross products below this magnitude count as driving straight
	turnEpsilon = 1e-6

	alreadyAtDestination = "Origin and destination coincide. You are already at your destination."
)

// RoadGraph is the slice of the graph the narrator needs: node coordinates
// and edge attributes.
type RoadGraph[K comparable] interface {
	Node(id K) (datastructure.Node[K], bool)
	EdgeBetween(u, v K) (datastructure.EdgeAttributes, bool)
}

type turn int

const (
	noTurn turn = iota
	turnLeft
	turnRight
)

// segment is a maximal run of consecutive path edges sharing one street
// name. start and end index into the path node sequence.
type segment struct {
	name  string
	dist  float64 // meters
	start int
	end   int
}

// BuildInstructions builds the ordered instruction list for a path through
// g. An empty or single-node path yields the fixed already-there message.
// The last line is always a standalone total-distance summary.
func BuildInstructions[K comparable](path []K, g RoadGraph[K]) []string {
	if len(path) <= 1 {
		return []string{alreadyAtDestination}
	}

	segments := splitSegments(path, g)

	instructions := make([]string, 0, len(segments)+1)
	totalDist := 0.0
	for i, seg := range segments {
		t := noTurn
		if i > 0 {
			// the turn happens at the node where this segment begins
			t = classifyTurn(path, g, seg.start)
		}
		instructions = append(instructions, segmentPhrase(seg.name, seg.dist, i == 0, t))
		totalDist += seg.dist
	}
	instructions = append(instructions, fmt.Sprintf("Approximate total distance: %.2f km.", totalDist/1000.0))
	return instructions
}

func splitSegments[K comparable](path []K, g RoadGraph[K]) []segment {
	currentName := streetName(g, path[0], path[1])
	currentDist := edgeDist(g, path[0], path[1])
	startIdx := 0

	segments := make([]segment, 0)
	for i := 1; i < len(path)-1; i++ {
		name := streetName(g, path[i], path[i+1])
		dist := edgeDist(g, path[i], path[i+1])
		if name == currentName {
			currentDist += dist
			continue
		}
		segments = append(segments, segment{name: currentName, dist: currentDist, start: startIdx, end: i})
		currentName = name
		currentDist = dist
		startIdx = i
	}
	return append(segments, segment{name: currentName, dist: currentDist, start: startIdx, end: len(path) - 1})
}

// streetName resolves the display name of the edge (u, v), falling back to
// the unnamed-way label when the name is absent or blank.
func streetName[K comparable](g RoadGraph[K], u, v K) string {
	attrs, ok := g.EdgeBetween(u, v)
	if !ok {
		return unnamedWay
	}
	if strings.TrimSpace(attrs.StreetName) == "" {
		return unnamedWay
	}
	return attrs.StreetName
}

func edgeDist[K comparable](g RoadGraph[K], u, v K) float64 {
	attrs, ok := g.EdgeBetween(u, v)
	if !ok || !attrs.HasDist() {
		return 0
	}
	return attrs.Dist
}

// classifyTurn looks at the node where a new segment begins and classifies
// the direction change there. It needs the previous and the next node, so
// segment starts at the path boundaries never report a turn. A near-zero
// cross product with a positive dot product is driving straight; otherwise
// the sign of the cross product picks the side. A near-180° reversal
// (cross ~ 0, dot <= 0) intentionally falls through to the left/right
// branch rather than counting as straight.
func classifyTurn[K comparable](path []K, g RoadGraph[K], segmentStart int) turn {
	if segmentStart <= 0 || segmentStart+1 >= len(path) {
		return noTurn
	}

	n0, ok0 := g.Node(path[segmentStart-1])
	n1, ok1 := g.Node(path[segmentStart])
	n2, ok2 := g.Node(path[segmentStart+1])
	if !ok0 || !ok1 || !ok2 {
		return noTurn
	}

	// arrival vector into the junction and departure vector out of it
	v1x, v1y := n1.X-n0.X, n1.Y-n0.Y
	v2x, v2y := n2.X-n1.X, n2.Y-n1.Y
	if v1x == 0 && v1y == 0 {
		return noTurn
	}
	if v2x == 0 && v2y == 0 {
		return noTurn
	}

	cross := v1x*v2y - v1y*v2x
	dot := v1x*v2x + v1y*v2y

	if math.Abs(cross) < turnEpsilon && dot > 0 {
		return noTurn
	}
	if cross > 0 {
		return turnLeft
	}
	return turnRight
}

func segmentPhrase(name string, distMeters float64, first bool, t turn) string {
	distKm := distMeters / 1000.0

	var prefix string
	switch {
	case first:
		prefix = "Depart from the origin and "
	case t == turnLeft:
		prefix = "Then turn left and "
	case t == turnRight:
		prefix = "Then turn right and "
	default:
		prefix = "Then "
	}

	if name == unnamedWay {
		return fmt.Sprintf("%scontinue for %.2f km along an unnamed way.", prefix, distKm)
	}
	return fmt.Sprintf("%scontinue along %s for %.2f km.", prefix, name, distKm)
}
