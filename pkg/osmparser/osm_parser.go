// Package osmparser reads an openstreetmap pbf extract and builds the
// directed road graph used by the routing engine.
package osmparser

import (
	"context"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/madnav/madnav/pkg/datastructure"
	"github.com/madnav/madnav/pkg/geo"
)

// acceptedRoadClass holds every highway value the cost functions know a
// max speed for. Ways with any other class (footways, cycleways, paths)
// are not drivable and get skipped.
var acceptedRoadClass = map[string]struct{}{
	"living_street":  {},
	"residential":    {},
	"primary_link":   {},
	"unclassified":   {},
	"secondary_link": {},
	"trunk_link":     {},
	"secondary":      {},
	"tertiary":       {},
	"primary":        {},
	"trunk":          {},
	"tertiary_link":  {},
	"busway":         {},
	"motorway_link":  {},
	"motorway":       {},
}

type parsedWay struct {
	nodeIDs    []int64
	streetName string
	roadClass  string
	maxSpeed   string
	oneway     bool
}

type OsmParser struct {
	usedNodes map[int64]struct{}
}

func NewOsmParser() *OsmParser {
	return &OsmParser{
		usedNodes: make(map[int64]struct{}),
	}
}

// Parse scans mapFile twice. The first pass keeps the drivable ways and
// remembers which node ids they reference, the second pass picks up the
// coordinates of exactly those nodes.
func (p *OsmParser) Parse(mapFile string) (*datastructure.Graph[int64], error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(context.Background(), f, 0)
	// must not be parallel
	ways := make([]parsedWay, 0)
	countWays := 0
	for scanner.Scan() {
		o := scanner.Object()

		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if len(way.Nodes) < 2 {
			continue
		}
		roadClass := pickFastestRoadClass(way.Tags.Find("highway"))
		if roadClass == "" {
			continue
		}
		if (countWays+1)%50000 == 0 {
			log.Printf("reading openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		pw := parsedWay{
			nodeIDs:    make([]int64, 0, len(way.Nodes)),
			streetName: way.Tags.Find("name"),
			roadClass:  roadClass,
			maxSpeed:   normalizeMaxSpeed(way.Tags.Find("maxspeed")),
			oneway:     isOneWay(way),
		}
		for _, wn := range way.Nodes {
			pw.nodeIDs = append(pw.nodeIDs, int64(wn.ID))
			p.usedNodes[int64(wn.ID)] = struct{}{}
		}
		ways = append(ways, pw)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, err
	}
	scanner.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	scanner = osmpbf.New(context.Background(), f, 0)
	defer scanner.Close()

	nodeCoords := make(map[int64][2]float64, len(p.usedNodes))
	countNodes := 0
	for scanner.Scan() {
		o := scanner.Object()

		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}
		node := o.(*osm.Node)
		if _, ok := p.usedNodes[int64(node.ID)]; !ok {
			continue
		}
		if (countNodes+1)%200000 == 0 {
			log.Printf("reading openstreetmap nodes: %d...", countNodes+1)
		}
		countNodes++
		nodeCoords[int64(node.ID)] = [2]float64{node.Lon, node.Lat}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	log.Printf("parsed %d drivable ways and %d nodes", len(ways), len(nodeCoords))
	return buildGraph(ways, nodeCoords), nil
}

func buildGraph(ways []parsedWay, nodeCoords map[int64][2]float64) *datastructure.Graph[int64] {
	g := datastructure.NewGraph[int64]()
	for _, w := range ways {
		for _, id := range w.nodeIDs {
			coord, ok := nodeCoords[id]
			if !ok {
				continue
			}
			g.AddNode(id, coord[0], coord[1])
		}
		for i := 0; i+1 < len(w.nodeIDs); i++ {
			from, to := w.nodeIDs[i], w.nodeIDs[i+1]
			fromCoord, okFrom := nodeCoords[from]
			toCoord, okTo := nodeCoords[to]
			if !okFrom || !okTo {
				// node missing from the extract, skip the segment
				continue
			}
			dist := geo.CalculateHaversineDistanceM(fromCoord[1], fromCoord[0],
				toCoord[1], toCoord[0])
			attrs := datastructure.NewEdgeAttributes(w.streetName, dist, w.roadClass, w.maxSpeed)
			addSegmentEdge(g, from, to, attrs)
			if !w.oneway {
				addSegmentEdge(g, to, from, attrs)
			}
		}
	}
	return g
}

func addSegmentEdge(g *datastructure.Graph[int64], from, to int64, attrs datastructure.EdgeAttributes) {
	// pbf extracts occasionally contain degenerate ways that visit the
	// same node twice in a row, AddEdge rejects those as self loops
	if err := g.AddEdge(from, to, attrs); err != nil {
		return
	}
}

func isOneWay(way *osm.Way) bool {
	switch way.Tags.Find("oneway") {
	case "yes", "true", "1", "-1":
		return true
	}
	if way.Tags.Find("junction") == "roundabout" {
		return true
	}
	return way.Tags.Find("highway") == "motorway"
}

// pickFastestRoadClass resolves a possibly composite highway tag
// ("secondary;tertiary") to the accepted class with the highest default
// speed, or "" when none of the parts is drivable.
func pickFastestRoadClass(highway string) string {
	best := ""
	bestSpeed := 0.0
	for _, part := range strings.Split(highway, ";") {
		part = strings.TrimSpace(part)
		if _, ok := acceptedRoadClass[part]; !ok {
			continue
		}
		speed, ok := datastructure.RoadClassMaxSpeed(part)
		if !ok {
			continue
		}
		if speed > bestSpeed {
			best = part
			bestSpeed = speed
		}
	}
	return best
}

// normalizeMaxSpeed resolves a possibly composite maxspeed tag
// ("40;60", "50 kmh") to the highest parseable km/h figure, or "" when
// nothing in the tag parses.
func normalizeMaxSpeed(maxSpeed string) string {
	best := math.Inf(-1)
	for _, part := range strings.Split(maxSpeed, ";") {
		part = strings.TrimSpace(part)
		part = strings.TrimSuffix(part, " kmh")
		part = strings.TrimSuffix(part, " km/h")
		speed, err := strconv.ParseFloat(part, 64)
		if err != nil || speed <= 0 {
			continue
		}
		if speed > best {
			best = speed
		}
	}
	if math.IsInf(best, -1) {
		return ""
	}
	return strconv.FormatFloat(best, 'f', -1, 64)
}
