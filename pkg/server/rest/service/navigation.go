package service

import (
	"context"
	"errors"

	"github.com/madnav/madnav/pkg/costfunction"
	"github.com/madnav/madnav/pkg/datastructure"
	"github.com/madnav/madnav/pkg/engine/routingalgorithm"
	"github.com/madnav/madnav/pkg/engine/spanningtree"
	"github.com/madnav/madnav/pkg/gazetteer"
	"github.com/madnav/madnav/pkg/guidance"
	"github.com/madnav/madnav/pkg/server"
	"github.com/madnav/madnav/pkg/util"
)

type Gazetteer interface {
	Find(address string) (gazetteer.Entry, error)
	FindFuzzy(address string, minSimilarity float64) (gazetteer.Entry, error)
}

type NodeSnapper interface {
	NearestNode(lat, lon float64) (int64, bool)
}

type NavigationService struct {
	graph   *datastructure.Graph[int64]
	gz      Gazetteer
	snapper NodeSnapper
}

func NewNavigationService(graph *datastructure.Graph[int64], gz Gazetteer, snapper NodeSnapper) *NavigationService {
	return &NavigationService{graph: graph, gz: gz, snapper: snapper}
}

func (uc *NavigationService) costFunction(name string) (costfunction.WeightFunc[int64], error) {
	switch name {
	case "", "shortest":
		return costfunction.Shortest[int64], nil
	case "fastest":
		return costfunction.Fastest[int64], nil
	case "fastest_with_lights":
		return costfunction.FastestWithTrafficLights[int64], nil
	default:
		return nil, server.NewErrorf(server.ErrBadParamInput,
			"unknown cost function %q, must be one of shortest, fastest, fastest_with_lights", name)
	}
}

// resolvePlace turns a request place into a graph node. An address is
// geocoded through the gazetteer first, otherwise the raw coordinate is
// snapped directly.
func (uc *NavigationService) resolvePlace(address string, lat, lon float64) (int64, error) {
	if address != "" {
		entry, err := uc.gz.FindFuzzy(address, gazetteer.DefaultMinSimilarity)
		if err != nil {
			return 0, server.WrapErrorf(err, server.ErrNotFound,
				"sorry!! no address in the street directory is similar enough to %q", address)
		}
		lat, lon = entry.Lat, entry.Lon
	}

	nodeID, ok := uc.snapper.NearestNode(lat, lon)
	if !ok {
		return 0, server.NewErrorf(server.ErrNotFound,
			"sorry!! the location you entered is not covered on my map :(, please use a different openstreetmap pbf file")
	}
	return nodeID, nil
}

// ShortestPathRoute routes between two places and returns the encoded
// polyline, the driving instructions, the route distance in km and the
// estimated travel time in seconds (-1 when a segment has no usable
// speed).
func (uc *NavigationService) ShortestPathRoute(ctx context.Context, srcAddress string, srcLat, srcLon float64,
	dstAddress string, dstLat, dstLon float64, costName string) (string, []string, float64, float64, bool, error) {

	weight, err := uc.costFunction(costName)
	if err != nil {
		return "", []string{}, 0, 0, false, err
	}

	from, err := uc.resolvePlace(srcAddress, srcLat, srcLon)
	if err != nil {
		return "", []string{}, 0, 0, false, err
	}
	to, err := uc.resolvePlace(dstAddress, dstLat, dstLon)
	if err != nil {
		return "", []string{}, 0, 0, false, err
	}

	path, err := routingalgorithm.ShortestPath(uc.graph, weight, from, to)
	if err != nil {
		return "", []string{}, 0, 0, false, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}
	if len(path) == 0 {
		// not an error: the places are valid but no drivable route connects them
		return "", []string{}, 0, 0, false, nil
	}

	coords := make([]datastructure.Coordinate, 0, len(path))
	for _, id := range path {
		node, _ := uc.graph.Node(id)
		coords = append(coords, datastructure.NewCoordinate(node.Y, node.X))
	}
	polyline := datastructure.CreatePolyline(coords)

	instructions := guidance.BuildInstructions(path, uc.graph)
	distKm := util.RoundFloat(uc.pathWeightSum(path, costfunction.Shortest[int64])/1000.0, 2)
	eta := util.RoundFloat(uc.pathWeightSum(path, costfunction.Fastest[int64]), 2)

	return polyline, instructions, distKm, eta, true, nil
}

// pathWeightSum totals weight over consecutive path edges, or -1 when
// any edge is missing the attribute the cost function needs.
func (uc *NavigationService) pathWeightSum(path []int64, weight costfunction.WeightFunc[int64]) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		w, err := weight(uc.graph, path[i], path[i+1])
		if err != nil {
			return -1
		}
		total += w
	}
	return total
}

// SpanningForest computes a minimum spanning forest over the whole road
// graph and returns its edge count and total weight.
func (uc *NavigationService) SpanningForest(ctx context.Context, algorithm string, costName string) (int, float64, error) {
	weight, err := uc.costFunction(costName)
	if err != nil {
		return 0, 0, err
	}

	var edges [][2]int64
	switch algorithm {
	case "", "kruskal":
		edges, err = spanningtree.Kruskal(uc.graph, weight)
	case "prim":
		var parent map[int64]int64
		parent, err = spanningtree.Prim(uc.graph, weight)
		if err == nil {
			edges = make([][2]int64, 0, len(parent))
			for _, id := range uc.graph.Nodes() {
				if p, ok := parent[id]; ok {
					edges = append(edges, [2]int64{p, id})
				}
			}
		}
	default:
		return 0, 0, server.NewErrorf(server.ErrBadParamInput,
			"unknown spanning tree algorithm %q, must be prim or kruskal", algorithm)
	}
	if err != nil {
		if errors.Is(err, costfunction.ErrInvalidEdge) ||
			errors.Is(err, costfunction.ErrMissingAttribute) ||
			errors.Is(err, costfunction.ErrUnknownRoadClass) {
			return 0, 0, server.WrapErrorf(err, server.ErrBadParamInput,
				"the road graph has edges the chosen cost function cannot weigh")
		}
		return 0, 0, server.WrapErrorf(err, server.ErrInternalServerError, "internal server error")
	}

	total := 0.0
	for _, e := range edges {
		w, werr := weight(uc.graph, e[0], e[1])
		if werr != nil {
			return 0, 0, server.WrapErrorf(werr, server.ErrInternalServerError, "internal server error")
		}
		total += w
	}
	return len(edges), util.RoundFloat(total, 2), nil
}
