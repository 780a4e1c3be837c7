package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/madnav/madnav/pkg/datastructure"
	"github.com/madnav/madnav/pkg/gazetteer"
	"github.com/madnav/madnav/pkg/server"
)

type gazetteerStub struct {
	entries map[string]gazetteer.Entry
}

func (s *gazetteerStub) Find(address string) (gazetteer.Entry, error) {
	return s.FindFuzzy(address, 1.0)
}

func (s *gazetteerStub) FindFuzzy(address string, minSimilarity float64) (gazetteer.Entry, error) {
	entry, ok := s.entries[address]
	if !ok {
		return gazetteer.Entry{}, fmt.Errorf("%q: %w", address, gazetteer.ErrAddressNotFound)
	}
	return entry, nil
}

type snapperFunc func(lat, lon float64) (int64, bool)

func (f snapperFunc) NearestNode(lat, lon float64) (int64, bool) {
	return f(lat, lon)
}

/*
	test road network, one way west to east:

	1 --Calle Mayor (1 km, residential)--> 2 --Gran Vía (2 km, primary@50)--> 3
*/
func newTestService() *NavigationService {
	g := datastructure.NewGraph[int64]()
	g.AddNode(1, -3.710, 40.415)
	g.AddNode(2, -3.700, 40.417)
	g.AddNode(3, -3.690, 40.420)
	g.AddEdge(1, 2, datastructure.NewEdgeAttributes("Calle Mayor", 1000, "residential", ""))
	g.AddEdge(2, 3, datastructure.NewEdgeAttributes("Gran Vía", 2000, "primary", "50"))

	gz := &gazetteerStub{entries: map[string]gazetteer.Entry{
		"Calle Mayor 1": {Address: "Calle Mayor 1", Lat: 40.415, Lon: -3.710},
	}}
	snapper := snapperFunc(func(lat, lon float64) (int64, bool) {
		switch {
		case lon < -3.705:
			return 1, true
		case lon < -3.695:
			return 2, true
		default:
			return 3, true
		}
	})
	return NewNavigationService(g, gz, snapper)
}

func errorKind(t *testing.T, err error) server.ErrorKind {
	t.Helper()
	var svcErr *server.Error
	assert.True(t, errors.As(err, &svcErr))
	return svcErr.Kind()
}

func TestShortestPathRouteByCoordinates(t *testing.T) {
	svc := newTestService()

	polyline, instructions, distKm, eta, found, err := svc.ShortestPathRoute(context.Background(),
		"", 40.415, -3.710, "", 40.420, -3.690, "shortest")

	assert.NoError(t, err)
	assert.True(t, found)
	assert.NotEmpty(t, polyline)
	assert.InDelta(t, 3.0, distKm, 1e-9)
	// 1 km at 30 km/h default + 2 km at the tagged 50 km/h
	assert.InDelta(t, 264.0, eta, 1e-9)
	assert.NotEmpty(t, instructions)
	assert.Contains(t, instructions[0], "Depart from the origin")
	assert.Contains(t, instructions[len(instructions)-1], "Approximate total distance")
}

func TestShortestPathRouteByAddress(t *testing.T) {
	svc := newTestService()

	_, _, distKm, _, found, err := svc.ShortestPathRoute(context.Background(),
		"Calle Mayor 1", 0, 0, "", 40.420, -3.690, "shortest")

	assert.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, 3.0, distKm, 1e-9)
}

func TestShortestPathRouteUnknownAddress(t *testing.T) {
	svc := newTestService()

	_, _, _, _, found, err := svc.ShortestPathRoute(context.Background(),
		"Plaza Inventada 99", 0, 0, "", 40.420, -3.690, "shortest")

	assert.False(t, found)
	assert.Equal(t, server.ErrNotFound, errorKind(t, err))
}

func TestShortestPathRouteNoRoute(t *testing.T) {
	svc := newTestService()

	// every street is one way west to east, so east to west has no route
	polyline, instructions, _, _, found, err := svc.ShortestPathRoute(context.Background(),
		"", 40.420, -3.690, "", 40.415, -3.710, "shortest")

	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, polyline)
	assert.Empty(t, instructions)
}

func TestShortestPathRouteUnknownCostFunction(t *testing.T) {
	svc := newTestService()

	_, _, _, _, _, err := svc.ShortestPathRoute(context.Background(),
		"", 40.415, -3.710, "", 40.420, -3.690, "scenic")

	assert.Equal(t, server.ErrBadParamInput, errorKind(t, err))
}

func TestSpanningForest(t *testing.T) {
	svc := newTestService()

	for _, algorithm := range []string{"kruskal", "prim"} {
		edgeCount, totalWeight, err := svc.SpanningForest(context.Background(), algorithm, "shortest")
		assert.NoError(t, err, algorithm)
		assert.Equal(t, 2, edgeCount, algorithm)
		assert.InDelta(t, 3000.0, totalWeight, 1e-9, algorithm)
	}
}

func TestSpanningForestUnknownAlgorithm(t *testing.T) {
	svc := newTestService()

	_, _, err := svc.SpanningForest(context.Background(), "boruvka", "shortest")
	assert.Equal(t, server.ErrBadParamInput, errorKind(t, err))
}
