package costfunction

import (
	"math"
	"testing"

	"github.com/madnav/madnav/pkg/datastructure"
	"github.com/stretchr/testify/assert"
)

func buildTestGraph(t *testing.T) *datastructure.Graph[int64] {
	t.Helper()
	g := datastructure.NewGraph[int64]()
	g.AddNode(1, 0, 0)
	g.AddNode(2, 1, 0)
	g.AddNode(3, 1, 1)
	g.AddNode(4, 2, 1)
	g.AddNode(5, 3, 1)

	// 100 m at a tagged 50 km/h
	assert.NoError(t, g.AddEdge(1, 2, datastructure.NewEdgeAttributes("Main St", 100, "primary", "50")))
	// no maxspeed tag, residential fallback of 30 km/h
	assert.NoError(t, g.AddEdge(2, 3, datastructure.NewEdgeAttributes("Side St", 60, "residential", "")))
	// unparseable maxspeed and a road class outside the table
	assert.NoError(t, g.AddEdge(3, 4, datastructure.NewEdgeAttributes("", 40, "footway", "walk")))
	// length missing entirely
	assert.NoError(t, g.AddEdge(4, 5, datastructure.NewEdgeAttributes("", math.NaN(), "residential", "")))
	return g
}

func TestShortest(t *testing.T) {
	g := buildTestGraph(t)

	w, err := Shortest(g, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, w)
}

func TestShortestInvalidEdge(t *testing.T) {
	g := buildTestGraph(t)

	_, err := Shortest(g, 2, 1)
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

func TestShortestMissingLength(t *testing.T) {
	g := buildTestGraph(t)

	_, err := Shortest(g, 4, 5)
	assert.ErrorIs(t, err, ErrMissingAttribute)
}

func TestFastestUsesMaxSpeedTag(t *testing.T) {
	g := buildTestGraph(t)

	// 100 m at 50 km/h = 100 / (50/3.6) = 7.2 s
	w, err := Fastest(g, 1, 2)
	assert.NoError(t, err)
	assert.InDelta(t, 7.2, w, 1e-9)
}

func TestFastestFallsBackToRoadClass(t *testing.T) {
	g := buildTestGraph(t)

	// 60 m at the residential 30 km/h = 60 / (30/3.6) = 7.2 s
	w, err := Fastest(g, 2, 3)
	assert.NoError(t, err)
	assert.InDelta(t, 7.2, w, 1e-9)
}

func TestFastestUnknownRoadClass(t *testing.T) {
	g := buildTestGraph(t)

	// "walk" does not parse and "footway" is not in the table
	_, err := Fastest(g, 3, 4)
	assert.ErrorIs(t, err, ErrUnknownRoadClass)
}

func TestFastestWithTrafficLights(t *testing.T) {
	g := buildTestGraph(t)

	base, err := Fastest(g, 1, 2)
	assert.NoError(t, err)

	withLights, err := FastestWithTrafficLights(g, 1, 2)
	assert.NoError(t, err)
	assert.InDelta(t, base+24.0, withLights, 1e-9)
}

func TestFastestWithTrafficLightsPropagatesErrors(t *testing.T) {
	g := buildTestGraph(t)

	_, err := FastestWithTrafficLights(g, 3, 4)
	assert.ErrorIs(t, err, ErrUnknownRoadClass)
}
