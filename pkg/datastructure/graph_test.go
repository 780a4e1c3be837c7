package datastructure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphAddEdge(t *testing.T) {
	g := NewGraph[int64]()
	g.AddNode(1, 0, 0)
	g.AddNode(2, 1, 0)

	err := g.AddEdge(1, 2, NewEdgeAttributes("Gran Via", 120, "primary", "50"))
	assert.NoError(t, err)

	attrs, ok := g.EdgeBetween(1, 2)
	assert.True(t, ok)
	assert.Equal(t, "Gran Via", attrs.StreetName)
	assert.Equal(t, 120.0, attrs.Dist)

	// reverse direction was never added
	_, ok = g.EdgeBetween(2, 1)
	assert.False(t, ok)
}

func TestGraphRejectsSelfLoop(t *testing.T) {
	g := NewGraph[int64]()
	g.AddNode(1, 0, 0)

	err := g.AddEdge(1, 1, NewEdgeAttributes("", 10, "residential", ""))
	assert.ErrorIs(t, err, ErrSelfLoop)
	assert.Equal(t, 0, g.NumEdges())
}

func TestGraphRejectsUnknownEndpoint(t *testing.T) {
	g := NewGraph[int64]()
	g.AddNode(1, 0, 0)

	err := g.AddEdge(1, 99, NewEdgeAttributes("", 10, "residential", ""))
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestGraphEdgeOverwrite(t *testing.T) {
	g := NewGraph[int64]()
	g.AddNode(1, 0, 0)
	g.AddNode(2, 1, 0)

	assert.NoError(t, g.AddEdge(1, 2, NewEdgeAttributes("old", 10, "residential", "")))
	assert.NoError(t, g.AddEdge(1, 2, NewEdgeAttributes("new", 20, "residential", "")))

	assert.Equal(t, 1, g.NumEdges())
	attrs, _ := g.EdgeBetween(1, 2)
	assert.Equal(t, "new", attrs.StreetName)
}

func TestGraphEnumerationOrder(t *testing.T) {
	g := NewGraph[string]()
	for _, id := range []string{"c", "a", "b"} {
		g.AddNode(id, 0, float64(len(id)))
	}
	assert.NoError(t, g.AddEdge("c", "a", EdgeAttributes{Dist: 1}))
	assert.NoError(t, g.AddEdge("a", "b", EdgeAttributes{Dist: 2}))
	assert.NoError(t, g.AddEdge("c", "b", EdgeAttributes{Dist: 3}))

	assert.Equal(t, []string{"c", "a", "b"}, g.Nodes())
	assert.Equal(t, [][2]string{{"c", "a"}, {"a", "b"}, {"c", "b"}}, g.Edges())
	assert.Equal(t, []string{"a", "b"}, g.Neighbors("c"))
}

func TestEdgeAttributesHasDist(t *testing.T) {
	assert.True(t, EdgeAttributes{Dist: 0}.HasDist())
	assert.False(t, EdgeAttributes{Dist: math.NaN()}.HasDist())
}

func TestRoadClassMaxSpeed(t *testing.T) {
	cases := []struct {
		roadClass string
		expected  float64
	}{
		{"living_street", 20},
		{"residential", 30},
		{"primary_link", 40},
		{"unclassified", 40},
		{"secondary_link", 40},
		{"trunk_link", 40},
		{"secondary", 50},
		{"tertiary", 50},
		{"primary", 50},
		{"trunk", 50},
		{"tertiary_link", 50},
		{"busway", 50},
		{"motorway_link", 70},
		{"motorway", 100},
	}
	for _, c := range cases {
		kmh, ok := RoadClassMaxSpeed(c.roadClass)
		assert.True(t, ok, c.roadClass)
		assert.Equal(t, c.expected, kmh, c.roadClass)
	}

	_, ok := RoadClassMaxSpeed("footway")
	assert.False(t, ok)
}
