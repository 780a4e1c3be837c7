// Package costfunction provides the pluggable edge-cost policies used by the
// routing and spanning-tree engines: plain distance, travel time at the
// maximum allowed speed, and travel time with the expected traffic-light
// delay per intersection.
package costfunction

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/madnav/madnav/pkg/datastructure"
)

const (
	kmhToMs = 3.6

	// each intersection has probability 0.8 of a 30 s stop, so the
	// expected signal delay per edge is 24 s
	trafficLightStopProbability = 0.8
	trafficLightStopSeconds     = 30.0
	expectedTrafficLightDelay   = trafficLightStopProbability * trafficLightStopSeconds
)

var (
	ErrInvalidEdge      = errors.New("no such edge in graph")
	ErrMissingAttribute = errors.New("required edge attribute is missing")
	ErrUnknownRoadClass = errors.New("no maximum speed known for road class")
)

// WeightFunc computes the non-negative cost of the directed edge (u, v).
// Any function with this shape can drive the engines; the three policies
// below cover the use cases of the navigation service.
type WeightFunc[K comparable] func(g *datastructure.Graph[K], u, v K) (float64, error)

// Shortest weighs an edge by its physical length in meters.
func Shortest[K comparable](g *datastructure.Graph[K], u, v K) (float64, error) {
	attrs, ok := g.EdgeBetween(u, v)
	if !ok {
		return 0, fmt.Errorf("edge (%v, %v): %w", u, v, ErrInvalidEdge)
	}
	if !attrs.HasDist() {
		return 0, fmt.Errorf("edge (%v, %v) has no length: %w", u, v, ErrMissingAttribute)
	}
	return attrs.Dist, nil
}

// Fastest weighs an edge by the travel time in seconds when driving at the
// maximum allowed speed. The speed comes from the edge's own maxspeed tag
// when it parses as a number, otherwise from the road-class table.
func Fastest[K comparable](g *datastructure.Graph[K], u, v K) (float64, error) {
	attrs, ok := g.EdgeBetween(u, v)
	if !ok {
		return 0, fmt.Errorf("edge (%v, %v): %w", u, v, ErrInvalidEdge)
	}
	if !attrs.HasDist() {
		return 0, fmt.Errorf("edge (%v, %v) has no length: %w", u, v, ErrMissingAttribute)
	}
	kmh, err := maxSpeedKmh(attrs)
	if err != nil {
		return 0, fmt.Errorf("edge (%v, %v): %w", u, v, err)
	}
	return attrs.Dist / (kmh / kmhToMs), nil
}

// FastestWithTrafficLights is Fastest plus the expected signal delay at the
// intersection each edge leads into.
func FastestWithTrafficLights[K comparable](g *datastructure.Graph[K], u, v K) (float64, error) {
	base, err := Fastest(g, u, v)
	if err != nil {
		return 0, err
	}
	return base + expectedTrafficLightDelay, nil
}

func maxSpeedKmh(attrs datastructure.EdgeAttributes) (float64, error) {
	if raw := strings.TrimSpace(attrs.MaxSpeed); raw != "" {
		if kmh, err := strconv.ParseFloat(raw, 64); err == nil {
			return kmh, nil
		}
	}
	if kmh, ok := datastructure.RoadClassMaxSpeed(attrs.RoadClass); ok {
		return kmh, nil
	}
	return 0, fmt.Errorf("road class %q: %w", attrs.RoadClass, ErrUnknownRoadClass)
}
