// Package sim is the gameplay simulation core: it activates notes from the chart as the
// playback clock approaches them, derives their position from time, expires the ones that
// slip past the player and judges the ones a hand strikes.
package sim

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/handbeat/internal/chart"
)

// Field is the lane geometry. Notes travel along +z from the spawn line toward the
// player line; depth is a note's z coordinate.
type Field struct {
	PlayerLine    float64 `yaml:"player_line"`
	SpawnDistance float64 `yaml:"spawn_distance"` // distance from spawn line to player line
	TravelSpeed   float64 `yaml:"travel_speed"`   // units per second
	MissOffset    float64 `yaml:"miss_offset"`    // notes deeper than PlayerLine+MissOffset are missed
	WindowBefore  float64 `yaml:"window_before"`  // judgement window ahead of the player line
	WindowAfter   float64 `yaml:"window_after"`   // judgement window behind the player line
	LaneSpacing   float64 `yaml:"lane_spacing"`
	LayerBase     float64 `yaml:"layer_base"` // world y of layer 0
	LayerSpacing  float64 `yaml:"layer_spacing"`
}

// DefaultField returns the default geometry: notes spawn two seconds ahead.
func DefaultField() Field {
	return Field{
		PlayerLine:    0,
		SpawnDistance: 40,
		TravelSpeed:   20,
		MissOffset:    2.0,
		WindowBefore:  1.5,
		WindowAfter:   1.0,
		LaneSpacing:   0.5,
		LayerBase:     0.8,
		LayerSpacing:  0.5,
	}
}

// Validate reports geometry the simulation cannot run with.
func (f Field) Validate() error {
	switch {
	case f.TravelSpeed <= 0:
		return errors.New("sim: travel speed must be positive")
	case f.SpawnDistance <= 0:
		return errors.New("sim: spawn distance must be positive")
	case f.WindowBefore < 0 || f.WindowAfter < 0:
		return errors.New("sim: judgement window must not be negative")
	case f.MissOffset < f.WindowAfter:
		return errors.New("sim: miss line must lie behind the judgement window")
	}
	return nil
}

// Lookahead is how long before its time a note becomes active: exactly when it would be
// spawning at the far end of the lane.
func (f Field) Lookahead() float64 {
	return f.SpawnDistance / f.TravelSpeed
}

// Depth derives a note's z coordinate at playback time t. It is a pure function of t.
func (f Field) Depth(n chart.Note, t float64) float64 {
	return f.PlayerLine - (n.Time-t)*f.TravelSpeed
}

// InWindow reports whether depth lies in the judgement window.
func (f Field) InWindow(depth float64) bool {
	return depth >= f.PlayerLine-f.WindowBefore && depth <= f.PlayerLine+f.WindowAfter
}

// Passed reports whether depth is beyond the miss line.
func (f Field) Passed(depth float64) bool {
	return depth > f.PlayerLine+f.MissOffset
}

// LaneX returns the world x of a lane, centred on the grid.
func (f Field) LaneX(lane, lanes int) float64 {
	return (float64(lane) - float64(lanes-1)/2) * f.LaneSpacing
}

// LayerY returns the world y of a layer.
func (f Field) LayerY(layer int) float64 {
	return f.LayerBase + float64(layer)*f.LayerSpacing
}

// Position returns a note's world position at time t.
func (f Field) Position(n chart.Note, lanes int, t float64) mgl64.Vec3 {
	return mgl64.Vec3{f.LaneX(n.Lane, lanes), f.LayerY(n.Layer), f.Depth(n, t)}
}
