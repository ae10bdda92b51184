package hand

import "github.com/go-gl/mathgl/mgl64"

// Mapping projects a normalized fingertip coordinate into game-world space.
// World axes: x to the player's right, y up, z toward the player.
type Mapping struct {
	Width      float64 `yaml:"width"`       // world width covered by the camera image
	Height     float64 `yaml:"height"`      // world height covered by the camera image
	FloorY     float64 `yaml:"floor_y"`     // world y at the bottom image edge
	PlayerLine float64 `yaml:"player_line"` // world z of the hands at mid height
	DepthTilt  float64 `yaml:"depth_tilt"`  // z change from image bottom to top
}

// DefaultMapping matches the default lane grid.
func DefaultMapping() Mapping {
	return Mapping{
		Width:      2.0,
		Height:     1.6,
		FloorY:     0.4,
		PlayerLine: 0,
		DepthTilt:  0.3,
	}
}

// Project maps a fingertip to world space. The image is mirrored horizontally so the
// player sees themselves as in a mirror, and image y (down) is inverted to world y (up).
// Raised hands reach slightly further down the lanes.
func (m Mapping) Project(tip Landmark) mgl64.Vec3 {
	up := 1 - tip.Y
	return mgl64.Vec3{
		(0.5 - tip.X) * m.Width,
		m.FloorY + up*m.Height,
		m.PlayerLine - (up-0.5)*m.DepthTilt,
	}
}

// Unproject is the inverse of Project for the x/y plane. Synthetic hand sources use it
// to place a fingertip over a world position.
func (m Mapping) Unproject(x, y float64) Landmark {
	lm := Landmark{X: 0.5, Y: 0.5}
	if m.Width != 0 {
		lm.X = 0.5 - x/m.Width
	}
	if m.Height != 0 {
		lm.Y = 1 - (y-m.FloorY)/m.Height
	}
	return lm
}
