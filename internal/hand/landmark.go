// Package hand turns raw per-frame landmark detections into smoothed, velocity-aware
// hand state for the left and right hands.
package hand

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Side names one of the two tracked hands.
type Side int

const (
	Left Side = iota
	Right
)

// Sides lists both hands in iteration order.
var Sides = [...]Side{Left, Right}

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Opposite returns the other hand.
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

// LandmarkCount is the number of points in one hand detection.
const LandmarkCount = 21

// Landmark indices of the 21-point hand model.
const (
	Wrist = 0

	ThumbCMC = 1
	ThumbMCP = 2
	ThumbIP  = 3
	ThumbTip = 4

	IndexMCP = 5
	IndexPIP = 6
	IndexDIP = 7
	IndexTip = 8

	MiddleMCP = 9
	MiddlePIP = 10
	MiddleDIP = 11
	MiddleTip = 12

	RingMCP = 13
	RingPIP = 14
	RingDIP = 15
	RingTip = 16

	PinkyMCP = 17
	PinkyPIP = 18
	PinkyDIP = 19
	PinkyTip = 20
)

// Landmark is a detected point. X and Y are normalized image coordinates in [0,1]
// (origin top-left); Z is relative depth as reported by the detector.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Vec returns the landmark as a vector.
func (l Landmark) Vec() mgl64.Vec3 {
	return mgl64.Vec3{l.X, l.Y, l.Z}
}

// DetectedHand is one hand found in a frame.
type DetectedHand struct {
	Landmarks  [LandmarkCount]Landmark `json:"landmarks"`
	Handedness Side                    `json:"handedness"`
	Confidence float64                 `json:"confidence"`
}

// Detection is the result of running the detector on one frame: zero, one or two hands.
type Detection struct {
	Hands []DetectedHand `json:"hands"`
	At    time.Time      `json:"at"`
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	if s != Left && s != Right {
		return nil, fmt.Errorf("hand: invalid side %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts "left"/"right" in any case, as detectors label them.
func (s *Side) UnmarshalText(b []byte) error {
	switch string(b) {
	case "left", "Left", "LEFT":
		*s = Left
	case "right", "Right", "RIGHT":
		*s = Right
	default:
		return fmt.Errorf("hand: unknown handedness %q", string(b))
	}
	return nil
}
