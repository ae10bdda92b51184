// Package chart defines the immutable note sequence a play session is judged against.
// Notes are plain values; per-session runtime state lives in the simulation, not here.
package chart

import (
	"fmt"
	"strings"
)

// Hand identifies which tracked hand must strike a note.
type Hand int

const (
	HandLeft Hand = iota
	HandRight
)

// String returns the chart-file spelling of the hand.
func (h Hand) String() string {
	switch h {
	case HandLeft:
		return "left"
	case HandRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseHand parses "left"/"right" (also "l"/"r").
func ParseHand(s string) (Hand, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return HandLeft, nil
	case "right", "r":
		return HandRight, nil
	}
	return 0, fmt.Errorf("chart: unknown hand %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (h Hand) MarshalText() ([]byte, error) {
	if h != HandLeft && h != HandRight {
		return nil, fmt.Errorf("chart: invalid hand %d", int(h))
	}
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hand) UnmarshalText(b []byte) error {
	v, err := ParseHand(string(b))
	if err != nil {
		return err
	}
	*h = v
	return nil
}

// Direction is the cut direction a note asks for.
type Direction int

const (
	DirAny Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// String returns the chart-file spelling of the direction.
func (d Direction) String() string {
	switch d {
	case DirAny:
		return "any"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection parses a cut direction. An empty string means any.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any", "*":
		return DirAny, nil
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	}
	return 0, fmt.Errorf("chart: unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if d < DirAny || d > DirRight {
		return nil, fmt.Errorf("chart: invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Vector returns the unit cut vector in world space (x right, y up).
// DirAny has no vector and reports ok=false.
func (d Direction) Vector() (x, y float64, ok bool) {
	switch d {
	case DirUp:
		return 0, 1, true
	case DirDown:
		return 0, -1, true
	case DirLeft:
		return -1, 0, true
	case DirRight:
		return 1, 0, true
	}
	return 0, 0, false
}

// NoteID is a note's index in its chart. Runtime state is kept in tables indexed by it.
type NoteID int

// Note is one scheduled target.
type Note struct {
	ID        NoteID    `yaml:"-" json:"-"`
	Time      float64   `yaml:"time" json:"time"` // seconds on the audio clock
	Lane      int       `yaml:"lane" json:"lane"`
	Layer     int       `yaml:"layer" json:"layer"`
	Hand      Hand      `yaml:"hand" json:"hand"`
	Direction Direction `yaml:"direction" json:"direction"`
	Grip      bool      `yaml:"grip,omitempty" json:"grip,omitempty"`
}

// String is used in logs and test failures.
func (n Note) String() string {
	s := fmt.Sprintf("#%d@%.3fs lane=%d layer=%d %s/%s", n.ID, n.Time, n.Lane, n.Layer, n.Hand, n.Direction)
	if n.Grip {
		s += " grip"
	}
	return s
}
