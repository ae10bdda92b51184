package chart

import (
	"errors"
	"fmt"
	"sort"
)

// Default grid dimensions.
const (
	DefaultLanes  = 4
	DefaultLayers = 3
)

// ErrInvalidNote is returned when a note falls outside the chart's grid or has a negative time.
var ErrInvalidNote = errors.New("chart: invalid note")

// Meta carries the descriptive fields of a chart.
type Meta struct {
	Title  string  `yaml:"title" json:"title"`
	Artist string  `yaml:"artist,omitempty" json:"artist,omitempty"`
	Audio  string  `yaml:"audio,omitempty" json:"audio,omitempty"`   // path relative to the chart file
	Offset float64 `yaml:"offset,omitempty" json:"offset,omitempty"` // seconds added to every note time
	Lanes  int     `yaml:"lanes,omitempty" json:"lanes,omitempty"`
	Layers int     `yaml:"layers,omitempty" json:"layers,omitempty"`
}

// Chart is an immutable, time-ordered list of notes.
type Chart struct {
	Meta
	notes []Note
}

// New builds a chart from notes in authoring order. Notes are stably sorted by time so that
// notes sharing a time keep their insertion order, then numbered by position.
func New(meta Meta, notes []Note) (*Chart, error) {
	if meta.Lanes <= 0 {
		meta.Lanes = DefaultLanes
	}
	if meta.Layers <= 0 {
		meta.Layers = DefaultLayers
	}

	sorted := make([]Note, len(notes))
	copy(sorted, notes)
	for i := range sorted {
		sorted[i].Time += meta.Offset
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})

	for i := range sorted {
		n := &sorted[i]
		n.ID = NoteID(i)
		if err := meta.check(*n); err != nil {
			return nil, fmt.Errorf("%w: note %d: %v", ErrInvalidNote, i, err)
		}
	}

	meta.Offset = 0 // folded into the note times
	return &Chart{Meta: meta, notes: sorted}, nil
}

func (m Meta) check(n Note) error {
	if n.Time < 0 {
		return fmt.Errorf("negative time %.3f", n.Time)
	}
	if n.Lane < 0 || n.Lane >= m.Lanes {
		return fmt.Errorf("lane %d outside [0,%d)", n.Lane, m.Lanes)
	}
	if n.Layer < 0 || n.Layer >= m.Layers {
		return fmt.Errorf("layer %d outside [0,%d)", n.Layer, m.Layers)
	}
	if n.Hand != HandLeft && n.Hand != HandRight {
		return fmt.Errorf("hand %d", int(n.Hand))
	}
	if n.Direction < DirAny || n.Direction > DirRight {
		return fmt.Errorf("direction %d", int(n.Direction))
	}
	return nil
}

// Len returns the number of notes.
func (c *Chart) Len() int {
	return len(c.notes)
}

// At returns the note with the given ID.
func (c *Chart) At(id NoteID) Note {
	return c.notes[id]
}

// Notes returns a copy of the notes in chart order.
func (c *Chart) Notes() []Note {
	out := make([]Note, len(c.notes))
	copy(out, c.notes)
	return out
}

// Duration returns the time of the last note, or 0 for an empty chart.
func (c *Chart) Duration() float64 {
	if len(c.notes) == 0 {
		return 0
	}
	return c.notes[len(c.notes)-1].Time
}

// Counts returns how many notes each hand must strike.
func (c *Chart) Counts() (left, right int) {
	for _, n := range c.notes {
		if n.Hand == HandLeft {
			left++
		} else {
			right++
		}
	}
	return left, right
}

// Mirror returns a copy played with the other hands: lanes reversed, hands swapped and
// left/right cuts flipped. Note order and IDs are unchanged.
func (c *Chart) Mirror() *Chart {
	out := &Chart{Meta: c.Meta, notes: c.Notes()}
	for i := range out.notes {
		n := &out.notes[i]
		n.Lane = c.Lanes - 1 - n.Lane
		if n.Hand == HandLeft {
			n.Hand = HandRight
		} else {
			n.Hand = HandLeft
		}
		switch n.Direction {
		case DirLeft:
			n.Direction = DirRight
		case DirRight:
			n.Direction = DirLeft
		}
	}
	return out
}
