package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/handbeat/internal/chart"
	"github.com/vovakirdan/handbeat/internal/hand"
)

// State is the lifecycle of a note within one session.
type State int

const (
	Pending State = iota // not yet activated, or active and unresolved
	Hit
	Missed
)

func (s State) String() string {
	switch s {
	case Hit:
		return "hit"
	case Missed:
		return "missed"
	default:
		return "pending"
	}
}

// Resolution is the per-session mutable record of one note.
type Resolution struct {
	State   State
	Quality Quality // valid when State == Hit
	At      float64 // playback time of the resolving tick
}

// Terminal reports whether the note has resolved.
func (r Resolution) Terminal() bool {
	return r.State != Pending
}

// Core advances one play session. The chart is shared and never mutated; every mutable
// per-note fact lives in a resolution table indexed by NoteID.
type Core struct {
	chart *chart.Chart
	field Field
	judge Judge

	res    []Resolution
	cursor int            // next chart index to activate; only moves forward
	active []chart.NoteID // activated and unresolved, in chart order

	now     float64 // high-water playback time
	stepped bool
}

// New creates a core for c.
func New(c *chart.Chart, field Field, judge Judge) *Core {
	core := &Core{chart: c, field: field, judge: judge}
	core.Reset()
	return core
}

// Reset discards every resolution and rewinds to the start of the chart.
func (c *Core) Reset() {
	c.res = make([]Resolution, c.chart.Len())
	c.cursor = 0
	c.active = c.active[:0]
	c.now = 0
	c.stepped = false
}

// Step advances the simulation to playback time t. A t below the highest time already
// stepped to is treated as that time, so activation and resolution never run backward.
//
// Within a tick notes are activated first, then every active note is examined in chart
// order: an expired note is missed before any hit test runs, and a hit is judged only in
// the judgement window against the note's own hand. Each resolution is published to sink
// exactly once. If sink returns false the tick stops there and the remaining notes are
// left untouched. Step returns the effective time.
func (c *Core) Step(t float64, hands hand.Pair, sink Sink) float64 {
	if c.stepped && t < c.now {
		t = c.now
	}
	c.now = t
	c.stepped = true

	c.activate(t)

	kept := c.active[:0]
	halted := false
	for _, id := range c.active {
		if halted {
			kept = append(kept, id)
			continue
		}
		ev, resolved := c.examine(id, t, hands)
		if !resolved {
			kept = append(kept, id)
			continue
		}
		if !sink.Publish(ev) {
			halted = true
		}
	}
	c.active = kept
	return t
}

func (c *Core) activate(t float64) {
	horizon := t + c.field.Lookahead()
	for c.cursor < c.chart.Len() {
		n := c.chart.At(chart.NoteID(c.cursor))
		if n.Time > horizon {
			return
		}
		c.active = append(c.active, n.ID)
		c.cursor++
	}
}

// examine runs the miss and hit tests for one active note and records its resolution.
func (c *Core) examine(id chart.NoteID, t float64, hands hand.Pair) (Event, bool) {
	n := c.chart.At(id)
	depth := c.field.Depth(n, t)

	if c.field.Passed(depth) {
		c.res[id] = Resolution{State: Missed, At: t}
		return Event{Kind: KindMiss, Note: n, Time: t}, true
	}
	if !c.field.InWindow(depth) {
		return Event{}, false
	}

	hs := hands.Get(sideOf(n.Hand))
	if !hs.Present {
		return Event{}, false
	}
	pos := c.field.Position(n, c.chart.Lanes, t)
	if hs.Position.Sub(pos).Len() > c.judge.HitRadius {
		return Event{}, false
	}

	q, flaw := c.judge.Classify(n, hs)
	c.res[id] = Resolution{State: Hit, Quality: q, At: t}
	return Event{Kind: KindHit, Note: n, Quality: q, Flaw: flaw, Time: t}, true
}

func sideOf(h chart.Hand) hand.Side {
	if h == chart.HandLeft {
		return hand.Left
	}
	return hand.Right
}

// Time returns the high-water playback time.
func (c *Core) Time() float64 {
	return c.now
}

// Lookahead returns how far ahead of a note's time it becomes active.
func (c *Core) Lookahead() float64 {
	return c.field.Lookahead()
}

// Depth returns the depth of n at time t.
func (c *Core) Depth(n chart.Note, t float64) float64 {
	return c.field.Depth(n, t)
}

// NotePosition returns the world position of n at time t.
func (c *Core) NotePosition(n chart.Note, t float64) mgl64.Vec3 {
	return c.field.Position(n, c.chart.Lanes, t)
}

// Classify grades a strike on n by hs.
func (c *Core) Classify(n chart.Note, hs hand.State) Quality {
	q, _ := c.judge.Classify(n, hs)
	return q
}

// Cursor returns the index of the next note to activate.
func (c *Core) Cursor() int {
	return c.cursor
}

// Active returns the IDs of active unresolved notes in chart order.
func (c *Core) Active() []chart.NoteID {
	out := make([]chart.NoteID, len(c.active))
	copy(out, c.active)
	return out
}

// Resolution returns the record for id.
func (c *Core) Resolution(id chart.NoteID) Resolution {
	return c.res[id]
}

// Done reports whether every note in the chart has resolved.
func (c *Core) Done() bool {
	return c.cursor == c.chart.Len() && len(c.active) == 0
}

// Chart returns the chart being played.
func (c *Core) Chart() *chart.Chart {
	return c.chart
}

// Field returns the geometry.
func (c *Core) Field() Field {
	return c.field
}

// VisibleNote is a render view of an active note.
type VisibleNote struct {
	Note     chart.Note
	Position mgl64.Vec3
	InWindow bool
}

// Visible returns the active notes positioned at time t, farthest first.
func (c *Core) Visible(t float64) []VisibleNote {
	out := make([]VisibleNote, 0, len(c.active))
	for i := len(c.active) - 1; i >= 0; i-- {
		n := c.chart.At(c.active[i])
		pos := c.field.Position(n, c.chart.Lanes, t)
		out = append(out, VisibleNote{Note: n, Position: pos, InWindow: c.field.InWindow(pos.Z())})
	}
	return out
}
