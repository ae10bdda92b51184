package tui

import (
	"time"

	"github.com/vovakirdan/handbeat/internal/core"
	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/sim"
	"github.com/vovakirdan/handbeat/internal/tracking"
)

const (
	glideTime = 80 * time.Millisecond // one cell step
	chopTime  = 80 * time.Millisecond
	chopReach = 0.5 // world units above the cell a chop starts from
)

// cell is a lane/layer position on the note grid.
type cell struct {
	lane, layer int
}

// puppeteer turns hand actions from the keyboard into rig motion on the note grid.
// Every step is a short glide, so the hand reaches its cell moving in the step direction.
type puppeteer struct {
	rig    *tracking.Rig
	field  sim.Field
	lanes  int
	layers int
	at     [2]cell
	hidden [2]bool
}

// newPuppeteer places both hands on the bottom layer of the two middle lanes.
func newPuppeteer(rig *tracking.Rig, field sim.Field, lanes, layers int) *puppeteer {
	p := &puppeteer{rig: rig, field: field, lanes: lanes, layers: layers}
	left := max(0, lanes/2-1)
	right := min(lanes-1, lanes/2)
	p.at[hand.Left] = cell{lane: left}
	p.at[hand.Right] = cell{lane: right}
	for _, side := range hand.Sides {
		x, y := p.world(p.at[side])
		rig.Place(side, x, y)
	}
	return p
}

func (p *puppeteer) world(c cell) (x, y float64) {
	return p.field.LaneX(c.lane, p.lanes), p.field.LayerY(c.layer)
}

// Cell returns the grid cell a hand is on or heading to.
func (p *puppeteer) Cell(side hand.Side) (lane, layer int) {
	return p.at[side].lane, p.at[side].layer
}

// Hidden reports whether a hand is out of view.
func (p *puppeteer) Hidden(side hand.Side) bool {
	return p.hidden[side]
}

// Apply performs one hand action. Moves stop at the grid edge.
func (p *puppeteer) Apply(side hand.Side, a core.Action) {
	if dx, dy, ok := a.Move(); ok {
		c := p.at[side]
		c.lane = core.Clamp(c.lane+dx, 0, p.lanes-1)
		c.layer = core.Clamp(c.layer+dy, 0, p.layers-1)
		if c == p.at[side] {
			return
		}
		p.at[side] = c
		x, y := p.world(c)
		p.rig.MoveTo(side, x, y, glideTime)
		return
	}

	switch a {
	case core.ActionChop:
		p.rig.Strike(side, 0, -1, chopReach, chopTime)
	case core.ActionGrip:
		p.rig.ToggleGrip(side)
	case core.ActionHide:
		p.hidden[side] = !p.hidden[side]
		p.rig.SetVisible(side, !p.hidden[side])
	}
}
