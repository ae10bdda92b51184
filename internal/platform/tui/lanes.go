package tui

import (
	"math"
	"strings"

	"github.com/vovakirdan/handbeat/internal/chart"
	"github.com/vovakirdan/handbeat/internal/core"
	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/session"
	"github.com/vovakirdan/handbeat/internal/sim"
)

// Lane view layout.
const (
	laneWidth  = 5 // columns per lane, highway and grid alike
	gridRowsPL = 2 // grid rows per layer
)

// handColors colors everything belonging to a hand.
var handColors = [2]core.Color{
	hand.Left:  core.ColorCyan,
	hand.Right: core.ColorMagenta,
}

func noteColor(n chart.Note) core.Color {
	if n.Hand == chart.HandLeft {
		return handColors[hand.Left]
	}
	return handColors[hand.Right]
}

func arrow(d chart.Direction) rune {
	switch d {
	case chart.DirUp:
		return '↑'
	case chart.DirDown:
		return '↓'
	case chart.DirLeft:
		return '←'
	case chart.DirRight:
		return '→'
	default:
		return '●'
	}
}

// noteGlyph is the three-column label of a note: cut direction, layer counted from 1, and
// a grip mark.
func noteGlyph(n chart.Note) string {
	g := []rune{arrow(n.Direction), rune('1' + n.Layer%9), ' '}
	if n.Grip {
		g[2] = '*'
	}
	return string(g)
}

// highwayWidth returns the outer width of the highway for a lane count.
func highwayWidth(lanes int) int {
	return lanes*laneWidth + 2
}

// gridSize returns the outer size of the front grid.
func gridSize(lanes, layers int) (w, h int) {
	return lanes*laneWidth + 2, layers*gridRowsPL + 2
}

// drawHighway draws the lanes seen from above: the far spawn line at the top, the miss line
// at the bottom, notes placed by depth.
func drawHighway(s *core.Screen, area core.Rect, snap session.Snapshot) {
	s.DrawBox(area, core.ColorGray)
	inner := area.Inset(1)
	if inner.W <= 0 || inner.H <= 0 || snap.Chart == nil {
		return
	}
	f := snap.Field
	lanes := snap.Chart.Lanes
	far := f.PlayerLine - f.SpawnDistance
	near := f.PlayerLine + f.MissOffset
	row := func(depth float64) int {
		return inner.Y + core.Scale(depth, far, near, inner.H)
	}

	for lane := 1; lane < lanes; lane++ {
		s.DrawVLine(inner.X+lane*laneWidth-1, inner.Y, inner.H, '┆', core.ColorGray)
	}

	// judgement window edges, then the player line over them
	winTop, winBottom := row(f.PlayerLine-f.WindowBefore), row(f.PlayerLine+f.WindowAfter)
	for y := winTop; y <= winBottom; y++ {
		for x := inner.X; x < inner.Right(); x++ {
			if s.Get(x, y) == ' ' {
				s.SetColored(x, y, '·', core.ColorGray)
			}
		}
	}
	s.DrawHLine(inner.X, row(f.PlayerLine), inner.W, '━', core.ColorYellow)

	for _, v := range snap.Visible {
		c := noteColor(v.Note)
		if v.InWindow {
			c = c.Bright()
		}
		x := inner.X + v.Note.Lane*laneWidth + 1
		s.DrawTextColored(x, row(v.Position.Z()), noteGlyph(v.Note), c)
	}
}

// handCell maps a world x/y to the nearest grid cell, clamped to the grid.
func handCell(f sim.Field, x, y float64, lanes, layers int) (lane, layer int) {
	if f.LaneSpacing != 0 {
		lane = int(math.Round(x/f.LaneSpacing + float64(lanes-1)/2))
	}
	if f.LayerSpacing != 0 {
		layer = int(math.Round((y - f.LayerBase) / f.LayerSpacing))
	}
	return core.Clamp(lane, 0, lanes-1), core.Clamp(layer, 0, layers-1)
}

// drawGrid draws the lane/layer grid as the player faces it: notes inside the judgement
// window in their cells and a marker where each hand is.
func drawGrid(s *core.Screen, area core.Rect, snap session.Snapshot) {
	s.DrawBox(area, core.ColorGray)
	inner := area.Inset(1)
	if inner.W <= 0 || inner.H <= 0 || snap.Chart == nil {
		return
	}
	lanes, layers := snap.Chart.Lanes, snap.Chart.Layers
	cellAt := func(lane, layer int) (x, y int) {
		// layer 0 is the bottom row
		return inner.X + lane*laneWidth + 1, inner.Bottom() - (layer+1)*gridRowsPL
	}

	for lane := 0; lane < lanes; lane++ {
		for layer := 0; layer < layers; layer++ {
			x, y := cellAt(lane, layer)
			s.DrawTextColored(x+1, y+1, "·", core.ColorGray)
		}
	}

	for _, v := range snap.Visible {
		if !v.InWindow {
			continue
		}
		x, y := cellAt(v.Note.Lane, v.Note.Layer)
		s.DrawTextColored(x, y, noteGlyph(v.Note), noteColor(v.Note).Bright())
	}

	for _, side := range hand.Sides {
		h := snap.Hands[side]
		if !h.Present {
			continue
		}
		lane, layer := handCell(snap.Field, h.Position.X(), h.Position.Y(), lanes, layers)
		x, y := cellAt(lane, layer)
		// markers sit on the lower row of the cell so notes stay readable
		s.DrawTextColored(x, y+1, handMarker(side, h.Grip), handColors[side])
	}
}

// handMarker is "(L)" for an open hand and "[L]" for a closed one.
func handMarker(side hand.Side, grip bool) string {
	letter := strings.ToUpper(side.String()[:1])
	if grip {
		return "[" + letter + "]"
	}
	return "(" + letter + ")"
}
