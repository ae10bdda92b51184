package tui

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/handbeat/internal/chart"
	"github.com/vovakirdan/handbeat/internal/core"
	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/session"
	"github.com/vovakirdan/handbeat/internal/sim"
)

// laneSnapshot has one note at the player line and one far up the highway.
func laneSnapshot(t *testing.T) (session.Snapshot, chart.Note, chart.Note) {
	t.Helper()
	c, err := chart.New(chart.Meta{Title: "lanes"}, nil)
	if err != nil {
		t.Fatalf("chart.New() error = %v", err)
	}
	f := sim.DefaultField()
	near := chart.Note{Lane: 1, Layer: 1, Hand: chart.HandLeft, Direction: chart.DirDown}
	far := chart.Note{ID: 1, Lane: 3, Hand: chart.HandRight, Direction: chart.DirUp}

	snap := session.Snapshot{
		Chart: c,
		Field: f,
		Visible: []sim.VisibleNote{
			{Note: far, Position: mgl64.Vec3{0, 0, f.PlayerLine - 30}},
			{Note: near, Position: mgl64.Vec3{0, 0, f.PlayerLine}, InWindow: true},
		},
	}
	snap.Hands[hand.Left] = hand.State{
		Present:  true,
		Position: mgl64.Vec3{f.LaneX(0, c.Lanes), f.LayerY(2), 0},
	}
	snap.Hands[hand.Right] = hand.State{
		Present:  true,
		Position: mgl64.Vec3{f.LaneX(3, c.Lanes), f.LayerY(0), 0},
		Grip:     true,
	}
	return snap, near, far
}

// rowFrom returns row y of s starting at column x.
func rowFrom(s *core.Screen, x, y int) string {
	return string([]rune(s.Row(y))[x:])
}

func TestDrawHighway(t *testing.T) {
	snap, near, far := laneSnapshot(t)
	area := core.NewRect(0, 0, highwayWidth(snap.Chart.Lanes), 20)
	s := core.NewScreen(area.W, area.H)

	drawHighway(s, area, snap)

	inner := area.Inset(1)
	f := snap.Field
	row := func(depth float64) int {
		return inner.Y + core.Scale(depth, f.PlayerLine-f.SpawnDistance, f.PlayerLine+f.MissOffset, inner.H)
	}
	noteX := func(n chart.Note) int { return inner.X + n.Lane*laneWidth + 1 }

	if got := s.GetCell(inner.X, row(f.PlayerLine)); got.Rune != '━' || got.Color != core.ColorYellow {
		t.Errorf("player line cell = %+v, want yellow ━", got)
	}

	y := row(f.PlayerLine)
	if got := rowFrom(s, noteX(near), y); !strings.HasPrefix(got, noteGlyph(near)) {
		t.Errorf("near note row %d = %q, want %q at x=%d", y, s.Row(y), noteGlyph(near), noteX(near))
	}
	if got := s.GetCell(noteX(near), y).Color; got != noteColor(near).Bright() {
		t.Errorf("note in window color = %v, want bright", got)
	}

	y = row(f.PlayerLine - 30)
	if got := s.GetCell(noteX(far), y); got.Rune != '↑' || got.Color != noteColor(far) {
		t.Errorf("far note cell = %+v, want plain ↑", got)
	}
	if got := s.Get(inner.X+laneWidth-1, inner.Y); got != '┆' {
		t.Errorf("lane separator = %q, want ┆", got)
	}
}

func TestDrawGrid(t *testing.T) {
	snap, near, _ := laneSnapshot(t)
	w, h := gridSize(snap.Chart.Lanes, snap.Chart.Layers)
	area := core.NewRect(0, 0, w, h)
	s := core.NewScreen(w, h)

	drawGrid(s, area, snap)

	inner := area.Inset(1)
	cellAt := func(lane, layer int) (x, y int) {
		return inner.X + lane*laneWidth + 1, inner.Bottom() - (layer+1)*gridRowsPL
	}

	x, y := cellAt(near.Lane, near.Layer)
	if got := rowFrom(s, x, y); !strings.HasPrefix(got, noteGlyph(near)) {
		t.Errorf("note cell row = %q, want %q at x=%d", s.Row(y), noteGlyph(near), x)
	}

	x, y = cellAt(0, 2)
	if got := rowFrom(s, x, y+1); !strings.HasPrefix(got, "(L)") {
		t.Errorf("left hand row = %q, want (L) at x=%d", s.Row(y+1), x)
	}
	x, y = cellAt(3, 0)
	if got := rowFrom(s, x, y+1); !strings.HasPrefix(got, "[R]") {
		t.Errorf("gripping right hand row = %q, want [R] at x=%d", s.Row(y+1), x)
	}

	// the far note is outside the window and stays off the grid
	if strings.ContainsRune(s.String(), '↑') {
		t.Error("notes outside the window should not be on the grid")
	}
}

func TestDrawWithoutChart(t *testing.T) {
	s := core.NewScreen(10, 6)
	drawHighway(s, s.Bounds(), session.Snapshot{})
	drawGrid(s, s.Bounds(), session.Snapshot{})
	if s.Get(0, 0) == ' ' {
		t.Error("the frame should still be drawn")
	}
}

func TestHandCellRoundTrip(t *testing.T) {
	f := sim.DefaultField()
	for lane := range 4 {
		for layer := range 3 {
			gotLane, gotLayer := handCell(f, f.LaneX(lane, 4), f.LayerY(layer), 4, 3)
			if gotLane != lane || gotLayer != layer {
				t.Errorf("handCell(center of %d,%d) = (%d,%d)", lane, layer, gotLane, gotLayer)
			}
		}
	}
}

func TestHandCellClampsOffGrid(t *testing.T) {
	f := sim.DefaultField()

	lane, layer := handCell(f, -10, -10, 4, 3)
	if lane != 0 || layer != 0 {
		t.Errorf("far bottom-left = (%d,%d), want (0,0)", lane, layer)
	}
	lane, layer = handCell(f, 10, 10, 4, 3)
	if lane != 3 || layer != 2 {
		t.Errorf("far top-right = (%d,%d), want (3,2)", lane, layer)
	}
}

func TestNoteGlyph(t *testing.T) {
	tests := []struct {
		note chart.Note
		want string
	}{
		{chart.Note{Direction: chart.DirUp}, "↑1 "},
		{chart.Note{Direction: chart.DirDown, Layer: 2}, "↓3 "},
		{chart.Note{Direction: chart.DirAny, Layer: 1, Grip: true}, "●2*"},
	}

	for _, tt := range tests {
		if got := noteGlyph(tt.note); got != tt.want {
			t.Errorf("noteGlyph(%v) = %q, want %q", tt.note, got, tt.want)
		}
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(12, 2)
	s.DrawText(0, 0, "plain")
	s.DrawTextColored(2, 1, "HELLO", core.ColorBrightRed)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen() has %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "plain") {
		t.Errorf("line 0 = %q, want plain text first", lines[0])
	}
	if !strings.Contains(lines[1], "HELLO") {
		t.Errorf("line 1 = %q, want the colored run unsplit", lines[1])
	}
}

func TestStyleForUnknownColor(t *testing.T) {
	// out-of-range colors fall back to the default style instead of panicking
	_ = styleFor(core.Color(200)).Render("x")
}
