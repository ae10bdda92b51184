package chart

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewSortsStably(t *testing.T) {
	notes := []Note{
		{Time: 2.0, Lane: 0, Hand: HandLeft},
		{Time: 1.0, Lane: 1, Hand: HandRight},
		{Time: 2.0, Lane: 2, Hand: HandRight},
		{Time: 1.0, Lane: 3, Hand: HandLeft},
	}

	c, err := New(Meta{Title: "t"}, notes)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	wantLanes := []int{1, 3, 0, 2}
	for i, lane := range wantLanes {
		n := c.At(NoteID(i))
		if n.Lane != lane {
			t.Errorf("note %d lane = %d, expected %d", i, n.Lane, lane)
		}
		if n.ID != NoteID(i) {
			t.Errorf("note %d id = %d", i, n.ID)
		}
	}

	// Input slice must not be reordered.
	if notes[0].Lane != 0 {
		t.Error("New() mutated its input")
	}
}

func TestNewAppliesOffset(t *testing.T) {
	c, err := New(Meta{Offset: 0.5}, []Note{{Time: 1.0}})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if got := c.At(0).Time; got != 1.5 {
		t.Errorf("time = %f, expected 1.5", got)
	}
	if c.Offset != 0 {
		t.Errorf("offset should be folded into note times, got %f", c.Offset)
	}
}

func TestNewRejectsInvalidNotes(t *testing.T) {
	tests := []struct {
		name string
		note Note
	}{
		{"negative time", Note{Time: -1}},
		{"lane too high", Note{Lane: 4}},
		{"negative layer", Note{Layer: -1}},
		{"bad hand", Note{Hand: Hand(7)}},
		{"bad direction", Note{Direction: Direction(9)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(Meta{}, []Note{tc.note})
			if !errors.Is(err, ErrInvalidNote) {
				t.Errorf("expected ErrInvalidNote, got %v", err)
			}
		})
	}
}

func TestDecodeYAML(t *testing.T) {
	src := `
title: Demo
lanes: 4
layers: 3
notes:
  - {time: 2.0, lane: 1, layer: 0, hand: left, direction: down}
  - {time: 1.0, lane: 2, layer: 2, hand: right, direction: any, grip: true}
`
	c, err := Decode(strings.NewReader(src), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if c.Title != "Demo" || c.Len() != 2 {
		t.Fatalf("unexpected chart: %+v len=%d", c.Meta, c.Len())
	}

	first := c.At(0)
	if first.Hand != HandRight || !first.Grip || first.Direction != DirAny {
		t.Errorf("first note = %v", first)
	}
	second := c.At(1)
	if second.Hand != HandLeft || second.Direction != DirDown {
		t.Errorf("second note = %v", second)
	}
}

func TestDecodeJSON(t *testing.T) {
	src := `{"title":"J","notes":[{"time":0.5,"lane":0,"layer":1,"hand":"right","direction":"up"}]}`
	c, err := Decode(strings.NewReader(src), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if n := c.At(0); n.Direction != DirUp || n.Hand != HandRight || n.Layer != 1 {
		t.Errorf("note = %v", n)
	}
}

func TestDecodeUnknownDirection(t *testing.T) {
	src := "notes:\n  - {time: 1, lane: 0, layer: 0, hand: left, direction: sideways}\n"
	if _, err := Decode(strings.NewReader(src), FormatYAML); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestEncodeDecodeKeepsOrder(t *testing.T) {
	c, err := New(Meta{Title: "Order"}, []Note{
		{Time: 1, Lane: 0, Hand: HandLeft, Direction: DirLeft},
		{Time: 1, Lane: 3, Hand: HandRight, Direction: DirRight},
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	back, err := Decode(&buf, FormatYAML)
	if err != nil {
		t.Fatalf("Decode() failed: %v\n%s", err, buf.String())
	}
	if back.At(0).Lane != 0 || back.At(1).Lane != 3 {
		t.Errorf("tie order lost: %v, %v", back.At(0), back.At(1))
	}
}

func TestLoadResolvesAudioPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "song.yaml")
	data := "title: S\naudio: song.wav\nnotes: []\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if c.Audio != filepath.Join(dir, "song.wav") {
		t.Errorf("audio = %q", c.Audio)
	}
	if c.Duration() != 0 {
		t.Errorf("empty chart duration = %f", c.Duration())
	}
}

func TestMirror(t *testing.T) {
	c, err := New(Meta{Title: "m"}, []Note{
		{Time: 1, Lane: 0, Hand: HandLeft, Direction: DirLeft},
		{Time: 2, Lane: 2, Layer: 1, Hand: HandRight, Direction: DirUp, Grip: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	m := c.Mirror()

	want := []Note{
		{ID: 0, Time: 1, Lane: 3, Hand: HandRight, Direction: DirRight},
		{ID: 1, Time: 2, Lane: 1, Layer: 1, Hand: HandLeft, Direction: DirUp, Grip: true},
	}
	for i, w := range want {
		if got := m.At(NoteID(i)); got != w {
			t.Errorf("note %d = %v, want %v", i, got, w)
		}
	}
	if c.At(0).Lane != 0 {
		t.Error("Mirror modified the original chart")
	}
}

func TestBundledDemoChart(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "charts", "demo.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Title != "Warm Up" {
		t.Errorf("Title = %q, want %q", c.Title, "Warm Up")
	}
	left, right := c.Counts()
	if left == 0 || right == 0 {
		t.Errorf("Counts() = %d, %d, want notes for both hands", left, right)
	}
	if first := c.At(0); first.Time != 2.0 {
		t.Errorf("first note at %.2f, want offset 2.00 applied", first.Time)
	}
}
