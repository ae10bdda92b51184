package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/handbeat/internal/chart"
	"github.com/vovakirdan/handbeat/internal/config"
	"github.com/vovakirdan/handbeat/internal/core"
	"github.com/vovakirdan/handbeat/internal/session"
	"github.com/vovakirdan/handbeat/internal/tracking/synth"
)

func newTestStage(t *testing.T) *Stage {
	t.Helper()
	c, err := chart.New(chart.Meta{Title: "Stage Test"}, []chart.Note{
		{Time: 1, Lane: 1, Hand: chart.HandLeft, Direction: chart.DirDown},
		{Time: 2, Lane: 2, Hand: chart.HandRight, Direction: chart.DirDown},
	})
	if err != nil {
		t.Fatalf("chart.New() error = %v", err)
	}

	cfg := config.Default()
	cfg.Audio.Enabled = false
	st, err := NewStage(context.Background(), StageOptions{Config: cfg, Chart: c, Backend: synth.Name})
	if err != nil {
		t.Fatalf("NewStage() error = %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return st
}

func TestNewStageLoadsChart(t *testing.T) {
	st := newTestStage(t)

	if st.Rig == nil {
		t.Error("synthetic stage should expose its rig")
	}
	if st.Backend != synth.Name {
		t.Errorf("Backend = %q, want %q", st.Backend, synth.Name)
	}
	if got := st.Session.Phase(); got != session.PhaseIdle {
		t.Errorf("Phase() = %v, want %v", got, session.PhaseIdle)
	}
}

func TestNewStageUnknownBackend(t *testing.T) {
	c, _ := chart.New(chart.Meta{Title: "x"}, nil)
	_, err := NewStage(context.Background(), StageOptions{Config: config.Default(), Chart: c, Backend: "webcam-9000"})
	if err == nil {
		t.Fatal("NewStage() with an unknown backend should fail")
	}
}

func TestStageCloseTwice(t *testing.T) {
	st := newTestStage(t)
	if err := st.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	// the cleanup closes again
}

func TestModelView(t *testing.T) {
	st := newTestStage(t)
	m := NewModel(st, core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60})

	view := m.View()
	for _, want := range []string{"Stage Test", "ENTER", synth.Name} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestModelQuitAndBack(t *testing.T) {
	st := newTestStage(t)
	m := NewModel(st, core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(Model).BackToMenu() {
		t.Error("esc while idle should go back")
	}

	next, cmd := m.Update(runeKey('q'))
	if !next.(Model).IsQuitting() || cmd == nil {
		t.Error("q should quit")
	}
}

func TestModelIgnoresStaleTicks(t *testing.T) {
	st := newTestStage(t)
	m := NewModel(st, core.RuntimeConfig{ScreenW: 100, ScreenH: 30, TickRate: 60})

	_, cmd := m.Update(TickMsg{Loop: m.tickLoop + 1})
	if cmd != nil {
		t.Error("a tick from another loop should not schedule more ticks")
	}
	_, cmd = m.Update(TickMsg{Loop: m.tickLoop})
	if cmd == nil {
		t.Error("own tick should schedule the next one")
	}
}
