package session

import (
	"github.com/vovakirdan/handbeat/internal/score"
	"github.com/vovakirdan/handbeat/internal/sim"
)

// Result summarises a finished run.
type Result struct {
	RunID   string
	Title   string
	Victory bool
	Time    float64 // playback time the run ended at
	Score   score.State
	Notes   int
}

// Listener is notified synchronously from Tick, in event order, with the score already
// updated for the event. Listeners must not call back into the session.
type Listener interface {
	OnNoteHit(e sim.Event, s score.State)
	OnNoteMiss(e sim.Event, s score.State)
	OnSessionEnd(r Result)
}

// Funcs adapts optional functions to Listener.
type Funcs struct {
	Hit  func(sim.Event, score.State)
	Miss func(sim.Event, score.State)
	End  func(Result)
}

func (f Funcs) OnNoteHit(e sim.Event, s score.State) {
	if f.Hit != nil {
		f.Hit(e, s)
	}
}

func (f Funcs) OnNoteMiss(e sim.Event, s score.State) {
	if f.Miss != nil {
		f.Miss(e, s)
	}
}

func (f Funcs) OnSessionEnd(r Result) {
	if f.End != nil {
		f.End(r)
	}
}
