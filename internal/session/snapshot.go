package session

import (
	"github.com/vovakirdan/handbeat/internal/chart"
	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/score"
	"github.com/vovakirdan/handbeat/internal/sim"
)

// Snapshot is a read-only view of the session for presentation.
type Snapshot struct {
	RunID    string
	Phase    Phase
	Chart    *chart.Chart
	Field    sim.Field
	Time     float64
	Length   float64
	Score    score.State
	Hands    hand.Pair
	Visible  []sim.VisibleNote
	Recent   []sim.Event
	Result   *Result
	Tracking bool
}

// Progress returns the fraction of the track played, in [0,1].
func (s Snapshot) Progress() float64 {
	if s.Length <= 0 {
		return 0
	}
	return min(1, max(0, s.Time/s.Length))
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		RunID:    s.runID,
		Phase:    s.phase,
		Chart:    s.chart,
		Field:    s.cfg.Field,
		Score:    s.score,
		Hands:    s.hands,
		Tracking: s.tracker != nil && s.tracker.Ready(),
	}
	if s.core != nil {
		snap.Time = s.core.Time()
		snap.Visible = s.core.Visible(snap.Time)
	}
	if s.clock != nil {
		snap.Length = s.clock.Length()
	}
	if len(s.recent) > 0 {
		snap.Recent = append([]sim.Event(nil), s.recent...)
	}
	if s.result != nil {
		r := *s.result
		snap.Result = &r
	}
	return snap
}
