package session

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/handbeat/internal/audio"
	"github.com/vovakirdan/handbeat/internal/chart"
	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/score"
	"github.com/vovakirdan/handbeat/internal/sim"
)

type ready bool

func (r ready) Ready() bool { return bool(r) }

type fakeNow struct{ t time.Time }

func (f *fakeNow) now() time.Time { return f.t }

func (f *fakeNow) advance(d time.Duration) { f.t = f.t.Add(d) }

type recorder struct {
	hits, misses []sim.Event
	ends         []Result
}

func (r *recorder) listener() Listener {
	return Funcs{
		Hit:  func(e sim.Event, _ score.State) { r.hits = append(r.hits, e) },
		Miss: func(e sim.Event, _ score.State) { r.misses = append(r.misses, e) },
		End:  func(res Result) { r.ends = append(r.ends, res) },
	}
}

func mustChart(t *testing.T, notes ...chart.Note) *chart.Chart {
	t.Helper()
	c, err := chart.New(chart.Meta{Title: "test"}, notes)
	if err != nil {
		t.Fatalf("chart.New: %v", err)
	}
	return c
}

func newSession(t *testing.T, c *chart.Chart, length float64, rec *recorder) (*Session, *fakeNow) {
	t.Helper()
	fn := &fakeNow{t: time.Unix(1000, 0)}
	s := New(DefaultConfig(), ready(true), WithListener(rec.listener()))
	if err := s.Load(c, audio.NewTimerClock(length).WithNow(fn.now)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s, fn
}

func TestPhases(t *testing.T) {
	s := New(DefaultConfig(), ready(true))
	if s.Phase() != PhaseLoading {
		t.Fatalf("phase = %v, want loading", s.Phase())
	}
	if err := s.Start(); !errors.Is(err, ErrNoChart) {
		t.Errorf("Start without chart = %v, want ErrNoChart", err)
	}

	c := mustChart(t, chart.Note{Time: 1})
	if err := s.Load(c, audio.NewTimerClock(2)); err != nil {
		t.Fatal(err)
	}
	if s.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", s.Phase())
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if s.Phase() != PhasePlaying {
		t.Fatalf("phase = %v, want playing", s.Phase())
	}
	if err := s.Load(c, audio.NewTimerClock(2)); !errors.Is(err, ErrPlaying) {
		t.Errorf("Load while playing = %v, want ErrPlaying", err)
	}
	s.Stop()
	if s.Phase() != PhaseIdle {
		t.Errorf("phase after Stop = %v, want idle", s.Phase())
	}
}

func TestStartRequiresTracking(t *testing.T) {
	s := New(DefaultConfig(), ready(false))
	s.Load(mustChart(t, chart.Note{Time: 1}), audio.NewTimerClock(2))
	if err := s.Start(); !errors.Is(err, ErrTrackingNotReady) {
		t.Fatalf("Start = %v, want ErrTrackingNotReady", err)
	}
	if s.Phase() != PhaseIdle {
		t.Errorf("phase = %v, want idle", s.Phase())
	}
}

type blockedClock struct {
	*audio.TimerClock
	blocked bool
}

func (c *blockedClock) Start() error {
	if c.blocked {
		return audio.ErrPlaybackBlocked
	}
	return c.TimerClock.Start()
}

func TestPlaybackBlockedIsRecoverable(t *testing.T) {
	clock := &blockedClock{TimerClock: audio.NewTimerClock(2), blocked: true}
	s := New(DefaultConfig(), ready(true))
	s.Load(mustChart(t, chart.Note{Time: 1}), clock)

	if err := s.Start(); !errors.Is(err, ErrPlaybackBlocked) {
		t.Fatalf("Start = %v, want ErrPlaybackBlocked", err)
	}
	if s.Phase() != PhaseIdle {
		t.Fatalf("phase = %v, want idle", s.Phase())
	}

	clock.blocked = false
	if err := s.Start(); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if s.Phase() != PhasePlaying {
		t.Errorf("phase = %v, want playing", s.Phase())
	}
}

func TestGoodHitThroughSession(t *testing.T) {
	rec := &recorder{}
	c := mustChart(t, chart.Note{Time: 2.0, Hand: chart.HandLeft})
	s, fn := newSession(t, c, 4, rec)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		fn.advance(500 * time.Millisecond)
		var hands hand.Pair
		if i == 3 {
			pos := DefaultConfig().Field.Position(c.At(0), c.Lanes, 2.0)
			hands[hand.Left] = hand.State{Present: true, Position: pos, Velocity: mgl64.Vec3{0, -2, 0}}
		}
		s.Tick(hands)
	}

	if len(rec.hits) != 1 || rec.hits[0].Quality != sim.Good {
		t.Fatalf("hits = %v, want one good hit", rec.hits)
	}
	snap := s.Snapshot()
	if snap.Score.Score != score.DefaultRules().BasePoints {
		t.Errorf("score = %d, want %d", snap.Score.Score, score.DefaultRules().BasePoints)
	}
	if snap.Score.Combo != 1 {
		t.Errorf("combo = %d, want 1", snap.Score.Combo)
	}
}

func TestVictoryWhenTrackEnds(t *testing.T) {
	rec := &recorder{}
	s, fn := newSession(t, mustChart(t, chart.Note{Time: 0.5}), 1.0, rec)
	s.Start()

	fn.advance(700 * time.Millisecond)
	s.Tick(hand.Pair{})
	if len(rec.misses) != 1 {
		t.Fatalf("misses = %d, want 1", len(rec.misses))
	}
	if s.Phase() != PhasePlaying {
		t.Fatalf("phase = %v, want still playing", s.Phase())
	}

	fn.advance(time.Second)
	s.Tick(hand.Pair{})
	if s.Phase() != PhaseVictory {
		t.Fatalf("phase = %v, want victory", s.Phase())
	}
	if len(rec.ends) != 1 || !rec.ends[0].Victory {
		t.Fatalf("ends = %+v, want one victory", rec.ends)
	}
	if rec.ends[0].Score.Health != 100-score.DefaultRules().MissHealthLoss {
		t.Errorf("health = %d", rec.ends[0].Score.Health)
	}
	if s.Snapshot().Result == nil {
		t.Error("snapshot should carry the result")
	}

	if events := s.Tick(hand.Pair{}); events != nil {
		t.Errorf("tick after victory produced %v", events)
	}
}

func manyNotes(n int) []chart.Note {
	notes := make([]chart.Note, n)
	for i := range notes {
		notes[i] = chart.Note{Time: 0.5 + 0.1*float64(i), Lane: i % 4}
	}
	return notes
}

func TestGameOverOnce(t *testing.T) {
	rec := &recorder{}
	s, fn := newSession(t, mustChart(t, manyNotes(15)...), 10, rec)
	s.Start()

	gameOvers := 0
	for i := 0; i < 300; i++ {
		fn.advance(time.Second / 60)
		before := s.Phase()
		s.Tick(hand.Pair{})
		if s.Phase() == PhaseGameOver && before != PhaseGameOver {
			gameOvers++
		}
	}

	if gameOvers != 1 {
		t.Errorf("entered game over %d times, want 1", gameOvers)
	}
	want := score.MaxHealth / score.DefaultRules().MissHealthLoss
	if len(rec.misses) != want {
		t.Errorf("misses = %d, want %d", len(rec.misses), want)
	}
	if len(rec.ends) != 1 || rec.ends[0].Victory {
		t.Errorf("ends = %+v, want one defeat", rec.ends)
	}
}

func TestGameOverHaltsTick(t *testing.T) {
	rec := &recorder{}
	s, fn := newSession(t, mustChart(t, manyNotes(15)...), 10, rec)
	s.Start()

	fn.advance(5 * time.Second)
	events := s.Tick(hand.Pair{})

	want := score.MaxHealth / score.DefaultRules().MissHealthLoss
	if len(events) != want {
		t.Fatalf("tick produced %d events, want processing to stop at %d", len(events), want)
	}
	if s.Phase() != PhaseGameOver {
		t.Errorf("phase = %v, want game over", s.Phase())
	}
	if len(rec.ends) != 1 {
		t.Errorf("end notifications = %d, want 1", len(rec.ends))
	}
}

func TestRestartResetsEverything(t *testing.T) {
	rec := &recorder{}
	c := mustChart(t, manyNotes(15)...)
	s, fn := newSession(t, c, 10, rec)
	s.Start()
	first := s.Snapshot().RunID

	fn.advance(5 * time.Second)
	s.Tick(hand.Pair{})
	if s.Phase() != PhaseGameOver {
		t.Fatal("expected game over")
	}

	if err := s.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	snap := s.Snapshot()
	if snap.Phase != PhasePlaying {
		t.Errorf("phase = %v, want playing", snap.Phase)
	}
	if snap.RunID == first || snap.RunID == "" {
		t.Errorf("run id %q should be new", snap.RunID)
	}
	if snap.Score != score.Initial(score.DefaultRules()) {
		t.Errorf("score not reset: %+v", snap.Score)
	}
	if snap.Result != nil || len(snap.Recent) != 0 {
		t.Error("previous run leaked into the new one")
	}

	fn.advance(100 * time.Millisecond)
	s.Tick(hand.Pair{})
	if got := s.Snapshot().Time; got > 0.2 {
		t.Errorf("time after restart = %v, clock was not rewound", got)
	}
	if len(s.Snapshot().Visible) == 0 {
		t.Error("notes should be active again after restart")
	}
}
