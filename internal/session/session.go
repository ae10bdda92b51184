// Package session runs one play session: it owns the playback clock, the simulation core
// and the running score, and moves through loading, idle, playing, victory and game over.
package session

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/handbeat/internal/audio"
	"github.com/vovakirdan/handbeat/internal/chart"
	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/score"
	"github.com/vovakirdan/handbeat/internal/sim"
)

var (
	// ErrTrackingNotReady is returned by Start while the camera or model is not acquired.
	ErrTrackingNotReady = errors.New("session: hand tracking not ready")

	// ErrPlaybackBlocked is returned by Start when audio refused to play. The session stays
	// idle and Start may be retried.
	ErrPlaybackBlocked = errors.New("session: playback blocked")

	// ErrNoChart is returned by Start before a chart is loaded.
	ErrNoChart = errors.New("session: no chart loaded")

	// ErrPlaying is returned by Load and Start while a run is in progress.
	ErrPlaying = errors.New("session: already playing")
)

// Phase is the session lifecycle.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseIdle
	PhasePlaying
	PhaseVictory
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseVictory:
		return "victory"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// Terminal reports whether the phase ends a run.
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseGameOver
}

// Readiness reports whether hand tracking is usable. tracking.Loop implements it.
type Readiness interface {
	Ready() bool
}

// Config groups the tuning the session hands to the simulation and the score reducer.
type Config struct {
	Field sim.Field
	Judge sim.Judge
	Rules score.Rules
}

// DefaultConfig returns the default tuning.
func DefaultConfig() Config {
	return Config{
		Field: sim.DefaultField(),
		Judge: sim.DefaultJudge(),
		Rules: score.DefaultRules(),
	}
}

// recentEvents is how many resolved notes a Snapshot carries for feedback display.
const recentEvents = 8

// Session is safe for concurrent use: the tick and the presentation may run on different
// goroutines.
type Session struct {
	mu        sync.Mutex
	cfg       Config
	tracker   Readiness
	logger    *log.Logger
	listeners []Listener

	phase  Phase
	runID  string
	chart  *chart.Chart
	clock  audio.Clock
	core   *sim.Core
	score  score.State
	hands  hand.Pair
	recent []sim.Event
	result *Result
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithListener registers a listener for hit, miss and end notifications.
func WithListener(l Listener) Option {
	return func(s *Session) { s.listeners = append(s.listeners, l) }
}

// New creates a session in the loading phase.
func New(cfg Config, tracker Readiness, opts ...Option) *Session {
	s := &Session{
		cfg:     cfg,
		tracker: tracker,
		logger:  log.New(io.Discard),
		phase:   PhaseLoading,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load installs a chart and the clock that plays its audio, and moves to idle. A previously
// loaded clock is closed.
func (s *Session) Load(c *chart.Chart, clock audio.Clock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhasePlaying {
		return ErrPlaying
	}
	if s.clock != nil && s.clock != clock {
		if err := s.clock.Close(); err != nil {
			s.logger.Warn("closing previous clock", "error", err)
		}
	}
	s.chart = c
	s.clock = clock
	s.core = sim.New(c, s.cfg.Field, s.cfg.Judge)
	s.score = score.Initial(s.cfg.Rules)
	s.recent = nil
	s.result = nil
	s.phase = PhaseIdle
	s.logger.Debug("chart loaded", "title", c.Title, "notes", c.Len())
	return nil
}

// Start begins a run from the top of the chart. It is valid from idle and from either
// terminal phase, which restarts. Every note resolution, the score and health are reset
// and the clock is rewound before playback starts.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.phase == PhasePlaying:
		return ErrPlaying
	case s.core == nil:
		return ErrNoChart
	case s.tracker == nil || !s.tracker.Ready():
		return ErrTrackingNotReady
	}

	s.core.Reset()
	s.score = score.Initial(s.cfg.Rules)
	s.recent = nil
	s.result = nil
	s.hands = hand.Pair{}

	s.clock.Pause()
	if err := s.clock.Seek(0); err != nil {
		s.phase = PhaseIdle
		return fmt.Errorf("session: rewind: %w", err)
	}
	if err := s.clock.Start(); err != nil {
		s.phase = PhaseIdle
		if errors.Is(err, audio.ErrPlaybackBlocked) {
			s.logger.Warn("playback blocked", "error", err)
			return fmt.Errorf("%w: %v", ErrPlaybackBlocked, err)
		}
		return fmt.Errorf("session: start playback: %w", err)
	}

	s.runID = uuid.NewString()
	s.phase = PhasePlaying
	s.logger.Info("session started", "session", s.runID, "chart", s.chart.Title, "notes", s.chart.Len())
	return nil
}

// Tick advances the run to the clock's current position with the given hand state and
// returns the events it produced. It does nothing outside the playing phase.
func (s *Session) Tick(hands hand.Pair) []sim.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePlaying {
		return nil
	}
	s.hands = hands

	sink := &tickSink{s: s}
	t := s.core.Step(s.clock.Position(), hands, sink)

	if s.phase == PhasePlaying && s.clock.Ended() {
		s.finish(t, true)
	}
	return sink.events
}

// tickSink folds events into the score as the core publishes them and halts the tick as
// soon as the run is over.
type tickSink struct {
	s      *Session
	events []sim.Event
}

func (k *tickSink) Publish(e sim.Event) bool {
	s := k.s
	s.score = score.Reduce(s.score, e, s.cfg.Rules)
	k.events = append(k.events, e)
	s.remember(e)

	for _, l := range s.listeners {
		switch e.Kind {
		case sim.KindHit:
			l.OnNoteHit(e, s.score)
		case sim.KindMiss:
			l.OnNoteMiss(e, s.score)
		}
	}

	if s.score.GameOver {
		s.finish(e.Time, false)
		return false
	}
	return true
}

func (s *Session) remember(e sim.Event) {
	s.recent = append(s.recent, e)
	if len(s.recent) > recentEvents {
		s.recent = s.recent[len(s.recent)-recentEvents:]
	}
}

// finish ends the run. Callers hold the lock.
func (s *Session) finish(t float64, victory bool) {
	s.clock.Pause()
	if victory {
		s.phase = PhaseVictory
	} else {
		s.phase = PhaseGameOver
	}

	res := Result{
		RunID:   s.runID,
		Title:   s.chart.Title,
		Victory: victory,
		Time:    t,
		Score:   s.score,
		Notes:   s.chart.Len(),
	}
	s.result = &res

	end := sim.Event{Kind: sim.KindSessionEnd, Time: t, Victory: victory}
	s.remember(end)
	for _, l := range s.listeners {
		l.OnSessionEnd(res)
	}

	s.logger.Info("session ended",
		"session", s.runID,
		"phase", s.phase,
		"score", s.score.Score,
		"max_combo", s.score.MaxCombo,
		"accuracy", fmt.Sprintf("%.1f%%", s.score.Accuracy()*100),
	)
}

// Stop abandons a run in progress and returns to idle. No end notification is sent.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePlaying {
		return
	}
	s.clock.Pause()
	s.phase = PhaseIdle
	s.logger.Info("session stopped", "session", s.runID)
}

// Pause freezes the clock without leaving the playing phase.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhasePlaying {
		s.clock.Pause()
	}
}

// Resume restarts a paused clock.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhasePlaying {
		return nil
	}
	if err := s.clock.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrPlaybackBlocked, err)
	}
	return nil
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Close releases the clock.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clock == nil {
		return nil
	}
	err := s.clock.Close()
	s.clock = nil
	return err
}
