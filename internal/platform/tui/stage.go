package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/handbeat/internal/audio"
	"github.com/vovakirdan/handbeat/internal/chart"
	"github.com/vovakirdan/handbeat/internal/config"
	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/registry"
	"github.com/vovakirdan/handbeat/internal/session"
	"github.com/vovakirdan/handbeat/internal/sim"
	"github.com/vovakirdan/handbeat/internal/tracking"
	"github.com/vovakirdan/handbeat/internal/tracking/synth"
)

// StageOptions describes one chart to play.
type StageOptions struct {
	Config config.GameConfig
	Chart  *chart.Chart

	// Backend overrides Config.Tracking.Backend when set.
	Backend string

	Logger    *log.Logger
	Tap       func(hand.Detection)
	Listeners []session.Listener
}

// Stage wires a chart to everything needed to play it: the tracking loop feeding the
// hand board, the puppet rig when hands are synthetic, and the session judging the run.
type Stage struct {
	Session *session.Session
	Board   *hand.Board
	Loop    *tracking.Loop
	Rig     *tracking.Rig
	Chart   *chart.Chart
	Field   sim.Field
	Backend string

	logger    *log.Logger
	cancel    context.CancelFunc
	done      chan error
	closeOnce sync.Once
	closeErr  error
}

// NewStage builds a stage and starts its tracking loop. The loop runs until Close.
func NewStage(ctx context.Context, opts StageOptions) (*Stage, error) {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	backendName := opts.Backend
	if backendName == "" {
		backendName = cfg.Tracking.Backend
	}

	// Every stage gets a rig; only the synthetic backend reads it.
	rig := tracking.NewRig()
	backend, err := registry.Create(backendName, registry.Options{
		Path:    cfg.Tracking.Path,
		Rig:     rig,
		Mapping: cfg.Hands.Mapping,
	})
	if err != nil {
		return nil, err
	}

	clock := openClock(opts, logger)

	board := &hand.Board{}
	loopOpts := []tracking.Option{tracking.WithLogger(logger)}
	if cfg.Tracking.Interval > 0 {
		loopOpts = append(loopOpts, tracking.WithInterval(cfg.Tracking.Interval))
	}
	if opts.Tap != nil {
		loopOpts = append(loopOpts, tracking.WithTap(opts.Tap))
	}
	loop := tracking.NewLoop(backend, hand.NewEstimator(cfg.Hands), board, loopOpts...)

	sessOpts := []session.Option{session.WithLogger(logger)}
	for _, l := range opts.Listeners {
		sessOpts = append(sessOpts, session.WithListener(l))
	}
	sc := cfg.Session()
	sess := session.New(sc, loop, sessOpts...)
	if err := sess.Load(opts.Chart, clock); err != nil {
		clock.Close()
		return nil, fmt.Errorf("tui: load chart: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	st := &Stage{
		Session: sess,
		Board:   board,
		Loop:    loop,
		Chart:   opts.Chart,
		Field:   sc.Field,
		Backend: backend.Name,
		logger:  logger,
		cancel:  cancel,
		done:    make(chan error, 1),
	}
	if backend.Name == synth.Name {
		st.Rig = rig
	}

	go func() {
		err := loop.Run(runCtx)
		if err != nil {
			logger.Error("tracking stopped", "backend", backend.Name, "error", err)
		}
		st.done <- err
	}()

	return st, nil
}

// openClock plays the chart's audio when it has some and audio is on, and falls back to a
// silent timer running until the last note plus the configured tail.
func openClock(opts StageOptions, logger *log.Logger) audio.Clock {
	c := opts.Chart
	tail := opts.Config.Audio.Tail
	silent := audio.NewTimerClock(c.Duration() + tail)

	if !opts.Config.Audio.Enabled || c.Audio == "" {
		return silent
	}
	clock, err := audio.Open(c.Audio)
	if err != nil {
		logger.Warn("audio unavailable, playing silently", "path", c.Audio, "error", err)
		return silent
	}
	return clock
}

// Close stops tracking, waits for the loop to release the backend and closes the clock.
// It is safe to call more than once.
func (s *Stage) Close() error {
	s.closeOnce.Do(func() {
		s.Session.Stop()
		s.cancel()
		loopErr := <-s.done
		if errors.Is(loopErr, tracking.ErrUnavailable) {
			// already reported when the loop stopped
			loopErr = nil
		}
		s.closeErr = errors.Join(loopErr, s.Session.Close())
	})
	return s.closeErr
}
