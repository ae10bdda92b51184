package tracking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/handbeat/internal/hand"
)

// DefaultInterval paces the loop at roughly 60 detections per second.
const DefaultInterval = time.Second / 60

// Loop runs detection sequentially: the next frame is requested only after the previous
// one has been fully processed, so detection is never re-entered.
type Loop struct {
	backend  Backend
	est      *hand.Estimator
	board    *hand.Board
	interval time.Duration
	logger   *log.Logger
	tap      func(hand.Detection)

	running  atomic.Bool
	status   atomic.Int32
	frames   atomic.Uint64
	failures atomic.Uint64

	mu  sync.Mutex
	err error
}

// Option configures a Loop.
type Option func(*Loop)

// WithInterval sets the minimum time between detections.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) { l.interval = d }
}

// WithLogger sets the logger for per-frame failures.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) { l.logger = logger }
}

// WithTap registers a function that sees every successful detection, e.g. a recorder.
func WithTap(fn func(hand.Detection)) Option {
	return func(l *Loop) { l.tap = fn }
}

// NewLoop creates a loop publishing to board.
func NewLoop(b Backend, est *hand.Estimator, board *hand.Board, opts ...Option) *Loop {
	l := &Loop{
		backend:  b,
		est:      est,
		board:    board,
		interval: DefaultInterval,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Status returns the loop status and, when unavailable, why.
func (l *Loop) Status() (Status, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Status(l.status.Load()), l.err
}

// Ready reports whether the camera and model are acquired and frames are flowing.
func (l *Loop) Ready() bool {
	return Status(l.status.Load()) == StatusReady
}

// Frames returns the number of frames processed and how many failed detection.
func (l *Loop) Frames() (total, failed uint64) {
	return l.frames.Load(), l.failures.Load()
}

func (l *Loop) setStatus(s Status, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.status.Store(int32(s))
	l.err = err
}

// Run acquires the backend and processes frames until ctx is cancelled or the source ends.
// The detector and source are released on every return path. A failed acquisition returns
// an error wrapping ErrUnavailable. Cancellation and end of stream return nil.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer l.running.Store(false)

	l.setStatus(StatusStarting, nil)
	defer l.release()

	if err := l.backend.Source.Open(ctx); err != nil {
		if !errors.Is(err, ErrUnavailable) {
			err = fmt.Errorf("%w: %s: %v", ErrUnavailable, l.backend.Name, err)
		}
		l.setStatus(StatusUnavailable, err)
		return err
	}
	l.setStatus(StatusReady, nil)
	l.logger.Info("tracking started", "backend", l.backend.Name)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			l.setStatus(StatusStopped, nil)
			return nil
		case <-timer.C:
		}

		started := time.Now()
		if err := l.step(ctx); err != nil {
			switch {
			case errors.Is(err, ErrEndOfStream):
				l.board.Publish(l.est.Update(hand.Detection{At: time.Now()}))
				l.setStatus(StatusStopped, nil)
				l.logger.Info("tracking stream ended", "backend", l.backend.Name)
				return nil
			case ctx.Err() != nil:
				l.setStatus(StatusStopped, nil)
				return nil
			default:
				err = fmt.Errorf("tracking: %s: %w", l.backend.Name, err)
				l.setStatus(StatusUnavailable, err)
				return err
			}
		}

		wait := l.interval - time.Since(started)
		timer.Reset(max(0, wait))
	}
}

// step processes one frame. Only source errors are returned; a detection failure is logged
// and the previously published state is left in place.
func (l *Loop) step(ctx context.Context) error {
	frame, err := l.backend.Source.Next(ctx)
	if err != nil {
		return err
	}
	l.frames.Add(1)

	det, err := l.backend.Detector.Detect(ctx, frame)
	if err != nil {
		l.failures.Add(1)
		l.logger.Warn("detection failed", "backend", l.backend.Name, "frame", frame.Seq, "error", err)
		return nil
	}
	if det.At.IsZero() {
		det.At = frame.At
	}
	if l.tap != nil {
		l.tap(det)
	}
	l.board.Publish(l.est.Update(det))
	return nil
}

func (l *Loop) release() {
	if err := l.backend.Detector.Close(); err != nil {
		l.logger.Warn("closing detector", "backend", l.backend.Name, "error", err)
	}
	if err := l.backend.Source.Close(); err != nil {
		l.logger.Warn("closing source", "backend", l.backend.Name, "error", err)
	}
}
