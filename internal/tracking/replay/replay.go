// Package replay records detections to a JSON Lines file and plays them back as a
// tracking backend, so a session can be reproduced without a camera.
package replay

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/registry"
	"github.com/vovakirdan/handbeat/internal/tracking"
)

// Name is the registry name of the backend.
const Name = "replay"

func init() {
	registry.Register(Name, "recorded landmark stream (JSON Lines)", func(opts registry.Options) (tracking.Backend, error) {
		if opts.Path == "" {
			return tracking.Backend{}, errors.New("replay: no recording path")
		}
		return New(opts.Path, true), nil
	})
}

// record is one line of a recording.
type record struct {
	T     float64             `json:"t"` // seconds since the first record
	Hands []hand.DetectedHand `json:"hands"`
}

// Writer appends detections to a recording.
type Writer struct {
	mu    sync.Mutex
	enc   *json.Encoder
	start time.Time
	err   error
}

// NewWriter creates a writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Write appends one detection. Times are stored relative to the first detection written.
func (w *Writer) Write(det hand.Detection) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	if w.start.IsZero() {
		w.start = det.At
	}
	rec := record{T: det.At.Sub(w.start).Seconds(), Hands: det.Hands}
	if err := w.enc.Encode(rec); err != nil {
		w.err = fmt.Errorf("replay: write: %w", err)
	}
	return w.err
}

// New creates a backend playing the recording at path. With realtime set, frames are
// released at their recorded pace; otherwise as fast as they are requested.
func New(path string, realtime bool) tracking.Backend {
	return tracking.Backend{
		Name:     Name,
		Source:   &Source{path: path, realtime: realtime},
		Detector: Detector{},
	}
}

// Source reads a recording line by line.
type Source struct {
	path     string
	realtime bool

	f     *os.File
	sc    *bufio.Scanner
	epoch time.Time
	seq   uint64
	line  int
}

func (s *Source) Open(context.Context) error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", tracking.ErrUnavailable, err)
	}
	s.f = f
	s.sc = bufio.NewScanner(f)
	s.sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	s.epoch = time.Now()
	return nil
}

func (s *Source) Next(ctx context.Context) (tracking.Frame, error) {
	for s.sc.Scan() {
		s.line++
		b := s.sc.Bytes()
		if len(b) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(b, &rec); err != nil {
			return tracking.Frame{}, fmt.Errorf("replay: %s:%d: %w", s.path, s.line, err)
		}
		at := s.epoch.Add(time.Duration(rec.T * float64(time.Second)))
		if s.realtime {
			if err := sleepUntil(ctx, at); err != nil {
				return tracking.Frame{}, err
			}
		}
		s.seq++
		return tracking.Frame{
			Seq:     s.seq,
			At:      at,
			Payload: hand.Detection{Hands: rec.Hands, At: at},
		}, nil
	}
	if err := s.sc.Err(); err != nil {
		return tracking.Frame{}, fmt.Errorf("replay: %s: %w", s.path, err)
	}
	return tracking.Frame{}, tracking.ErrEndOfStream
}

func (s *Source) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func sleepUntil(ctx context.Context, at time.Time) error {
	d := time.Until(at)
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Detector passes recorded detections through unchanged.
type Detector struct{}

func (Detector) Detect(_ context.Context, f tracking.Frame) (hand.Detection, error) {
	det, ok := f.Payload.(hand.Detection)
	if !ok {
		return hand.Detection{}, fmt.Errorf("replay: unexpected frame payload %T", f.Payload)
	}
	return det, nil
}

func (Detector) Close() error { return nil }
