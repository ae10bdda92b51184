// Package tracking is the boundary to the camera and the hand detection model. A Loop pulls
// frames from a Source, runs them through a Detector and publishes the estimated hand state
// to a hand.Board for the simulation tick to read.
package tracking

import (
	"context"
	"errors"
	"time"

	"github.com/vovakirdan/handbeat/internal/hand"
)

var (
	// ErrUnavailable means the camera or model could not be acquired.
	ErrUnavailable = errors.New("tracking: unavailable")

	// ErrEndOfStream is returned by Source.Next when a finite source has no more frames.
	ErrEndOfStream = errors.New("tracking: end of stream")

	// ErrRunning is returned when Run is called on a loop that is already running.
	ErrRunning = errors.New("tracking: loop already running")
)

// Frame is one captured image, or whatever the backend uses in place of one.
type Frame struct {
	Seq     uint64
	At      time.Time
	Payload any
}

// Source produces frames. Open acquires the device; Close releases it and must be safe to
// call after a failed Open.
type Source interface {
	Open(ctx context.Context) error
	Next(ctx context.Context) (Frame, error)
	Close() error
}

// Detector finds hands in a frame.
type Detector interface {
	Detect(ctx context.Context, f Frame) (hand.Detection, error)
	Close() error
}

// Backend pairs a source with the detector that understands its frames.
type Backend struct {
	Name     string
	Source   Source
	Detector Detector
}

// Status is the lifecycle of a loop.
type Status int32

const (
	StatusStopped Status = iota
	StatusStarting
	StatusReady
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusStarting:
		return "starting"
	case StatusReady:
		return "ready"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "stopped"
	}
}
