// Package synth is a tracking backend without a camera: hands are puppets on a
// tracking.Rig, turned into landmark sets the way a detector would report them.
package synth

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/registry"
	"github.com/vovakirdan/handbeat/internal/tracking"
)

// Name is the registry name of the backend.
const Name = "synth"

func init() {
	registry.Register(Name, "keyboard-driven synthetic hands", func(opts registry.Options) (tracking.Backend, error) {
		if opts.Rig == nil {
			return tracking.Backend{}, errors.New("synth: no rig to drive")
		}
		return New(opts.Rig, opts.Mapping), nil
	})
}

// New creates a backend sampling rig.
func New(rig *tracking.Rig, m hand.Mapping) tracking.Backend {
	return tracking.Backend{
		Name:     Name,
		Source:   &Source{rig: rig},
		Detector: &Detector{mapping: m},
	}
}

// Source samples the rig once per frame.
type Source struct {
	rig *tracking.Rig
	seq atomic.Uint64
}

func (s *Source) Open(ctx context.Context) error {
	return ctx.Err()
}

func (s *Source) Next(ctx context.Context) (tracking.Frame, error) {
	if err := ctx.Err(); err != nil {
		return tracking.Frame{}, err
	}
	at, hands := s.rig.Sample()
	return tracking.Frame{Seq: s.seq.Add(1), At: at, Payload: hands}, nil
}

func (s *Source) Close() error { return nil }

// Detector poses a full hand around each visible puppet fingertip.
type Detector struct {
	mapping hand.Mapping
}

func (d *Detector) Detect(_ context.Context, f tracking.Frame) (hand.Detection, error) {
	hands, ok := f.Payload.([2]tracking.RigHand)
	if !ok {
		return hand.Detection{}, fmt.Errorf("synth: unexpected frame payload %T", f.Payload)
	}
	det := hand.Detection{At: f.At}
	for _, side := range hand.Sides {
		h := hands[side]
		if !h.Visible {
			continue
		}
		tip := d.mapping.Unproject(h.X, h.Y)
		det.Hands = append(det.Hands, hand.DetectedHand{
			Landmarks:  hand.Pose(tip, h.Grip),
			Handedness: side,
			Confidence: 1,
		})
	}
	return det, nil
}

func (d *Detector) Close() error { return nil }
