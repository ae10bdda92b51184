// Package none registers a backend that never acquires a camera. Selecting it keeps the
// session idle with tracking reported unavailable.
package none

import (
	"context"
	"fmt"

	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/registry"
	"github.com/vovakirdan/handbeat/internal/tracking"
)

func init() {
	registry.Register("none", "no camera; tracking always unavailable", func(registry.Options) (tracking.Backend, error) {
		return tracking.Backend{Name: "none", Source: source{}, Detector: detector{}}, nil
	})
}

type source struct{}

func (source) Open(context.Context) error {
	return fmt.Errorf("%w: no camera configured", tracking.ErrUnavailable)
}

func (source) Next(context.Context) (tracking.Frame, error) {
	return tracking.Frame{}, tracking.ErrEndOfStream
}

func (source) Close() error { return nil }

type detector struct{}

func (detector) Detect(context.Context, tracking.Frame) (hand.Detection, error) {
	return hand.Detection{}, tracking.ErrUnavailable
}

func (detector) Close() error { return nil }
