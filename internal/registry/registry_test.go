package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/tracking"
)

type nopSource struct{}

func (nopSource) Open(context.Context) error { return nil }
func (nopSource) Next(context.Context) (tracking.Frame, error) {
	return tracking.Frame{}, tracking.ErrEndOfStream
}
func (nopSource) Close() error { return nil }

type nopDetector struct{}

func (nopDetector) Detect(context.Context, tracking.Frame) (hand.Detection, error) {
	return hand.Detection{}, nil
}
func (nopDetector) Close() error { return nil }

func TestRegisterAndCreate(t *testing.T) {
	Register("test-nop", "does nothing", func(opts Options) (tracking.Backend, error) {
		return tracking.Backend{Name: "test-nop:" + opts.Path, Source: nopSource{}, Detector: nopDetector{}}, nil
	})

	if !Exists("test-nop") {
		t.Fatal("registered backend not found")
	}
	b, err := Create("test-nop", Options{Path: "x"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Name != "test-nop:x" {
		t.Errorf("backend name = %q", b.Name)
	}

	found := false
	for _, info := range List() {
		if info.Name == "test-nop" {
			found = info.Description == "does nothing"
		}
	}
	if !found {
		t.Error("List is missing the backend or its description")
	}
}

func TestCreateFailures(t *testing.T) {
	if _, err := Create("no-such-backend", Options{}); err == nil {
		t.Error("unknown backend should fail")
	}

	boom := errors.New("boom")
	Register("test-broken", "always fails", func(Options) (tracking.Backend, error) {
		return tracking.Backend{}, boom
	})
	if _, err := Create("test-broken", Options{}); !errors.Is(err, boom) {
		t.Errorf("Create error = %v, want wrapped factory error", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", "", func(Options) (tracking.Backend, error) { return tracking.Backend{}, nil })
	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic")
		}
	}()
	Register("test-dup", "", func(Options) (tracking.Backend, error) { return tracking.Backend{}, nil })
}

func TestListSorted(t *testing.T) {
	Register("test-zz", "", func(Options) (tracking.Backend, error) { return tracking.Backend{}, nil })
	Register("test-aa", "", func(Options) (tracking.Backend, error) { return tracking.Backend{}, nil })
	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Fatalf("List not sorted: %q before %q", list[i-1].Name, list[i].Name)
		}
	}
}
