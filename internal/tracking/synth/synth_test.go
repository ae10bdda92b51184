package synth

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/tracking"
)

func TestSyntheticHandLandsOnTarget(t *testing.T) {
	now := time.Unix(0, 0)
	rig := tracking.NewRig().WithNow(func() time.Time { return now })
	rig.Place(hand.Left, -0.5, 1.3)
	rig.SetGrip(hand.Left, true)
	rig.SetVisible(hand.Right, false)

	m := hand.DefaultMapping()
	b := New(rig, m)
	ctx := context.Background()
	if err := b.Source.Open(ctx); err != nil {
		t.Fatal(err)
	}
	frame, err := b.Source.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	det, err := b.Detector.Detect(ctx, frame)
	if err != nil {
		t.Fatal(err)
	}
	if len(det.Hands) != 1 {
		t.Fatalf("got %d hands, want only the visible one", len(det.Hands))
	}

	est := hand.NewEstimator(hand.DefaultConfig())
	left := est.Update(det).Get(hand.Left)
	if !left.Present || !left.Grip {
		t.Fatalf("left = %+v, want present and gripping", left)
	}
	if math.Abs(left.Position.X()+0.5) > 1e-9 || math.Abs(left.Position.Y()-1.3) > 1e-9 {
		t.Errorf("position = %v, want (-0.5, 1.3)", left.Position)
	}
}

func TestRejectsForeignPayload(t *testing.T) {
	d := &Detector{mapping: hand.DefaultMapping()}
	if _, err := d.Detect(context.Background(), tracking.Frame{Payload: "nope"}); err == nil {
		t.Error("expected error for a foreign payload")
	}
}
