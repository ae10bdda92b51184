package tracking

import (
	"sync"
	"time"

	"github.com/vovakirdan/handbeat/internal/hand"
)

// RigHand is the sampled state of one puppet hand, in world x/y.
type RigHand struct {
	Visible bool
	X, Y    float64
	Grip    bool
}

type puppet struct {
	visible  bool
	grip     bool
	fromX    float64
	fromY    float64
	toX      float64
	toY      float64
	start    time.Time
	duration time.Duration
}

func (p *puppet) at(now time.Time) (x, y float64) {
	if p.duration <= 0 || !now.Before(p.start.Add(p.duration)) {
		return p.toX, p.toY
	}
	f := float64(now.Sub(p.start)) / float64(p.duration)
	if f < 0 {
		f = 0
	}
	return p.fromX + (p.toX-p.fromX)*f, p.fromY + (p.toY-p.fromY)*f
}

// Rig drives two puppet hands for synthetic backends. The presentation layer moves them in
// response to keys and the synthetic source samples them once per frame. It is safe for
// concurrent use.
type Rig struct {
	mu    sync.Mutex
	now   func() time.Time
	hands [2]puppet
}

// NewRig creates a rig with both hands visible at the origin.
func NewRig() *Rig {
	r := &Rig{now: time.Now}
	for i := range r.hands {
		r.hands[i].visible = true
	}
	return r
}

// WithNow replaces the time source.
func (r *Rig) WithNow(now func() time.Time) *Rig {
	r.now = now
	return r
}

// Place puts a hand at x, y immediately.
func (r *Rig) Place(side hand.Side, x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &r.hands[side]
	p.fromX, p.fromY = x, y
	p.toX, p.toY = x, y
	p.duration = 0
}

// MoveTo glides a hand from wherever it is now to x, y over d.
func (r *Rig) MoveTo(side hand.Side, x, y float64, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	p := &r.hands[side]
	p.fromX, p.fromY = p.at(now)
	p.toX, p.toY = x, y
	p.start = now
	p.duration = d
}

// Strike swings a hand into its current target from dist away along -(dx, dy), so it
// arrives moving in direction (dx, dy).
func (r *Rig) Strike(side hand.Side, dx, dy, dist float64, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := &r.hands[side]
	p.fromX, p.fromY = p.toX-dx*dist, p.toY-dy*dist
	p.start = r.now()
	p.duration = d
}

// SetGrip closes or opens a hand.
func (r *Rig) SetGrip(side hand.Side, grip bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hands[side].grip = grip
}

// ToggleGrip flips a hand's grip and returns the new value.
func (r *Rig) ToggleGrip(side hand.Side) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hands[side].grip = !r.hands[side].grip
	return r.hands[side].grip
}

// SetVisible shows or hides a hand from the camera.
func (r *Rig) SetVisible(side hand.Side, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hands[side].visible = visible
}

// Target returns where a hand is heading.
func (r *Rig) Target(side hand.Side) (x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hands[side].toX, r.hands[side].toY
}

// Sample returns both hands at the current time.
func (r *Rig) Sample() (time.Time, [2]RigHand) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	var out [2]RigHand
	for i := range r.hands {
		p := &r.hands[i]
		x, y := p.at(now)
		out[i] = RigHand{Visible: p.visible, X: x, Y: y, Grip: p.grip}
	}
	return now, out
}
