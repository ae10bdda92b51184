package sim

import (
	"github.com/vovakirdan/handbeat/internal/chart"
	"github.com/vovakirdan/handbeat/internal/hand"
)

// Quality classifies a hit.
type Quality int

const (
	Good Quality = iota
	Bad
)

func (q Quality) String() string {
	if q == Good {
		return "good"
	}
	return "bad"
}

// Flaw says why a hit was judged bad.
type Flaw int

const (
	FlawNone Flaw = iota
	FlawSlow
	FlawDirection
	FlawGrip
)

func (f Flaw) String() string {
	switch f {
	case FlawSlow:
		return "too slow"
	case FlawDirection:
		return "wrong direction"
	case FlawGrip:
		return "no grip"
	default:
		return ""
	}
}

// Judge holds the hit thresholds.
type Judge struct {
	HitRadius    float64 `yaml:"hit_radius"`    // world distance between fingertip and note
	MinSpeed     float64 `yaml:"min_speed"`     // units per second for a good cut
	MinAlignment float64 `yaml:"min_alignment"` // cosine between swing and cut direction
}

// DefaultJudge returns the default thresholds.
func DefaultJudge() Judge {
	return Judge{
		HitRadius:    0.4,
		MinSpeed:     1.0,
		MinAlignment: 0.5,
	}
}

// Classify grades a strike on n by a hand in state hs.
func (j Judge) Classify(n chart.Note, hs hand.State) (Quality, Flaw) {
	speed := hs.Speed()
	if speed < j.MinSpeed {
		return Bad, FlawSlow
	}
	if dx, dy, ok := n.Direction.Vector(); ok {
		// a still hand has no direction to compare
		if speed == 0 {
			return Bad, FlawDirection
		}
		v := hs.Velocity.Mul(1 / speed)
		if v.X()*dx+v.Y()*dy < j.MinAlignment {
			return Bad, FlawDirection
		}
	}
	if n.Grip && !hs.Grip {
		return Bad, FlawGrip
	}
	return Good, FlawNone
}
