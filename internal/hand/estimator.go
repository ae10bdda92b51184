package hand

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the estimated state of one hand.
type State struct {
	Present   bool       // a detection for this side was in the latest frame
	Position  mgl64.Vec3 // smoothed fingertip; meaningless unless Present
	Velocity  mgl64.Vec3 // world units per second
	Grip      bool
	UpdatedAt time.Time
}

// Speed returns the velocity magnitude.
func (s State) Speed() float64 {
	return s.Velocity.Len()
}

// Pair holds the state of both hands, indexed by Side.
type Pair [2]State

// Get returns the state for a side.
func (p Pair) Get(s Side) State {
	return p[s]
}

// Config tunes the estimator.
type Config struct {
	Smoothing      float64       `yaml:"smoothing"`       // weight of the new sample, (0,1]; higher is snappier
	MinDelta       time.Duration `yaml:"min_delta"`       // velocity is only recomputed past this gap
	GripQuorum     int           `yaml:"grip_quorum"`     // curled fingers needed for a grip
	MinConfidence  float64       `yaml:"min_confidence"`  // weaker detections count as absent
	SwapHandedness bool          `yaml:"swap_handedness"` // detector labels are mirrored
	Mapping        Mapping       `yaml:"mapping"`
}

// DefaultConfig returns the estimator defaults.
func DefaultConfig() Config {
	return Config{
		Smoothing:     0.6,
		MinDelta:      5 * time.Millisecond,
		GripQuorum:    DefaultGripQuorum,
		MinConfidence: 0.5,
		Mapping:       DefaultMapping(),
	}
}

// track is the per-side history the estimator keeps between frames.
type track struct {
	seen     bool
	absent   int // consecutive frames without a detection
	smoothed mgl64.Vec3
	velocity mgl64.Vec3

	// velocity is measured against this anchor so near-zero time steps do not lose motion
	anchor   mgl64.Vec3
	anchorAt time.Time
}

// Estimator converts detections into a Pair. It is not safe for concurrent use;
// the detection loop owns it and publishes results through a Board.
type Estimator struct {
	cfg    Config
	tracks [2]track
	state  Pair
}

// NewEstimator creates an estimator. A zero smoothing factor is replaced by the default.
func NewEstimator(cfg Config) *Estimator {
	if cfg.Smoothing <= 0 || cfg.Smoothing > 1 {
		cfg.Smoothing = DefaultConfig().Smoothing
	}
	return &Estimator{cfg: cfg}
}

// Reset forgets all history.
func (e *Estimator) Reset() {
	e.tracks = [2]track{}
	e.state = Pair{}
}

// State returns the last computed pair.
func (e *Estimator) State() Pair {
	return e.state
}

// Update ingests one detection result and returns the new state of both hands.
func (e *Estimator) Update(det Detection) Pair {
	found := e.pick(det)
	for _, side := range Sides {
		if dh, ok := found[side]; ok {
			e.state[side] = e.present(side, dh, det.At)
		} else {
			e.state[side] = e.absent(side, det.At)
		}
	}
	return e.state
}

// pick chooses at most one detection per side, preferring the most confident.
func (e *Estimator) pick(det Detection) map[Side]*DetectedHand {
	found := make(map[Side]*DetectedHand, 2)
	for i := range det.Hands {
		dh := &det.Hands[i]
		if dh.Confidence < e.cfg.MinConfidence {
			continue
		}
		side := dh.Handedness
		if e.cfg.SwapHandedness {
			side = side.Opposite()
		}
		if side != Left && side != Right {
			continue
		}
		if prev, ok := found[side]; ok && prev.Confidence >= dh.Confidence {
			continue
		}
		found[side] = dh
	}
	return found
}

func (e *Estimator) absent(side Side, at time.Time) State {
	tr := &e.tracks[side]
	tr.absent++
	if tr.absent >= 2 {
		tr.velocity = mgl64.Vec3{}
	}
	return State{
		Present:   false,
		Velocity:  tr.velocity,
		UpdatedAt: at,
	}
}

func (e *Estimator) present(side Side, dh *DetectedHand, at time.Time) State {
	tr := &e.tracks[side]
	raw := e.cfg.Mapping.Project(dh.Landmarks[IndexTip])

	continuous := tr.seen && tr.absent == 0
	if continuous {
		tr.smoothed = tr.smoothed.Add(raw.Sub(tr.smoothed).Mul(e.cfg.Smoothing))
		dt := at.Sub(tr.anchorAt)
		if dt > e.cfg.MinDelta {
			tr.velocity = tr.smoothed.Sub(tr.anchor).Mul(1 / dt.Seconds())
			tr.anchor = tr.smoothed
			tr.anchorAt = at
		}
	} else {
		// First sighting or reacquisition: the hand was cleared, so there is nothing to blend
		// with and no consecutive pair to take a velocity from.
		tr.smoothed = raw
		tr.velocity = mgl64.Vec3{}
		tr.anchor = raw
		tr.anchorAt = at
	}

	tr.seen = true
	tr.absent = 0

	return State{
		Present:   true,
		Position:  tr.smoothed,
		Velocity:  tr.velocity,
		Grip:      IsGripping(&dh.Landmarks, e.cfg.GripQuorum),
		UpdatedAt: at,
	}
}
