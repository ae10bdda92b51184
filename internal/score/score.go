// Package score reduces simulation events into score, combo, multiplier and health.
// Reduce is pure: the same state and event always produce the same result.
package score

import (
	"github.com/vovakirdan/handbeat/internal/sim"
)

// MaxHealth is the upper health bound.
const MaxHealth = 100

// Rules are the scoring constants.
type Rules struct {
	BasePoints     int `yaml:"base_points"`
	Penalty        int `yaml:"penalty"` // points lost on a bad hit
	HealthGain     int `yaml:"health_gain"`
	BadHealthLoss  int `yaml:"bad_health_loss"`
	MissHealthLoss int `yaml:"miss_health_loss"`
	InitialHealth  int `yaml:"initial_health"`
}

// DefaultRules returns the default scoring constants.
func DefaultRules() Rules {
	return Rules{
		BasePoints:     100,
		Penalty:        50,
		HealthGain:     2,
		BadHealthLoss:  5,
		MissHealthLoss: 10,
		InitialHealth:  MaxHealth,
	}
}

// State is the running score of one session.
type State struct {
	Score      int
	Combo      int
	MaxCombo   int
	Multiplier int
	Health     int
	Hits       int // good hits
	Bads       int
	Misses     int
	GameOver   bool
}

// Initial returns the state a session starts with.
func Initial(r Rules) State {
	return State{
		Multiplier: 1,
		Health:     clamp(r.InitialHealth, 0, MaxHealth),
	}
}

// MultiplierFor returns the multiplier for a combo count.
func MultiplierFor(combo int) int {
	switch {
	case combo > 30:
		return 8
	case combo > 20:
		return 4
	case combo > 10:
		return 2
	default:
		return 1
	}
}

// Reduce applies one event. Once GameOver is set every further event is ignored, so game
// over is entered exactly once.
func Reduce(s State, e sim.Event, r Rules) State {
	if s.GameOver {
		return s
	}

	switch e.Kind {
	case sim.KindHit:
		if e.Quality == sim.Good {
			s.Combo++
			s.MaxCombo = max(s.MaxCombo, s.Combo)
			s.Multiplier = MultiplierFor(s.Combo)
			s.Score += r.BasePoints * s.Multiplier
			s.Health = clamp(s.Health+r.HealthGain, 0, MaxHealth)
			s.Hits++
		} else {
			s.Combo = 0
			s.Multiplier = 1
			s.Score = max(0, s.Score-r.Penalty)
			s.Health = clamp(s.Health-r.BadHealthLoss, 0, MaxHealth)
			s.Bads++
		}
	case sim.KindMiss:
		s.Combo = 0
		s.Multiplier = 1
		s.Score = max(0, s.Score-r.Penalty)
		s.Health = clamp(s.Health-r.MissHealthLoss, 0, MaxHealth)
		s.Misses++
	default:
		return s
	}

	if s.Health == 0 {
		s.GameOver = true
	}
	return s
}

// Judged returns the number of resolved notes.
func (s State) Judged() int {
	return s.Hits + s.Bads + s.Misses
}

// Accuracy returns the fraction of resolved notes hit well, in [0,1].
func (s State) Accuracy() float64 {
	n := s.Judged()
	if n == 0 {
		return 0
	}
	return float64(s.Hits) / float64(n)
}

// Grade maps accuracy to a letter.
func (s State) Grade() string {
	switch a := s.Accuracy(); {
	case s.Judged() == 0:
		return "-"
	case a >= 0.95:
		return "S"
	case a >= 0.85:
		return "A"
	case a >= 0.70:
		return "B"
	case a >= 0.50:
		return "C"
	default:
		return "D"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
