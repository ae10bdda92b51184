package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/score"
	"github.com/vovakirdan/handbeat/internal/sim"
)

//go:embed defaults/game.yaml
var defaultGameYAML []byte

// Default returns the hardcoded game configuration. defaults/game.yaml mirrors it.
func Default() GameConfig {
	return GameConfig{
		Field: sim.DefaultField(),
		Judge: sim.Judge{
			HitRadius:    0.5,
			MinSpeed:     0.8,
			MinAlignment: 0.5,
		},
		Scoring: score.DefaultRules(),
		Hands:   hand.DefaultConfig(),
		Tracking: TrackingConfig{
			Backend:  "synth",
			Interval: time.Second / 60,
		},
		Audio: AudioConfig{
			Enabled: true,
			Tail:    2.0,
		},
		Difficulty: DifficultyConfig{
			Enabled: true,
			Level:   0.3,
			Scaling: ScalingConfig{
				RadiusReduction: 0.4,
				SpeedIncrease:   0.5,
				PenaltyIncrease: 1.0,
			},
		},
	}
}
