package config

import (
	"math"

	"github.com/vovakirdan/handbeat/internal/session"
)

// DifficultyConfig scales judging strictness and penalties. The judge and scoring values
// in the file are the level 0 (most lenient) values.
type DifficultyConfig struct {
	Enabled bool          `yaml:"enabled"`
	Level   float64       `yaml:"level"` // 0.0 = easy, 1.0 = hard
	Scaling ScalingConfig `yaml:"scaling"`
}

// ScalingConfig defines the magnitude of difficulty changes at level 1.
type ScalingConfig struct {
	RadiusReduction float64 `yaml:"radius_reduction"` // fraction of hit radius removed
	SpeedIncrease   float64 `yaml:"speed_increase"`   // fraction added to the minimum cut speed
	PenaltyIncrease float64 `yaml:"penalty_increase"` // fraction added to health losses
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// LevelForPreset returns the level for a difficulty preset.
func LevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ParsePreset validates a preset name. The empty string selects normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, true
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	}
	return "", false
}

// ApplyPreset modifies the config based on a difficulty preset. The fixed preset uses the
// file's judge and scoring values verbatim.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.Level = LevelForPreset(preset)
}

// Session returns the session tuning with difficulty scaling applied.
func (c GameConfig) Session() session.Config {
	sc := session.Config{
		Field: c.Field,
		Judge: c.Judge,
		Rules: c.Scoring,
	}
	if !c.Difficulty.Enabled {
		return sc
	}

	level := clampF(c.Difficulty.Level, 0.0, 1.0)
	s := c.Difficulty.Scaling
	sc.Judge.HitRadius *= 1 - level*clampF(s.RadiusReduction, 0, 0.9)
	sc.Judge.MinSpeed *= 1 + level*s.SpeedIncrease
	sc.Rules.BadHealthLoss = scaleInt(sc.Rules.BadHealthLoss, 1+level*s.PenaltyIncrease)
	sc.Rules.MissHealthLoss = scaleInt(sc.Rules.MissHealthLoss, 1+level*s.PenaltyIncrease)
	return sc
}

func scaleInt(v int, f float64) int {
	return int(math.Round(float64(v) * f))
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
