// Package config provides YAML-based game configuration loading and
// difficulty management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/score"
	"github.com/vovakirdan/handbeat/internal/sim"
)

// GameConfig contains all gameplay configuration.
type GameConfig struct {
	Field      sim.Field        `yaml:"field"`
	Judge      sim.Judge        `yaml:"judge"`
	Scoring    score.Rules      `yaml:"scoring"`
	Hands      hand.Config      `yaml:"hands"`
	Tracking   TrackingConfig   `yaml:"tracking"`
	Audio      AudioConfig      `yaml:"audio"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TrackingConfig selects and paces the hand tracking backend.
type TrackingConfig struct {
	Backend  string        `yaml:"backend"`  // registry name
	Path     string        `yaml:"path"`     // device or recording path
	Interval time.Duration `yaml:"interval"` // minimum time between detections
}

// AudioConfig controls playback.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Tail    float64 `yaml:"tail"` // seconds of silence after the last note when a chart has no audio
}

// Validate reports values the game cannot run with.
func (c GameConfig) Validate() error {
	var errs []error
	if err := c.Field.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Judge.HitRadius <= 0 {
		errs = append(errs, errors.New("judge.hit_radius must be positive"))
	}
	if c.Judge.MinSpeed <= 0 {
		errs = append(errs, errors.New("judge.min_speed must be positive"))
	}
	if c.Judge.MinAlignment < -1 || c.Judge.MinAlignment > 1 {
		errs = append(errs, errors.New("judge.min_alignment must be within [-1,1]"))
	}
	if c.Hands.Smoothing <= 0 || c.Hands.Smoothing > 1 {
		errs = append(errs, errors.New("hands.smoothing must be within (0,1]"))
	}
	if c.Scoring.BasePoints < 0 || c.Scoring.Penalty < 0 || c.Scoring.HealthGain < 0 ||
		c.Scoring.BadHealthLoss < 0 || c.Scoring.MissHealthLoss < 0 {
		errs = append(errs, errors.New("scoring values must not be negative"))
	}
	if c.Scoring.InitialHealth <= 0 || c.Scoring.InitialHealth > score.MaxHealth {
		errs = append(errs, fmt.Errorf("scoring.initial_health must be within (0,%d]", score.MaxHealth))
	}
	if c.Tracking.Interval < 0 {
		errs = append(errs, errors.New("tracking.interval must not be negative"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
