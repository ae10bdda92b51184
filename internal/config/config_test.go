package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := parse(defaultGameYAML)
	if err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded defaults drifted from Default():\n got %+v\nwant %+v", cfg, Default())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadCustomPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	data := "judge:\n  hit_radius: 0.9\nhands:\n  min_delta: 10ms\ntracking:\n  backend: replay\n  path: take.jsonl\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Judge.HitRadius != 0.9 {
		t.Errorf("hit radius = %v, want 0.9", cfg.Judge.HitRadius)
	}
	if cfg.Judge.MinSpeed != Default().Judge.MinSpeed {
		t.Errorf("unset key lost its default: min speed = %v", cfg.Judge.MinSpeed)
	}
	if cfg.Hands.MinDelta != 10*time.Millisecond {
		t.Errorf("min delta = %v, want 10ms", cfg.Hands.MinDelta)
	}
	if cfg.Tracking.Backend != "replay" || cfg.Tracking.Path != "take.jsonl" {
		t.Errorf("tracking = %+v", cfg.Tracking)
	}
}

func TestLoadCustomErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("field: [unclosed"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("malformed yaml should fail")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("field:\n  travel_speed: 0\nhands:\n  smoothing: 2\n"), 0o644)
	_, err := Load(invalid)
	if err == nil {
		t.Fatal("invalid values should fail validation")
	}
	for _, want := range []string{"travel speed", "smoothing"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestValidateRejectsZeroMinSpeed(t *testing.T) {
	cfg := Default()
	cfg.Judge.MinSpeed = 0
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "min_speed") {
		t.Errorf("Validate() = %v, want a min_speed error", err)
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		preset DifficultyPreset
		radius float64
		miss   int
	}{
		{DifficultyEasy, 0.5, 10},
		{DifficultyNormal, 0.5 * (1 - 0.3*0.4), 13},
		{DifficultyHard, 0.5 * (1 - 0.7*0.4), 17},
		{DifficultyFixed, 0.5, 10},
	}
	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := Default()
			ApplyPreset(&cfg, tt.preset)
			sc := cfg.Session()
			if math.Abs(sc.Judge.HitRadius-tt.radius) > 1e-9 {
				t.Errorf("hit radius = %v, want %v", sc.Judge.HitRadius, tt.radius)
			}
			if sc.Rules.MissHealthLoss != tt.miss {
				t.Errorf("miss health loss = %d, want %d", sc.Rules.MissHealthLoss, tt.miss)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	if p, ok := ParsePreset(""); !ok || p != DifficultyNormal {
		t.Errorf("empty preset = %q, %v", p, ok)
	}
	if p, ok := ParsePreset("hard"); !ok || p != DifficultyHard {
		t.Errorf("hard = %q, %v", p, ok)
	}
	if _, ok := ParsePreset("nightmare"); ok {
		t.Error("unknown preset accepted")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Error("marshalled config does not load back to the defaults")
	}
}
