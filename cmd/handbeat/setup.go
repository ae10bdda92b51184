package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/handbeat/internal/config"
)

// newLogger builds the logger for a command. Full-screen commands must not write to the
// terminal they draw on, so without --log-file they log to ~/.handbeat/handbeat.log.
// The returned function closes the log file.
func newLogger(fullScreen bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q", flagLogLevel)
	}

	path := flagLogFile
	if path == "" && fullScreen {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return log.New(io.Discard), func() {}, nil
		}
		path = filepath.Join(home, ".handbeat", "handbeat.log")
	}

	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)
	if path != "" {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", mkErr)
		}
		f, openErr := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if openErr != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", openErr)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "handbeat",
		Level:           level,
	})
	return logger, closeFn, nil
}

// loadConfig loads the game configuration and applies --difficulty.
func loadConfig() (config.GameConfig, config.DifficultyPreset, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.GameConfig{}, "", err
	}
	preset, ok := config.ParsePreset(flagDifficulty)
	if !ok {
		return config.GameConfig{}, "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, preset)
	}
	return cfg, preset, nil
}
