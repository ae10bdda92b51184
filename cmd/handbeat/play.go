package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/handbeat/internal/chart"
	"github.com/vovakirdan/handbeat/internal/config"
	"github.com/vovakirdan/handbeat/internal/core"
	"github.com/vovakirdan/handbeat/internal/hand"
	"github.com/vovakirdan/handbeat/internal/platform/tui"
	"github.com/vovakirdan/handbeat/internal/registry"
	"github.com/vovakirdan/handbeat/internal/storage"
	"github.com/vovakirdan/handbeat/internal/tracking/replay"
)

var (
	flagBackend   string
	flagRecording string
	flagRecord    string
	flagMirror    bool
	flagNoAudio   bool
)

var playCmd = &cobra.Command{
	Use:   "play [file|slug]",
	Short: "Play a chart",
	Long: `Play a chart from a file or from the chart library.

Without an argument, opens the chart picker over the library. An argument that names an
existing file is loaded from disk (YAML or JSON); anything else is looked up as a library
slug.

With the synth backend (the default) your hands are driven from the keyboard:
  Left hand:  w/a/s/d move, e chop, g grip, x hide
  Right hand: i/j/k/l or arrows move, o chop, ; grip, . hide
  enter start, p pause, r restart, esc back, q quit

Examples:
  handbeat play                                   # Pick from the library
  handbeat play ./charts/demo.yaml                # Play a file
  handbeat play demo --difficulty hard --mirror   # Library chart, mirrored
  handbeat play demo --record ./run.jsonl         # Save the hand stream
  handbeat play demo --backend replay --recording ./run.jsonl`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagBackend, "backend", "", "Hand tracking backend (see 'handbeat backends')")
	playCmd.Flags().StringVar(&flagRecording, "recording", "", "Recording for the replay backend")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Write every hand detection to this file")
	playCmd.Flags().BoolVar(&flagMirror, "mirror", false, "Swap hands and horizontal directions")
	playCmd.Flags().BoolVar(&flagNoAudio, "no-audio", false, "Play with a silent clock")
}

func runPlay(_ *cobra.Command, args []string) {
	logger, closeLog, err := newLogger(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	game, preset, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagRecording != "" {
		game.Tracking.Path = flagRecording
	}
	if flagNoAudio {
		game.Audio.Enabled = false
	}
	if flagBackend != "" && !registry.Exists(flagBackend) {
		fmt.Fprintf(os.Stderr, "Error: unknown backend %q\n", flagBackend)
		fmt.Fprintln(os.Stderr, "Run 'handbeat backends' to see available backends.")
		os.Exit(1)
	}

	var tap func(hand.Detection)
	if flagRecord != "" {
		f, createErr := os.Create(flagRecord)
		if createErr != nil {
			fmt.Fprintf(os.Stderr, "Error creating recording: %v\n", createErr)
			os.Exit(1)
		}
		defer f.Close()
		w := replay.NewWriter(f)
		tap = func(det hand.Detection) {
			if writeErr := w.Write(det); writeErr != nil {
				logger.Warn("recording detection", "error", writeErr)
			}
		}
	}

	// Get terminal size early so the first frame fits
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
	}

	ctx := context.Background()
	launch := func(c *chart.Chart, p config.DifficultyPreset) (*tui.Stage, error) {
		g := game
		config.ApplyPreset(&g, p)
		if flagMirror {
			c = c.Mirror()
		}
		return tui.NewStage(ctx, tui.StageOptions{
			Config:  g,
			Chart:   c,
			Backend: flagBackend,
			Logger:  logger,
			Tap:     tap,
		})
	}

	if len(args) == 0 {
		if err := playLibrary(cfg, preset, logger, launch); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	c, err := openChart(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	stage, err := launch(c, preset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting %q: %v\n", c.Title, err)
		os.Exit(1)
	}

	runErr := tui.Run(stage, cfg)
	if closeErr := stage.Close(); closeErr != nil {
		logger.Warn("closing stage", "error", closeErr)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// playLibrary runs the chart picker over the library.
func playLibrary(cfg core.RuntimeConfig, preset config.DifficultyPreset, logger *log.Logger,
	launch func(*chart.Chart, config.DifficultyPreset) (*tui.Stage, error)) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("cannot open chart library: %w", err)
	}
	defer store.Close()

	return tui.RunApp(store, func(sel tui.Selection) (*tui.Stage, error) {
		c, loadErr := store.LoadChart(sel.Slug)
		if loadErr != nil {
			return nil, loadErr
		}
		return launch(c, sel.Preset)
	}, cfg, preset, logger)
}

// openChart loads arg as a file when one exists there, otherwise from the library.
func openChart(arg string) (*chart.Chart, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return chart.Load(arg)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open chart library: %w", err)
	}
	defer store.Close()

	c, err := store.LoadChart(arg)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w (run 'handbeat charts list')", arg, err)
	}
	return c, nil
}
