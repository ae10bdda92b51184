// handbeat is a motion-controlled rhythm game for the terminal. Notes fly down lanes
// toward the player, who cuts them with tracked hands in the right direction.
//
// Usage:
//
//	handbeat play [chart]      - Play a chart file or library chart (picker without args)
//	handbeat charts <cmd>      - Manage the chart library (import, list, export, delete)
//	handbeat backends          - List hand tracking backends
//	handbeat serve             - Start SSH server for remote play
//	handbeat config show       - Print the effective configuration
//
// Global flags:
//
//	--config <path>      - Game config YAML (default: search ~/.handbeat/configs, ./configs)
//	--difficulty <name>  - Difficulty preset: easy, normal, hard, fixed
//	--db <path>          - Chart library database (default: ~/.handbeat/charts.db)
//	--log-level <level>  - debug, info, warn, error
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import backends to register them
	_ "github.com/vovakirdan/handbeat/internal/tracking/none"
	_ "github.com/vovakirdan/handbeat/internal/tracking/replay"
	_ "github.com/vovakirdan/handbeat/internal/tracking/synth"
)

var (
	// Global flags
	flagConfig     string
	flagDifficulty string
	flagDBPath     string
	flagLogLevel   string
	flagLogFile    string
	flagFPS        int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "handbeat",
	Short: "Handbeat - cut notes with your hands, in your terminal",
	Long: `Handbeat is a motion-controlled rhythm game. Notes travel down a lane grid toward
you; strike each one with the right hand, in the right direction, while it crosses the
player line.

Available commands:
  play      - Play a chart
  charts    - Manage the chart library
  backends  - Show hand tracking backends
  serve     - Start SSH server for remote play
  config    - Inspect configuration

Examples:
  handbeat charts import ./charts/demo.yaml
  handbeat play
  handbeat play ./charts/demo.yaml --difficulty hard
  handbeat play demo --backend replay --recording ./run.jsonl
  handbeat serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.handbeat/charts.db", "Path to chart library database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Redraw rate (frames per second)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(chartsCmd)
	rootCmd.AddCommand(backendsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
