package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/handbeat/internal/chart"
	"github.com/vovakirdan/handbeat/internal/storage"
)

var (
	flagSlug   string
	flagOutput string
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Manage the chart library",
	Long: `Import, list, export and delete charts in the local chart library.

Examples:
  handbeat charts import ./charts/demo.yaml
  handbeat charts import ./song.json --slug warmup
  handbeat charts list
  handbeat charts export demo -o demo.yaml
  handbeat charts delete demo`,
}

var chartsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add a chart file to the library",
	Long: `Validates a YAML or JSON chart and stores it under a slug derived from its title.
Importing a slug that already exists replaces the stored chart.`,
	Args: cobra.ExactArgs(1),
	Run:  runChartsImport,
}

var chartsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List charts in the library",
	Run:   runChartsList,
}

var chartsExportCmd = &cobra.Command{
	Use:   "export <slug>",
	Short: "Write a library chart as YAML",
	Args:  cobra.ExactArgs(1),
	Run:   runChartsExport,
}

var chartsDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Remove a chart from the library",
	Args:  cobra.ExactArgs(1),
	Run:   runChartsDelete,
}

func init() {
	chartsImportCmd.Flags().StringVar(&flagSlug, "slug", "", "Library slug (default: derived from the title)")
	chartsExportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file (default: stdout)")

	chartsCmd.AddCommand(chartsImportCmd)
	chartsCmd.AddCommand(chartsListCmd)
	chartsCmd.AddCommand(chartsExportCmd)
	chartsCmd.AddCommand(chartsDeleteCmd)
}

// openStore opens the library or exits.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening chart library: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runChartsImport(_ *cobra.Command, args []string) {
	c, err := chart.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// The library outlives the working directory, so keep an absolute audio path.
	if c.Audio != "" {
		if abs, absErr := filepath.Abs(c.Audio); absErr == nil {
			c.Audio = abs
		}
	}

	slug := flagSlug
	if slug == "" {
		slug = storage.Slug(c.Title)
	}

	store := openStore()
	defer store.Close()

	if _, err := store.SaveChart(slug, c); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving chart: %v\n", err)
		os.Exit(1)
	}
	left, right := c.Counts()
	fmt.Printf("Imported %q as %s (%d notes: %d left, %d right)\n", c.Title, slug, c.Len(), left, right)
}

func runChartsList(_ *cobra.Command, _ []string) {
	store := openStore()
	defer store.Close()

	charts, err := store.ListCharts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(charts) == 0 {
		fmt.Println("No charts in the library.")
		fmt.Println("Run 'handbeat charts import <file>' to add one.")
		return
	}

	// Calculate column widths
	maxSlugLen, maxTitleLen := 4, 5 // "Slug", "Title" headers
	for _, c := range charts {
		maxSlugLen = max(maxSlugLen, len(c.Slug))
		maxTitleLen = max(maxTitleLen, len(c.Title))
	}

	fmt.Printf("  %-*s  %-*s  %5s  %6s  %s\n", maxSlugLen, "Slug", maxTitleLen, "Title", "Notes", "Length", "Artist")
	fmt.Printf("  %-*s  %-*s  %5s  %6s  %s\n", maxSlugLen, "----", maxTitleLen, "-----", "-----", "------", "------")
	for _, c := range charts {
		s := int(c.Duration + 0.5)
		fmt.Printf("  %-*s  %-*s  %5d  %3d:%02d  %s\n",
			maxSlugLen, c.Slug, maxTitleLen, c.Title, c.Notes, s/60, s%60, c.Artist)
	}

	fmt.Println()
	fmt.Println("Run 'handbeat play <slug>' to play a chart.")
}

func runChartsExport(_ *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	c, err := store.LoadChart(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if flagOutput != "" {
		f, createErr := os.Create(flagOutput)
		if createErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", createErr)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	if err := c.Encode(w); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing chart: %v\n", err)
		os.Exit(1)
	}
}

func runChartsDelete(_ *cobra.Command, args []string) {
	store := openStore()
	defer store.Close()

	err := store.DeleteChart(args[0])
	switch {
	case errors.Is(err, storage.ErrNotFound):
		fmt.Fprintf(os.Stderr, "No chart %q in the library.\n", args[0])
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted %s\n", args[0])
}
